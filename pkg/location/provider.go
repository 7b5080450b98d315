package location

import "time"

// Provider names understood by the sampler.
const (
	// ProviderGPS is the high-accuracy provider. Requires the fine
	// location permission.
	ProviderGPS = "gps"
	// ProviderNetwork is the coarse provider. Requires the coarse
	// location permission.
	ProviderNetwork = "network"
)

// Permission identifies a location permission kind granted by the host.
type Permission string

const (
	PermissionFineLocation   Permission = "fine_location"
	PermissionCoarseLocation Permission = "coarse_location"
)

// Permissions is implemented by the host to answer permission checks.
type Permissions interface {
	HasPermission(p Permission) bool
}

// Manager abstracts the platform location providers the sampler listens to.
// Subscribe returns an opaque handle used to cancel the subscription later.
type Manager interface {
	IsProviderEnabled(name string) bool
	LastKnownLocation(name string) (Fix, bool)
	Subscribe(name string, minInterval time.Duration, minDistance float64, cb func(Fix)) (string, error)
	Unsubscribe(handle string) error
}

// Sampling parameters. These mirror the tuning of the production SDK and are
// not configurable per call.
const (
	// ListenerTimeout is the max time to listen for location updates.
	ListenerTimeout = 30 * time.Second
	// ValidityDuration is how long a fix is considered current.
	ValidityDuration = 2 * time.Minute
	// MinTimeBetweenUpdates is the minimum time between provider updates.
	MinTimeBetweenUpdates = 5 * time.Second
	// MinDistanceForUpdates is the minimum movement, in meters, between
	// provider updates.
	MinDistanceForUpdates = 10.0
	// DesiredAccuracy is the accuracy radius, in meters, at which a single
	// reading is good enough to stop listening early.
	DesiredAccuracy = 1000.0

	// A candidate that is worse by more than this many meters is
	// significantly less accurate for the comparison policy.
	significantAccuracyLoss = 200.0
)
