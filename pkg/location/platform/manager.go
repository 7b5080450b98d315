package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/attribkit/attribution-sdk/pkg/location"
	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
)

// Driver produces location fixes for a single named provider. Run blocks
// until ctx is cancelled, delivering readings through emit no more often than
// minInterval and only after the position moved by at least minDistance
// meters.
type Driver interface {
	Name() string
	Enabled() bool
	LastKnown() (location.Fix, bool)
	Run(ctx context.Context, minInterval time.Duration, minDistance float64, emit func(location.Fix))
}

// Manager multiplexes registered drivers behind the location.Manager
// interface. Each subscription runs its driver loop in its own goroutine.
type Manager struct {
	drivers map[string]Driver
	subs    cmap.ConcurrentMap[string, *subscription]
	logger  zerolog.Logger
}

type subscription struct {
	cancel context.CancelFunc
}

// NewManager creates a Manager serving the given drivers.
func NewManager(logger zerolog.Logger, drivers ...Driver) *Manager {
	m := &Manager{
		drivers: make(map[string]Driver, len(drivers)),
		subs:    cmap.New[*subscription](),
		logger:  logger.With().Str("component", "location_manager").Logger(),
	}
	for _, d := range drivers {
		m.drivers[d.Name()] = d
	}
	return m
}

// IsProviderEnabled reports whether a driver for name exists and is usable.
func (m *Manager) IsProviderEnabled(name string) bool {
	d, ok := m.drivers[name]
	return ok && d.Enabled()
}

// LastKnownLocation returns the driver's cached reading, if it has one.
func (m *Manager) LastKnownLocation(name string) (location.Fix, bool) {
	d, ok := m.drivers[name]
	if !ok {
		return location.Fix{}, false
	}
	return d.LastKnown()
}

// Subscribe starts the driver loop for name and returns a handle that cancels
// it when passed to Unsubscribe.
func (m *Manager) Subscribe(name string, minInterval time.Duration, minDistance float64, cb func(location.Fix)) (string, error) {
	d, ok := m.drivers[name]
	if !ok {
		return "", fmt.Errorf("unknown location provider %q", name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{cancel: cancel}
	handle := uuid.New().String()
	m.subs.Set(handle, sub)

	go d.Run(ctx, minInterval, minDistance, cb)

	m.logger.Debug().Str("provider", name).Str("handle", handle).Msg("Provider subscription started")
	return handle, nil
}

// Unsubscribe cancels the subscription and returns without waiting for the
// driver loop to observe the cancellation. It must not block: a callback may
// unsubscribe its own subscription from inside emit, so waiting for the loop
// here would deadlock the driver goroutine. A reading already in flight may
// still be delivered after Unsubscribe returns.
func (m *Manager) Unsubscribe(handle string) error {
	sub, ok := m.subs.Get(handle)
	if !ok {
		return fmt.Errorf("unknown subscription %q", handle)
	}
	sub.cancel()
	m.subs.Remove(handle)
	return nil
}
