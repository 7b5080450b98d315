package platform

import (
	"context"
	"sync"
	"time"

	"github.com/attribkit/attribution-sdk/pkg/location"
	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"
)

const geolocateTimeout = 10 * time.Second

// GeoAPIDriver resolves the device position through the Google Geolocation
// API, using nearby WiFi access points when available and falling back to the
// caller's IP. It serves as the coarse "network" provider.
type GeoAPIDriver struct {
	client *maps.Client
	logger zerolog.Logger

	mu        sync.Mutex
	lastKnown *location.Fix
}

// NewGeoAPIDriver creates a driver backed by the Google Maps API key.
func NewGeoAPIDriver(apiKey string, logger zerolog.Logger) (*GeoAPIDriver, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeoAPIDriver{
		client: c,
		logger: logger.With().Str("provider", location.ProviderNetwork).Logger(),
	}, nil
}

func (d *GeoAPIDriver) Name() string {
	return location.ProviderNetwork
}

func (d *GeoAPIDriver) Enabled() bool {
	return d.client != nil
}

// LastKnown returns the most recent fix resolved through the API, if any.
func (d *GeoAPIDriver) LastKnown() (location.Fix, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastKnown == nil {
		return location.Fix{}, false
	}
	return *d.lastKnown, true
}

// Run polls the geolocation API once per minInterval until ctx is cancelled.
// Readings that moved less than minDistance meters since the last emitted one
// are cached but not delivered.
func (d *GeoAPIDriver) Run(ctx context.Context, minInterval time.Duration, minDistance float64, emit func(location.Fix)) {
	var lastEmitted *location.Fix

	deliver := func() {
		fix, err := d.locate(ctx)
		if err != nil {
			d.logger.Error().Err(err).Msg("Geolocation API request failed")
			return
		}

		d.mu.Lock()
		cached := fix
		d.lastKnown = &cached
		d.mu.Unlock()

		if lastEmitted != nil && distanceMeters(*lastEmitted, fix) < minDistance {
			return
		}
		emitted := fix
		lastEmitted = &emitted
		emit(fix)
	}

	// First reading right away, then on the interval.
	deliver()

	ticker := time.NewTicker(minInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			deliver()
		case <-ctx.Done():
			return
		}
	}
}

// locate performs a single geolocation request.
func (d *GeoAPIDriver) locate(ctx context.Context) (location.Fix, error) {
	ctx, cancel := context.WithTimeout(ctx, geolocateTimeout)
	defer cancel()

	req := &maps.GeolocationRequest{
		ConsiderIP: true,
	}

	// WiFi data sharpens the estimate considerably but is best-effort.
	wifiAPs, err := getWiFiAccessPoints(ctx)
	if err != nil {
		d.logger.Debug().Err(err).Msg("WiFi scan unavailable, falling back to IP geolocation")
	} else {
		req.WiFiAccessPoints = wifiAPs
	}

	resp, err := d.client.Geolocate(ctx, req)
	if err != nil {
		return location.Fix{}, err
	}

	return location.Fix{
		Time:      time.Now(),
		Latitude:  resp.Location.Lat,
		Longitude: resp.Location.Lng,
		Accuracy:  resp.Accuracy,
		Provider:  location.ProviderNetwork,
	}, nil
}
