package platform

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/adrianmo/go-nmea"
	"github.com/attribkit/attribution-sdk/pkg/location"
	"github.com/rs/zerolog"
	"github.com/tarm/serial"
)

// Horizontal accuracy estimate per unit of HDOP, in meters.
const metersPerHDOP = 5.0

// SerialGPSDriver reads NMEA sentences from a GPS device on a serial port and
// serves them as the high-accuracy "gps" provider.
type SerialGPSDriver struct {
	port     string
	baudRate int
	logger   zerolog.Logger

	mu        sync.Mutex
	lastKnown *location.Fix
}

// NewSerialGPSDriver creates a driver for the GPS device at the given port
// and baud rate.
func NewSerialGPSDriver(port string, baudRate int, logger zerolog.Logger) *SerialGPSDriver {
	return &SerialGPSDriver{
		port:     port,
		baudRate: baudRate,
		logger:   logger.With().Str("provider", location.ProviderGPS).Logger(),
	}
}

func (d *SerialGPSDriver) Name() string {
	return location.ProviderGPS
}

// Enabled reports whether the configured serial device is present.
func (d *SerialGPSDriver) Enabled() bool {
	if d.port == "" {
		return false
	}
	_, err := os.Stat(d.port)
	return err == nil
}

// LastKnown returns the most recent fix parsed from the device, if any.
func (d *SerialGPSDriver) LastKnown() (location.Fix, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastKnown == nil {
		return location.Fix{}, false
	}
	return *d.lastKnown, true
}

// Run reads GGA sentences from the serial port until ctx is cancelled. Every
// parsed fix updates the last-known cache; emit fires only when both the
// minimum interval and the minimum movement thresholds are met.
func (d *SerialGPSDriver) Run(ctx context.Context, minInterval time.Duration, minDistance float64, emit func(location.Fix)) {
	c := &serial.Config{Name: d.port, Baud: d.baudRate, ReadTimeout: time.Second}
	s, err := serial.OpenPort(c)
	if err != nil {
		d.logger.Error().Err(err).Str("port", d.port).Msg("Failed to open GPS serial port")
		return
	}
	defer s.Close()

	var lastEmitted *location.Fix
	var lastEmitTime time.Time

	scanner := bufio.NewScanner(s)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "$GPGGA") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			d.logger.Debug().Err(err).Msg("Skipping unparsable NMEA sentence")
			continue
		}
		gga, ok := sentence.(nmea.GGA)
		if !ok {
			continue
		}

		fix := location.Fix{
			Time:      time.Now(),
			Latitude:  gga.Latitude,
			Longitude: gga.Longitude,
			Accuracy:  float64(gga.HDOP) * metersPerHDOP,
			Provider:  location.ProviderGPS,
		}
		if !fix.Valid() {
			continue
		}

		d.mu.Lock()
		cached := fix
		d.lastKnown = &cached
		d.mu.Unlock()

		if time.Since(lastEmitTime) < minInterval {
			continue
		}
		if lastEmitted != nil && distanceMeters(*lastEmitted, fix) < minDistance {
			continue
		}

		lastEmitTime = time.Now()
		emitted := fix
		lastEmitted = &emitted
		emit(fix)
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		d.logger.Error().Err(err).Msg("GPS serial read failed")
	}
}
