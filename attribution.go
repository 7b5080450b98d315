// Package attribution is the public entry point of the attribution SDK. A
// host application initializes it once, measures events through it, and shuts
// it down when the application exits.
package attribution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/attribkit/attribution-sdk/internal/enrich"
	"github.com/attribkit/attribution-sdk/internal/models"
	"github.com/attribkit/attribution-sdk/internal/services"
	"github.com/attribkit/attribution-sdk/internal/utils"
	"github.com/attribkit/attribution-sdk/pkg/file"
	"github.com/attribkit/attribution-sdk/pkg/httpclient"
	"github.com/attribkit/attribution-sdk/pkg/identity"
	"github.com/attribkit/attribution-sdk/pkg/location"
	"github.com/attribkit/attribution-sdk/pkg/location/platform"
	"github.com/rs/zerolog"
)

// Event re-exports the event builder so host applications only import this
// package.
type Event = models.Event

// EventItem re-exports the event line item type.
type EventItem = models.EventItem

// NewEvent creates an event for the given action name.
func NewEvent(name string) *Event {
	return models.NewEvent(name)
}

// SDK is a fully wired attribution client. Create one with Initialize.
type SDK struct {
	config      *utils.Config
	logger      zerolog.Logger
	registry    *services.Registry
	measurement *services.MeasurementService
	sampler     *location.Sampler
	cancel      context.CancelFunc
}

// Option overrides a default collaborator, mainly so hosts can plug in their
// own platform services.
type Option func(*options)

type options struct {
	logger      *zerolog.Logger
	permissions location.Permissions
	manager     location.Manager
}

// WithLogger replaces the default stdout logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = &logger }
}

// WithPermissions replaces the config-driven permission checks with the
// host's own permission service.
func WithPermissions(p location.Permissions) Option {
	return func(o *options) { o.permissions = p }
}

// WithLocationManager replaces the built-in platform drivers with the host's
// own location manager.
func WithLocationManager(m location.Manager) Option {
	return func(o *options) { o.manager = m }
}

// Initialize loads the configuration file, wires all SDK services and starts
// them. The returned SDK is ready to measure events.
func Initialize(configPath string, opts ...Option) (*SDK, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	fileClient := file.NewFileService()
	config, err := utils.LoadConfig(configPath, fileClient)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyDefaults(config)

	if config.SDK.AdvertiserID == "" || config.SDK.ConversionKey == "" {
		return nil, errors.New("advertiser_id and conversion_key must be configured")
	}

	var logger zerolog.Logger
	if o.logger != nil {
		logger = *o.logger
	} else {
		level, err := zerolog.ParseLevel(config.SDK.LogLevel)
		if err != nil || config.SDK.LogLevel == "" {
			level = zerolog.InfoLevel
		}
		logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("sdk", "attribution").Logger()
	}

	installState := identity.NewInstallState(config.Identity.StateFile, fileClient)
	if err := installState.Load(); err != nil {
		return nil, fmt.Errorf("failed to load install state: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var sampler *location.Sampler
	if config.Location.Enabled {
		manager := o.manager
		if manager == nil {
			manager = buildPlatformManager(config, logger)
		}
		permissions := o.permissions
		if permissions == nil {
			permissions = configPermissions{
				fine:   config.Location.FineLocation,
				coarse: config.Location.CoarseLocation,
			}
		}
		sampler = location.NewSampler(ctx, manager, permissions, logger)
	}

	enrichers := enrich.NewRegistry(logger)
	enrichers.Register(&enrich.DeviceEnricher{Logger: logger})
	enrichers.Register(&enrich.HardwareEnricher{Logger: logger})
	enrichers.Register(&enrich.LocaleEnricher{Logger: logger})

	var locationSource services.LocationSource
	if sampler != nil {
		locationSource = sampler
	}

	poster := httpclient.NewClient(config.Measurement.RequestTimeout, logger)
	measurement := services.NewMeasurementService(
		config.Measurement.Endpoint,
		config.SDK.AdvertiserID,
		config.SDK.ConversionKey,
		config.SDK.AppVersion,
		config.Measurement.QueueSize,
		config.Measurement.Workers,
		config.Measurement.RequestTimeout,
		config.Measurement.EnrichTimeout,
		&config.Enrichment,
		installState,
		locationSource,
		enrichers,
		poster,
		logger,
	)

	registry := services.NewRegistry(logger)
	registry.Register("measurement", measurement)
	if config.Session.Enabled {
		registry.Register("session", services.NewSessionService(
			config.Session.Interval,
			config.SDK.AppVersion,
			installState,
			measurement,
			logger,
		))
	}

	if err := registry.StartServices(); err != nil {
		cancel()
		return nil, err
	}

	logger.Info().Msg("Attribution SDK initialized")
	return &SDK{
		config:      config,
		logger:      logger,
		registry:    registry,
		measurement: measurement,
		sampler:     sampler,
		cancel:      cancel,
	}, nil
}

// MeasureEvent queues an event for delivery to the analytics backend. It
// never blocks; on a full queue the event is dropped and an error returned.
func (s *SDK) MeasureEvent(event *Event) error {
	return s.measurement.MeasureEvent(event)
}

// LastKnownLocation returns the sampler's current best fix, if location
// collection is enabled and a fix exists. Calling it may start a new
// listening window as a side effect.
func (s *SDK) LastKnownLocation() (location.Fix, bool) {
	if s.sampler == nil {
		return location.Fix{}, false
	}
	return s.sampler.LastKnown()
}

// Shutdown stops all services and releases platform resources. The SDK must
// not be used afterwards.
func (s *SDK) Shutdown() error {
	if s.sampler != nil {
		s.sampler.StopListening()
	}
	err := s.registry.StopServices()
	s.cancel()
	s.logger.Info().Msg("Attribution SDK shut down")
	return err
}

// buildPlatformManager assembles the built-in drivers the configuration
// enables.
func buildPlatformManager(config *utils.Config, logger zerolog.Logger) *platform.Manager {
	var drivers []platform.Driver
	if config.Location.GPSDevicePort != "" {
		drivers = append(drivers, platform.NewSerialGPSDriver(
			config.Location.GPSDevicePort,
			config.Location.GPSDeviceBaudRate,
			logger,
		))
	}
	if config.Location.MapsAPIKey != "" {
		geo, err := platform.NewGeoAPIDriver(config.Location.MapsAPIKey, logger)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to create geolocation driver")
		} else {
			drivers = append(drivers, geo)
		}
	}
	return platform.NewManager(logger, drivers...)
}

// configPermissions answers permission checks from static configuration, for
// hosts that do not bring their own permission service.
type configPermissions struct {
	fine   bool
	coarse bool
}

func (p configPermissions) HasPermission(perm location.Permission) bool {
	switch perm {
	case location.PermissionFineLocation:
		return p.fine
	case location.PermissionCoarseLocation:
		return p.coarse
	default:
		return false
	}
}

// applyDefaults fills in sane defaults for optional settings.
func applyDefaults(config *utils.Config) {
	if config.Measurement.QueueSize <= 0 {
		config.Measurement.QueueSize = 100
	}
	if config.Measurement.Workers <= 0 {
		config.Measurement.Workers = 2
	}
	if config.Measurement.RequestTimeout <= 0 {
		config.Measurement.RequestTimeout = 10 * time.Second
	}
	if config.Measurement.EnrichTimeout <= 0 {
		config.Measurement.EnrichTimeout = 2 * time.Second
	}
	if config.Session.Interval <= 0 {
		config.Session.Interval = 30 * time.Minute
	}
	if config.Location.GPSDeviceBaudRate <= 0 {
		config.Location.GPSDeviceBaudRate = 9600
	}
	if config.Identity.StateFile == "" {
		config.Identity.StateFile = "attribution_state.json"
	}
}
