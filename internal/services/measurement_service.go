package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/attribkit/attribution-sdk/internal/constants"
	"github.com/attribkit/attribution-sdk/internal/enrich"
	"github.com/attribkit/attribution-sdk/internal/models"
	"github.com/attribkit/attribution-sdk/internal/utils"
	"github.com/attribkit/attribution-sdk/pkg/httpclient"
	"github.com/attribkit/attribution-sdk/pkg/identity"
	"github.com/attribkit/attribution-sdk/pkg/location"
	"github.com/rs/zerolog"
)

// LocationSource supplies the best-known location fix for enrichment.
type LocationSource interface {
	LastKnown() (location.Fix, bool)
}

// MeasurementService queues measured events and delivers them to the
// analytics backend, enriched with identity, device and location data.
// MeasureEvent never blocks the host application; on a full queue the event
// is dropped.
type MeasurementService struct {
	// Configuration fields
	endpoint       string
	advertiserID   string
	conversionKey  string
	appVersion     string
	queueSize      int
	workers        int
	requestTimeout time.Duration
	enrichTimeout  time.Duration
	enrichment     *models.EnrichmentConfig

	// Dependencies
	installState identity.InstallStateInterface
	locations    LocationSource
	enrichers    *enrich.Registry
	poster       httpclient.Poster
	logger       zerolog.Logger

	// Internal state management. mu guards ctx and queue: MeasureEvent is
	// called from host goroutines and may race a concurrent Stop.
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	queue  chan *models.Event
	pool   *utils.WorkerPool
}

// NewMeasurementService creates a new MeasurementService instance with the
// provided configuration. locations may be nil when location collection is
// disabled.
func NewMeasurementService(endpoint, advertiserID, conversionKey, appVersion string, queueSize, workers int,
	requestTimeout, enrichTimeout time.Duration, enrichment *models.EnrichmentConfig,
	installState identity.InstallStateInterface, locations LocationSource, enrichers *enrich.Registry,
	poster httpclient.Poster, logger zerolog.Logger) *MeasurementService {
	return &MeasurementService{
		endpoint:       endpoint,
		advertiserID:   advertiserID,
		conversionKey:  conversionKey,
		appVersion:     appVersion,
		queueSize:      queueSize,
		workers:        workers,
		requestTimeout: requestTimeout,
		enrichTimeout:  enrichTimeout,
		enrichment:     enrichment,
		installState:   installState,
		locations:      locations,
		enrichers:      enrichers,
		poster:         poster,
		logger:         logger,
	}
}

// Start launches the delivery loop.
func (m *MeasurementService) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx != nil {
		m.logger.Warn().Msg("MeasurementService is already running")
		return errors.New("measurement service is already running")
	}
	if m.endpoint == "" {
		return errors.New("measurement endpoint is not configured")
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.queue = make(chan *models.Event, m.queueSize)
	m.pool = utils.NewWorkerPool(m.workers, m.queueSize)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.runDeliveryLoop()
	}()

	m.logger.Info().Str("endpoint", m.endpoint).Msg("MeasurementService started successfully")
	return nil
}

// Stop gracefully stops the delivery loop and waits for in-flight sends.
func (m *MeasurementService) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		m.logger.Warn().Msg("MeasurementService is not running")
		return errors.New("measurement service is not running")
	}

	m.cancel()
	m.wg.Wait()
	m.pool.Shutdown()

	m.ctx = nil
	m.cancel = nil

	m.logger.Info().Msg("MeasurementService stopped successfully")
	return nil
}

// MeasureEvent enqueues an event for delivery. It returns immediately; when
// the queue is full the event is dropped and an error returned.
func (m *MeasurementService) MeasureEvent(event *models.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ctx == nil {
		return errors.New("measurement service is not running")
	}

	select {
	case m.queue <- event:
		return nil
	default:
		m.logger.Warn().Str("event", event.Name).Msg("Event queue is full, dropping event")
		return errors.New("event queue is full")
	}
}

// runDeliveryLoop drains the queue, handing each event to the worker pool.
func (m *MeasurementService) runDeliveryLoop() {
	for {
		select {
		case event := <-m.queue:
			m.pool.Submit(func() {
				m.send(event)
			})
		case <-m.ctx.Done():
			m.logger.Info().Msg("MeasurementService stopping gracefully")
			return
		}
	}
}

// send builds the measurement payload for one event and posts it to the
// backend.
func (m *MeasurementService) send(event *models.Event) {
	measurement := models.Measurement{
		Event:        *event,
		AdvertiserID: m.advertiserID,
		InstallID:    m.installState.GetInstallID(),
		SDKVersion:   constants.SDKVersion,
		AppVersion:   m.appVersion,
		SubmittedAt:  time.Now(),
	}

	// Location enrichment is best effort; the sampler returns whatever it
	// has without blocking.
	if m.locations != nil {
		if fix, ok := m.locations.LastKnown(); ok {
			measurement.Location = &models.MeasurementLocation{
				Latitude:  fix.Latitude,
				Longitude: fix.Longitude,
				Accuracy:  fix.Accuracy,
				Provider:  fix.Provider,
				Time:      fix.Time,
			}
		}
	}

	if m.enrichers != nil {
		measurement.Device = m.enrichers.Apply(context.Background(), m.enrichment, m.enrichTimeout)
	}

	payload, err := json.Marshal(measurement)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to serialize measurement")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.requestTimeout)
	defer cancel()

	headers := map[string]string{
		"X-Advertiser-Id":  m.advertiserID,
		"X-Conversion-Key": m.conversionKey,
	}
	if err := m.poster.Post(ctx, m.endpoint, payload, headers); err != nil {
		m.logger.Error().
			Err(err).
			Str("event", event.Name).
			Msg("Failed to deliver measurement")
		return
	}

	m.logger.Debug().Str("event", event.Name).Msg("Measurement delivered successfully")
}
