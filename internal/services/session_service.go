package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/attribkit/attribution-sdk/internal/constants"
	"github.com/attribkit/attribution-sdk/internal/models"
	"github.com/attribkit/attribution-sdk/pkg/identity"
	"github.com/rs/zerolog"
)

// EventSink accepts events for measurement. Implemented by the measurement
// service.
type EventSink interface {
	MeasureEvent(event *models.Event) error
}

// SessionService tracks the install lifecycle of the SDK inside the host
// application. On start it decides whether this run is a fresh install, an
// app update or a plain open, measures the matching event, and then emits
// periodic session events while the host keeps running.
type SessionService struct {
	// Configuration fields
	interval   time.Duration
	appVersion string

	// Dependencies
	installState identity.InstallStateInterface
	sink         EventSink
	logger       zerolog.Logger

	// Internal state management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSessionService initializes a new SessionService.
func NewSessionService(interval time.Duration, appVersion string, installState identity.InstallStateInterface,
	sink EventSink, logger zerolog.Logger) *SessionService {
	return &SessionService{
		interval:     interval,
		appVersion:   appVersion,
		installState: installState,
		sink:         sink,
		logger:       logger,
	}
}

// Start measures the lifecycle event for this run and launches the session
// loop.
func (s *SessionService) Start() error {
	if s.ctx != nil {
		s.logger.Warn().Msg("SessionService is already running")
		return errors.New("session service is already running")
	}

	if err := s.measureLifecycleEvent(); err != nil {
		return err
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runSessionLoop()
	}()

	s.logger.Info().Dur("interval", s.interval).Msg("SessionService started successfully")
	return nil
}

// Stop gracefully stops the session service.
func (s *SessionService) Stop() error {
	if s.ctx == nil {
		s.logger.Warn().Msg("SessionService is not running")
		return errors.New("session service is not running")
	}

	s.cancel()
	s.wg.Wait()

	s.ctx = nil
	s.cancel = nil

	s.logger.Info().Msg("SessionService stopped successfully")
	return nil
}

// measureLifecycleEvent measures install, update or open depending on the
// persisted install state and the host application version.
func (s *SessionService) measureLifecycleEvent() error {
	_, fresh, err := s.installState.EnsureInstallID()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to ensure install ID")
		return err
	}

	name := constants.EventOpen
	if fresh {
		name = constants.EventInstall
	} else if s.isAppUpdated() {
		name = constants.EventUpdate
	}

	if s.appVersion != "" && s.appVersion != s.installState.GetAppVersion() {
		if err := s.installState.SaveAppVersion(s.appVersion); err != nil {
			s.logger.Error().Err(err).Msg("Failed to persist app version")
		}
	}

	if err := s.sink.MeasureEvent(models.NewEvent(name)); err != nil {
		s.logger.Error().Err(err).Str("event", name).Msg("Failed to measure lifecycle event")
		return err
	}

	s.logger.Info().Str("event", name).Msg("Lifecycle event measured")
	return nil
}

// isAppUpdated compares the stored app version with the current one.
// Unparsable versions are treated as not updated.
func (s *SessionService) isAppUpdated() bool {
	stored := s.installState.GetAppVersion()
	if stored == "" || s.appVersion == "" {
		return false
	}

	previous, err := semver.NewVersion(stored)
	if err != nil {
		s.logger.Debug().Err(err).Str("version", stored).Msg("Stored app version is not semver")
		return false
	}
	current, err := semver.NewVersion(s.appVersion)
	if err != nil {
		s.logger.Debug().Err(err).Str("version", s.appVersion).Msg("Current app version is not semver")
		return false
	}

	return current.GreaterThan(previous)
}

// runSessionLoop emits a session keep-alive event once per interval.
func (s *SessionService) runSessionLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.sink.MeasureEvent(models.NewEvent(constants.EventSession)); err != nil {
				s.logger.Error().Err(err).Msg("Failed to measure session event")
			}
		case <-s.ctx.Done():
			s.logger.Info().Msg("SessionService stopping gracefully")
			return
		}
	}
}
