package location

import (
	"context"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
)

// Sampler holds the best-known location fix and opportunistically refreshes
// it by listening to the platform providers for a bounded window. It never
// blocks the caller: LastKnown returns immediately and fresher values surface
// on later calls.
//
// The sampler does not own the host: it borrows the host's context and turns
// into a no-op once that context is done.
type Sampler struct {
	manager     Manager
	permissions Permissions
	logger      zerolog.Logger
	hostCtx     context.Context

	// subscriptions maps provider name to the handle returned by the
	// manager, so teardown works regardless of registration order.
	subscriptions cmap.ConcurrentMap[string, string]

	// timeout bounds each listening window. Defaults to ListenerTimeout;
	// tests shorten it to exercise the forced-stop path.
	timeout time.Duration

	mu              sync.Mutex
	current         *Fix
	listening       bool
	timer           *time.Timer
	lastPermitted   bool
	permissionKnown bool
}

// NewSampler creates a Sampler bound to the host's context. The sampler stops
// doing any work once hostCtx is cancelled.
func NewSampler(hostCtx context.Context, manager Manager, permissions Permissions, logger zerolog.Logger) *Sampler {
	return &Sampler{
		manager:       manager,
		permissions:   permissions,
		logger:        logger.With().Str("component", "location_sampler").Logger(),
		hostCtx:       hostCtx,
		subscriptions: cmap.New[string](),
		timeout:       ListenerTimeout,
	}
}

// LastKnown returns the current best fix, if any. If the fix is missing or
// older than ValidityDuration and the sampler is not already listening, a new
// listening window is started as a side effect. The call itself never blocks
// and never fails.
func (s *Sampler) LastKnown() (Fix, bool) {
	s.mu.Lock()
	current := s.current
	listening := s.listening
	s.mu.Unlock()

	if current == nil || current.Age() > ValidityDuration {
		if !listening {
			s.logger.Debug().Msg("Last fix is missing or outdated, starting to listen")
			s.StartListening()
		}
	}

	if current == nil {
		return Fix{}, false
	}
	return *current, true
}

// StartListening begins a bounded listening window. It is a no-op if the host
// is gone, no location permission is granted, or a window is already open.
// Provider registration happens asynchronously; the call returns immediately.
func (s *Sampler) StartListening() {
	if s.hostCtx.Err() != nil {
		return
	}
	if !s.locationPermitted() {
		return
	}

	s.mu.Lock()
	if s.listening {
		s.mu.Unlock()
		return
	}
	s.listening = true
	// Force a stop if no qualifying reading ever arrives.
	s.timer = time.AfterFunc(s.timeout, func() {
		s.logger.Debug().Msg("Location listener timed out")
		s.StopListening()
	})
	s.mu.Unlock()

	go s.subscribeProviders()
}

// StopListening cancels the timeout and tears down all provider
// subscriptions. It is idempotent and safe to call from any goroutine,
// including provider callbacks.
func (s *Sampler) StopListening() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.listening = false
	s.mu.Unlock()

	for item := range s.subscriptions.IterBuffered() {
		if err := s.manager.Unsubscribe(item.Val); err != nil {
			// The platform may have torn the provider down already.
			s.logger.Debug().Err(err).Str("provider", item.Key).Msg("Failed to unsubscribe from location provider")
		}
		s.subscriptions.Remove(item.Key)
	}
}

// IsListening reports whether a listening window is currently open.
func (s *Sampler) IsListening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

// locationPermitted checks whether the host granted any location permission.
func (s *Sampler) locationPermitted() bool {
	permitted := s.permissions.HasPermission(PermissionFineLocation) ||
		s.permissions.HasPermission(PermissionCoarseLocation)

	s.mu.Lock()
	if s.permissionKnown && permitted != s.lastPermitted {
		s.logger.Debug().Bool("permitted", permitted).Msg("Location permission state changed")
	}
	s.lastPermitted = permitted
	s.permissionKnown = true
	s.mu.Unlock()

	return permitted
}

// subscribeProviders registers with every provider the granted permissions
// allow. GPS needs the fine permission, the network provider the coarse one.
func (s *Sampler) subscribeProviders() {
	if s.permissions.HasPermission(PermissionFineLocation) {
		s.subscribe(ProviderGPS)
	}
	if s.permissions.HasPermission(PermissionCoarseLocation) {
		s.subscribe(ProviderNetwork)
	}
}

// subscribe seeds the current fix from the provider's last known reading and
// registers for updates from it.
func (s *Sampler) subscribe(name string) {
	if !s.manager.IsProviderEnabled(name) {
		s.logger.Debug().Str("provider", name).Msg("Location provider is not enabled, skipping")
		return
	}

	// Seed from the last known reading so a timed-out window still leaves
	// us with something.
	if fix, ok := s.manager.LastKnownLocation(name); ok {
		s.mu.Lock()
		if s.current == nil && fix.Valid() {
			seeded := fix
			s.current = &seeded
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	listening := s.listening
	s.mu.Unlock()
	if !listening {
		// Stopped before registration completed.
		return
	}

	handle, err := s.manager.Subscribe(name, MinTimeBetweenUpdates, MinDistanceForUpdates, s.onReading)
	if err != nil {
		s.logger.Error().Err(err).Str("provider", name).Msg("Failed to subscribe to location provider")
		return
	}
	s.subscriptions.Set(name, handle)
	s.logger.Debug().Str("provider", name).Msg("Listening for location updates")

	// A stop may have raced the registration; make sure the subscription
	// does not outlive the window.
	if !s.IsListening() {
		if err := s.manager.Unsubscribe(handle); err == nil {
			s.subscriptions.Remove(name)
		}
	}
}

// onReading is the provider callback. It replaces the current fix when the
// candidate wins the comparison policy and closes the window early once a
// reading meets the desired accuracy. One qualifying reading is sufficient;
// the sampler does not keep refining.
func (s *Sampler) onReading(candidate Fix) {
	if s.hostCtx.Err() != nil {
		return
	}
	if !candidate.Valid() {
		s.logger.Debug().Msg("Discarding invalid location reading")
		return
	}

	s.logger.Debug().
		Str("provider", candidate.Provider).
		Float64("accuracy", candidate.Accuracy).
		Msg("Received new location reading")

	s.mu.Lock()
	if isBetterFix(candidate, s.current) {
		accepted := candidate
		s.current = &accepted
		s.logger.Debug().Msg("New location reading is better, saving")
	}
	s.mu.Unlock()

	if candidate.Accuracy <= DesiredAccuracy {
		s.StopListening()
	}
}

// isBetterFix decides whether candidate should replace current. The rules are
// evaluated in order and the first decisive one wins:
//
//  1. no current fix: candidate wins
//  2. significantly newer (by more than ValidityDuration): candidate wins;
//     significantly older: candidate loses
//  3. more accurate: candidate wins
//  4. newer and not less accurate: candidate wins
//  5. newer, not significantly less accurate, and from the same provider:
//     candidate wins
func isBetterFix(candidate Fix, current *Fix) bool {
	if current == nil {
		return true
	}

	timeDelta := candidate.Time.Sub(current.Time)
	isSignificantlyNewer := timeDelta > ValidityDuration
	isSignificantlyOlder := timeDelta < -ValidityDuration
	isNewer := timeDelta > 0

	if isSignificantlyNewer {
		// The user has likely moved since the current fix.
		return true
	}
	if isSignificantlyOlder {
		return false
	}

	accuracyDelta := candidate.Accuracy - current.Accuracy
	isLessAccurate := accuracyDelta > 0
	isMoreAccurate := accuracyDelta < 0
	isSignificantlyLessAccurate := accuracyDelta > significantAccuracyLoss

	if isMoreAccurate {
		return true
	}
	if isNewer && !isLessAccurate {
		return true
	}
	return isNewer && !isSignificantlyLessAccurate && candidate.Provider == current.Provider
}
