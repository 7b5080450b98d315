package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/attribkit/attribution-sdk/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// stubEnricher returns a canned value and records whether it ran.
type stubEnricher struct {
	name    string
	value   interface{}
	enabled bool
	ran     bool
}

func (s *stubEnricher) Name() string { return s.name }

func (s *stubEnricher) Enrich(ctx context.Context) interface{} {
	s.ran = true
	return s.value
}

func (s *stubEnricher) IsEnabled(config *models.EnrichmentConfig) bool { return s.enabled }

func (s *stubEnricher) Description() string { return "stub" }

// TestRegistry_Apply tests that enabled enrichers contribute and disabled or
// failing ones are skipped.
func TestRegistry_Apply(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	enabled := &stubEnricher{name: "os", value: "linux", enabled: true}
	disabled := &stubEnricher{name: "hardware", value: "x", enabled: false}
	failing := &stubEnricher{name: "locale", value: nil, enabled: true}
	r.Register(enabled)
	r.Register(disabled)
	r.Register(failing)

	device := r.Apply(context.Background(), &models.EnrichmentConfig{}, time.Second)

	assert.Equal(t, map[string]interface{}{"os": "linux"}, device)
	assert.True(t, enabled.ran)
	assert.False(t, disabled.ran)
	assert.True(t, failing.ran)
}

// TestRegistry_Apply_Empty tests that an empty registry yields an empty map.
func TestRegistry_Apply_Empty(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	device := r.Apply(context.Background(), &models.EnrichmentConfig{}, time.Second)

	assert.Empty(t, device)
}

// TestDeviceEnricher tests the gopsutil-backed OS enricher against the host
// running the tests.
func TestDeviceEnricher(t *testing.T) {
	e := &DeviceEnricher{Logger: zerolog.Nop()}

	value := e.Enrich(context.Background())

	if assert.NotNil(t, value) {
		info, ok := value.(*models.DeviceOS)
		assert.True(t, ok)
		assert.NotEmpty(t, info.OS)
	}
}

// TestEnricherEnablement tests the config gates of the built-in enrichers.
func TestEnricherEnablement(t *testing.T) {
	config := &models.EnrichmentConfig{DeviceInfo: true, Hardware: false, Locale: true}

	assert.True(t, (&DeviceEnricher{}).IsEnabled(config))
	assert.False(t, (&HardwareEnricher{}).IsEnabled(config))
	assert.True(t, (&LocaleEnricher{}).IsEnabled(config))
}
