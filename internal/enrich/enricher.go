package enrich

import (
	"context"
	"time"

	"github.com/attribkit/attribution-sdk/internal/models"
	"github.com/rs/zerolog"
)

// Enricher contributes one piece of device context to outgoing measurements.
type Enricher interface {
	Name() string                                   // Key under which the data appears in the payload
	Enrich(ctx context.Context) interface{}         // Collect the data, nil on failure
	IsEnabled(config *models.EnrichmentConfig) bool // Check if the enricher is enabled in the config
	Description() string                            // Description of the contributed data
}

// Registry manages all enrichers and applies the enabled ones to a
// measurement.
type Registry struct {
	enrichers map[string]Enricher
	logger    zerolog.Logger
}

// NewRegistry creates an empty enricher registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		enrichers: make(map[string]Enricher),
		logger:    logger.With().Str("component", "enrich_registry").Logger(),
	}
}

// Register adds an enricher to the registry.
func (r *Registry) Register(e Enricher) {
	r.enrichers[e.Name()] = e
}

// Apply runs every enabled enricher, bounded by timeout, and returns the
// collected device context keyed by enricher name. Failures are logged and
// skipped; Apply never fails.
func (r *Registry) Apply(ctx context.Context, config *models.EnrichmentConfig, timeout time.Duration) map[string]interface{} {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	device := make(map[string]interface{}, len(r.enrichers))
	for name, e := range r.enrichers {
		if !e.IsEnabled(config) {
			continue
		}
		if ctx.Err() != nil {
			r.logger.Warn().Msg("Enrichment timed out, skipping remaining enrichers")
			break
		}
		value := e.Enrich(ctx)
		if value == nil {
			continue
		}
		device[name] = value
	}
	return device
}
