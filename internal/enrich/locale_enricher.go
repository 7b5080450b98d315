package enrich

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/attribkit/attribution-sdk/internal/models"
	"github.com/rs/zerolog"
)

// LocaleEnricher reports the language and timezone of the host environment.
type LocaleEnricher struct {
	Logger zerolog.Logger
}

func (l *LocaleEnricher) Name() string {
	return "locale"
}

func (l *LocaleEnricher) Enrich(ctx context.Context) interface{} {
	language := os.Getenv("LANG")
	if i := strings.IndexAny(language, ".@"); i >= 0 {
		language = language[:i]
	}

	zone, offset := time.Now().Zone()

	return &models.DeviceLocale{
		Language:       language,
		Timezone:       zone,
		TimezoneOffset: offset,
	}
}

func (l *LocaleEnricher) IsEnabled(config *models.EnrichmentConfig) bool {
	return config.Locale
}

func (l *LocaleEnricher) Description() string {
	return "Language and timezone of the host environment."
}
