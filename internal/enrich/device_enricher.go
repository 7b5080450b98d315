package enrich

import (
	"context"

	"github.com/attribkit/attribution-sdk/internal/models"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/host"
)

// DeviceEnricher reports the operating system and platform of the host
// device.
type DeviceEnricher struct {
	Logger zerolog.Logger
}

func (d *DeviceEnricher) Name() string {
	return "os"
}

func (d *DeviceEnricher) Enrich(ctx context.Context) interface{} {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		d.Logger.Error().Err(err).Msg("Failed to get host info")
		return nil
	}

	return &models.DeviceOS{
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelArch:      info.KernelArch,
	}
}

func (d *DeviceEnricher) IsEnabled(config *models.EnrichmentConfig) bool {
	return config.DeviceInfo
}

func (d *DeviceEnricher) Description() string {
	return "Operating system, platform and architecture of the host device."
}
