package enrich

import (
	"context"

	"github.com/attribkit/attribution-sdk/internal/models"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// HardwareEnricher reports coarse hardware characteristics of the host
// device.
type HardwareEnricher struct {
	Logger zerolog.Logger
}

func (h *HardwareEnricher) Name() string {
	return "hardware"
}

func (h *HardwareEnricher) Enrich(ctx context.Context) interface{} {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		h.Logger.Error().Err(err).Msg("Failed to get memory info")
		return nil
	}

	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		h.Logger.Error().Err(err).Msg("Failed to get CPU count")
		return nil
	}

	return &models.DeviceHardware{
		MemoryTotal: vm.Total,
		CPUCores:    cores,
	}
}

func (h *HardwareEnricher) IsEnabled(config *models.EnrichmentConfig) bool {
	return config.Hardware
}

func (h *HardwareEnricher) Description() string {
	return "Total memory and logical CPU core count of the host device."
}
