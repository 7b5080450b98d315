package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/attribkit/attribution-sdk/pkg/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
sdk:
  advertiser_id: "877442"
  conversion_key: "key"
  app_version: "1.0.0"
  log_level: "debug"

measurement:
  endpoint: "https://backend.test/serve"
  queue_size: 50
  workers: 4
  request_timeout: 5s
  enrich_timeout: 1s

session:
  enabled: true
  interval: 15m

location:
  enabled: true
  fine_location: true
  coarse_location: true
  gps_device_port: "/dev/ttyUSB0"
  gps_baud_rate: 4800
  maps_api_key: "maps-key"

enrichment:
  device_info: true
  hardware: true
  locale: false

identity:
  state_file: "/var/lib/app/state.json"
`

// TestLoadConfig tests YAML parsing of the full configuration surface.
func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0600))

	config, err := LoadConfig(path, file.NewFileService())
	require.NoError(t, err)

	assert.Equal(t, "877442", config.SDK.AdvertiserID)
	assert.Equal(t, "key", config.SDK.ConversionKey)
	assert.Equal(t, "https://backend.test/serve", config.Measurement.Endpoint)
	assert.Equal(t, 50, config.Measurement.QueueSize)
	assert.Equal(t, 4, config.Measurement.Workers)
	assert.Equal(t, 5*time.Second, config.Measurement.RequestTimeout)
	assert.Equal(t, 15*time.Minute, config.Session.Interval)
	assert.True(t, config.Location.Enabled)
	assert.True(t, config.Location.FineLocation)
	assert.Equal(t, 4800, config.Location.GPSDeviceBaudRate)
	assert.Equal(t, "maps-key", config.Location.MapsAPIKey)
	assert.True(t, config.Enrichment.DeviceInfo)
	assert.False(t, config.Enrichment.Locale)
	assert.Equal(t, "/var/lib/app/state.json", config.Identity.StateFile)
}

// TestLoadConfig_MissingFile tests the error path.
func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), file.NewFileService())
	assert.Error(t, err)
}
