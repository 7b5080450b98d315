package utils

import (
	"time"

	"github.com/attribkit/attribution-sdk/internal/models"
	"github.com/attribkit/attribution-sdk/pkg/file"
)

// Config represents the structure of the SDK configuration file.
type Config struct {
	SDK struct {
		AdvertiserID  string `yaml:"advertiser_id"`  // Advertiser account ID in the analytics backend
		ConversionKey string `yaml:"conversion_key"` // Key authenticating measurement calls
		AppVersion    string `yaml:"app_version"`    // Host application version (semver)
		LogLevel      string `yaml:"log_level"`      // zerolog level: debug, info, warn, error
	} `yaml:"sdk"`

	Measurement struct {
		Endpoint       string        `yaml:"endpoint"`        // Measurement endpoint URL
		QueueSize      int           `yaml:"queue_size"`      // Capacity of the in-memory event queue
		Workers        int           `yaml:"workers"`         // Number of concurrent delivery workers
		RequestTimeout time.Duration `yaml:"request_timeout"` // Timeout per measurement call
		EnrichTimeout  time.Duration `yaml:"enrich_timeout"`  // Timeout for device enrichment per event
	} `yaml:"measurement"`

	Session struct {
		Enabled  bool          `yaml:"enabled"`  // Enable/disable the session service
		Interval time.Duration `yaml:"interval"` // Interval between session keep-alive events
	} `yaml:"session"`

	Location struct {
		Enabled           bool   `yaml:"enabled"`         // Enable/disable location enrichment
		FineLocation      bool   `yaml:"fine_location"`   // Host granted the fine location permission
		CoarseLocation    bool   `yaml:"coarse_location"` // Host granted the coarse location permission
		GPSDevicePort     string `yaml:"gps_device_port"` // Serial port where the GPS sensor is mounted
		GPSDeviceBaudRate int    `yaml:"gps_baud_rate"`   // Baud rate for the GPS sensor
		MapsAPIKey        string `yaml:"maps_api_key"`    // Google Maps API key for the network provider
	} `yaml:"location"`

	Enrichment models.EnrichmentConfig `yaml:"enrichment"` // Device enrichers to run per event

	Identity struct {
		StateFile string `yaml:"state_file"` // Path to the persisted install state file
	} `yaml:"identity"`
}

// LoadConfig loads the YAML configuration from the specified file.
// It returns a pointer to the Config struct and an error if loading fails.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	err := fileClient.ReadYamlFile(filename, &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}
