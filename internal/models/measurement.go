package models

import "time"

// Measurement is the wire payload for a single measurement call to the
// analytics backend: the event itself plus the identity, device and location
// data it was enriched with.
type Measurement struct {
	Event Event `json:"event"`

	AdvertiserID string    `json:"advertiser_id"`
	InstallID    string    `json:"install_id"`
	SDKVersion   string    `json:"sdk_version"`
	AppVersion   string    `json:"app_version,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`

	Location *MeasurementLocation   `json:"location,omitempty"`
	Device   map[string]interface{} `json:"device,omitempty"`
}

// MeasurementLocation is the location enrichment attached to a measurement
// when a usable fix was available at submission time.
type MeasurementLocation struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Provider  string    `json:"provider"`
	Time      time.Time `json:"time"`
}
