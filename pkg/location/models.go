package location

import "time"

// Fix represents a single location reading delivered by a provider.
// A Fix is an immutable snapshot; the sampler replaces it wholesale and
// never mutates one in place.
type Fix struct {
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Provider  string    `json:"provider"`
}

// Valid reports whether the reading is well-formed enough to be considered.
// Providers occasionally deliver malformed readings; those are discarded.
func (f Fix) Valid() bool {
	if f.Time.IsZero() {
		return false
	}
	if f.Latitude < -90 || f.Latitude > 90 {
		return false
	}
	if f.Longitude < -180 || f.Longitude > 180 {
		return false
	}
	return f.Accuracy >= 0
}

// Age returns how old the fix is relative to now.
func (f Fix) Age() time.Duration {
	return time.Since(f.Time)
}
