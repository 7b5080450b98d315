package location

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestIsBetterFix_NoCurrentFix tests that any candidate beats an absent fix.
func TestIsBetterFix_NoCurrentFix(t *testing.T) {
	candidate := Fix{
		Time:     time.Now(),
		Accuracy: 5000,
		Provider: ProviderNetwork,
	}

	assert.True(t, isBetterFix(candidate, nil))
}

// TestIsBetterFix_TimeRules tests the decisive staleness rules.
func TestIsBetterFix_TimeRules(t *testing.T) {
	base := time.Now()
	current := Fix{Time: base, Accuracy: 100, Provider: ProviderGPS}

	// Significantly newer wins regardless of accuracy.
	muchNewer := Fix{
		Time:     base.Add(ValidityDuration + time.Second),
		Accuracy: 100000,
		Provider: ProviderNetwork,
	}
	assert.True(t, isBetterFix(muchNewer, &current))

	// Significantly older loses regardless of accuracy.
	muchOlder := Fix{
		Time:     base.Add(-ValidityDuration - time.Second),
		Accuracy: 1,
		Provider: ProviderGPS,
	}
	assert.False(t, isBetterFix(muchOlder, &current))
}

// TestIsBetterFix_AccuracyRules tests the tie-break chain inside the
// validity window.
func TestIsBetterFix_AccuracyRules(t *testing.T) {
	base := time.Now()
	current := Fix{Time: base, Accuracy: 500, Provider: ProviderNetwork}

	tests := []struct {
		name      string
		candidate Fix
		want      bool
	}{
		{
			name:      "more accurate wins even if older within window",
			candidate: Fix{Time: base.Add(-30 * time.Second), Accuracy: 100, Provider: ProviderGPS},
			want:      true,
		},
		{
			name:      "newer with equal accuracy and same provider wins",
			candidate: Fix{Time: base.Add(5 * time.Second), Accuracy: 500, Provider: ProviderNetwork},
			want:      true,
		},
		{
			name:      "newer with equal accuracy and different provider wins",
			candidate: Fix{Time: base.Add(5 * time.Second), Accuracy: 500, Provider: ProviderGPS},
			want:      true,
		},
		{
			name:      "newer and slightly less accurate wins only from the same provider",
			candidate: Fix{Time: base.Add(5 * time.Second), Accuracy: 600, Provider: ProviderNetwork},
			want:      true,
		},
		{
			name:      "newer and slightly less accurate loses from another provider",
			candidate: Fix{Time: base.Add(5 * time.Second), Accuracy: 600, Provider: ProviderGPS},
			want:      false,
		},
		{
			name:      "newer but significantly less accurate loses",
			candidate: Fix{Time: base.Add(5 * time.Second), Accuracy: 800, Provider: ProviderNetwork},
			want:      false,
		},
		{
			name:      "older within window and less accurate loses",
			candidate: Fix{Time: base.Add(-5 * time.Second), Accuracy: 600, Provider: ProviderNetwork},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBetterFix(tt.candidate, &current))
		})
	}
}

// TestFix_Valid tests rejection of malformed readings.
func TestFix_Valid(t *testing.T) {
	valid := Fix{Time: time.Now(), Latitude: 52.5, Longitude: 13.4, Accuracy: 30, Provider: ProviderGPS}
	assert.True(t, valid.Valid())

	zeroTime := valid
	zeroTime.Time = time.Time{}
	assert.False(t, zeroTime.Valid())

	badLatitude := valid
	badLatitude.Latitude = 91
	assert.False(t, badLatitude.Valid())

	badLongitude := valid
	badLongitude.Longitude = -181
	assert.False(t, badLongitude.Valid())

	negativeAccuracy := valid
	negativeAccuracy.Accuracy = -1
	assert.False(t, negativeAccuracy.Valid())
}
