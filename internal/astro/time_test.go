package astro

import (
	"math"
	"testing"
	"time"
)

// TestJulianDate verifies the Julian Date calculation against known values.
func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
	}{
		{
			name:     "J2000.0 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
		},
		{
			// Vallado Example 3-15: April 6, 2004, 07:51:28.386 UTC
			name:     "Vallado example date",
			time:     time.Date(2004, 4, 6, 7, 51, 28, 386009000, time.UTC),
			expected: 2453101.827411875,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			diff := math.Abs(got - tt.expected)
			if diff > 1e-6 {
				t.Errorf("JulianDate(%v) = %.10f, want %.10f (diff=%.2e)", tt.time, got, tt.expected, diff)
			}
		})
	}
}

func TestMJD(t *testing.T) {
	// Default cadence epoch used by the pointing builder.
	got := MJD(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
	if math.Abs(got-59580.0) > 1e-6 {
		t.Errorf("MJD(2022-01-01) = %.6f, want 59580", got)
	}

	got = MJD(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	if math.Abs(got-51544.0) > 1e-6 {
		t.Errorf("MJD(2000-01-01) = %.6f, want 51544", got)
	}
}

func TestTimeFromMJDRoundTrip(t *testing.T) {
	for _, mjd := range []float64{51544.0, 59580.25, 60000.123456, 61234.999} {
		back := MJD(TimeFromMJD(mjd))
		// Microsecond rounding bounds the error at ~1.2e-11 days.
		if math.Abs(back-mjd) > 1e-9 {
			t.Errorf("MJD(TimeFromMJD(%.6f)) = %.9f", mjd, back)
		}
	}
}
