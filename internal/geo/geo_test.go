package geo

import (
	"math"
	"testing"

	"fuelroute-service/internal/domain"
)

func TestMiles(t *testing.T) {
	tests := []struct {
		name             string
		a, b             domain.Location
		wantMiles        float64
		tolerancePercent float64
	}{
		{
			name:             "Phoenix to Tucson",
			a:                domain.Location{Lat: 33.4484, Lon: -112.0740},
			b:                domain.Location{Lat: 32.2226, Lon: -110.9747},
			wantMiles:        107, // ~107 mi great-circle
			tolerancePercent: 2,
		},
		{
			name:             "Same point",
			a:                domain.Location{Lat: 33.4484, Lon: -112.0740},
			b:                domain.Location{Lat: 33.4484, Lon: -112.0740},
			wantMiles:        0,
			tolerancePercent: 0,
		},
		{
			name:             "One degree of longitude at the equator",
			a:                domain.Location{Lat: 0, Lon: 0},
			b:                domain.Location{Lat: 0, Lon: 1},
			wantMiles:        69.09,
			tolerancePercent: 1,
		},
		{
			name:             "New York to Los Angeles",
			a:                domain.Location{Lat: 40.7128, Lon: -74.0060},
			b:                domain.Location{Lat: 34.0522, Lon: -118.2437},
			wantMiles:        2445,
			tolerancePercent: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Miles(tt.a, tt.b)
			if tt.wantMiles == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantMiles) / tt.wantMiles * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Miles = %f, want ~%f (diff %.1f%%)", got, tt.wantMiles, diff)
			}
		})
	}
}

func TestMilesSymmetry(t *testing.T) {
	a := domain.Location{Lat: 33.4484, Lon: -112.0740}
	b := domain.Location{Lat: 36.1699, Lon: -115.1398}

	ab := Miles(a, b)
	ba := Miles(b, a)
	if ab != ba {
		t.Errorf("Miles(a,b) = %f, Miles(b,a) = %f; want equal", ab, ba)
	}
}

func TestBaseTravelMinutes(t *testing.T) {
	// 45 miles at 45 mph is one hour.
	if got := BaseTravelMinutes(45, 45); math.Abs(got-60) > 1e-9 {
		t.Errorf("BaseTravelMinutes(45, 45) = %f, want 60", got)
	}

	// Non-positive speed falls back to the default.
	if got := BaseTravelMinutes(DefaultSpeedMph, 0); math.Abs(got-60) > 1e-9 {
		t.Errorf("BaseTravelMinutes with zero speed = %f, want 60", got)
	}
}

func TestLocationValidate(t *testing.T) {
	valid := domain.Location{Lat: 33.4, Lon: -112.0}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, l := range []domain.Location{
		{Lat: 91, Lon: 0},
		{Lat: -90.5, Lon: 0},
		{Lat: 0, Lon: 181},
		{Lat: 0, Lon: -180.5},
	} {
		if err := l.Validate(); err == nil {
			t.Errorf("expected error for %+v", l)
		}
	}
}
