package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		wantKm           float64
		tolerancePercent float64
	}{
		{
			name: "Coimbatore to Bengaluru",
			lat1: 11.0168, lon1: 76.9558,
			lat2: 12.9716, lon2: 77.5946,
			wantKm:           228.2,
			tolerancePercent: 1,
		},
		{
			name: "Same point",
			lat1: 12.9716, lon1: 77.5946,
			lat2: 12.9716, lon2: 77.5946,
			wantKm:           0,
			tolerancePercent: 0,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantKm:           343.5,
			tolerancePercent: 1,
		},
		{
			name: "One degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			wantKm:           111.19,
			tolerancePercent: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if tt.wantKm == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantKm) / tt.wantKm * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Haversine = %f km, want ~%f km (diff %.2f%%)", got, tt.wantKm, diff)
			}
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	points := []orb.Point{
		{76.9558, 11.0168},
		{77.5946, 12.9716},
		{78.1460, 11.6643},
		{-0.1278, 51.5074},
	}
	for _, a := range points {
		for _, b := range points {
			ab := Distance(a, b)
			ba := Distance(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("Distance(%v, %v) = %f, reverse = %f", a, b, ab, ba)
			}
			if a == b && ab != 0 {
				t.Errorf("Distance(%v, %v) = %f, want 0", a, b, ab)
			}
			if a != b && ab <= 0 {
				t.Errorf("Distance(%v, %v) = %f, want > 0", a, b, ab)
			}
		}
	}
}

func TestKmToDegrees(t *testing.T) {
	deg := KmToDegrees(Haversine(0, 0, 1, 0))
	if math.Abs(deg-1) > 1e-9 {
		t.Errorf("KmToDegrees(1 deg of latitude) = %f, want 1", deg)
	}
	if got := LonDegrees(111.19, 60); got < 1.9 || got > 2.1 {
		t.Errorf("LonDegrees at 60N = %f, want ~2", got)
	}
	if got := LonDegrees(10, 90); got != 360 {
		t.Errorf("LonDegrees at pole = %f, want 360", got)
	}
}

func TestLerp(t *testing.T) {
	a := orb.Point{76.0, 11.0}
	b := orb.Point{78.0, 13.0}

	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp(t=0) = %v, want %v", got, a)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("Lerp(t=1) = %v, want %v", got, b)
	}
	if got := Lerp(a, b, 0.5); got != (orb.Point{77.0, 12.0}) {
		t.Errorf("Lerp(t=0.5) = %v, want [77 12]", got)
	}
}

func BenchmarkHaversine(b *testing.B) {
	for b.Loop() {
		Haversine(11.0168, 76.9558, 12.9716, 77.5946)
	}
}
