package geo

import (
	"math"
	"testing"

	"relo/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			lat1:      -33.9249, lng1: 18.4241,
			lat2:      -33.9249, lng2: 18.4241,
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "Cape Town to Johannesburg (~1261km)",
			lat1:      -33.9249, lng1: 18.4241,
			lat2:      -26.2041, lng2: 28.0473,
			wantKm:    1261,
			tolerance: 15,
		},
		{
			name:      "Johannesburg to Pretoria (~54km)",
			lat1:      -26.2041, lng1: 28.0473,
			lat2:      -25.7479, lng2: 28.2293,
			wantKm:    54,
			tolerance: 3,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			lat1:      40.7128, lng1: -74.0060,
			lat2:      34.0522, lng2: -118.2437,
			wantKm:    3944,
			tolerance: 50,
		},
		{
			name:      "antipodal points (half circumference)",
			lat1:      0, lng1: 0,
			lat2:      0, lng2: 180,
			wantKm:    math.Pi * earthRadiusKm,
			tolerance: 0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("haversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	d1 := haversineKm(-33.9, 18.4, -26.2, 28.0)
	d2 := haversineKm(-26.2, 28.0, -33.9, 18.4)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestDistanceKm_UsesPoints(t *testing.T) {
	capeTown := types.Point{Lat: -33.9249, Lng: 18.4241}
	joburg := types.Point{Lat: -26.2041, Lng: 28.0473}

	got := DistanceKm(capeTown, joburg)
	if got < 1260 || got > 1300 {
		t.Errorf("DistanceKm() = %f, want within [1260, 1300]", got)
	}
	if got != haversineKm(capeTown.Lat, capeTown.Lng, joburg.Lat, joburg.Lng) {
		t.Errorf("DistanceKm() disagrees with haversineKm()")
	}
}

func TestDistanceKm_NonNegative(t *testing.T) {
	points := []types.Point{
		{Lat: 0, Lng: 0},
		{Lat: 89.9, Lng: 179.9},
		{Lat: -89.9, Lng: -179.9},
		{Lat: 12.5, Lng: -45.25},
	}
	for _, a := range points {
		for _, b := range points {
			if d := DistanceKm(a, b); d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
				t.Errorf("DistanceKm(%v, %v) = %f, want finite non-negative", a, b, d)
			}
		}
	}
}
