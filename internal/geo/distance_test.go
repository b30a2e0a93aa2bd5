package geo

import (
	"math"
	"testing"

	"ridematch/internal/domain"
)

func TestDistance_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      domain.Coordinate
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         domain.Coordinate{Lat: 10.7764, Lng: 106.7008},
			b:         domain.Coordinate{Lat: 10.7764, Lng: 106.7008},
			wantKm:    0,
			tolerance: 1e-9,
		},
		{
			name:      "Ben Thanh area short hop",
			a:         domain.Coordinate{Lat: 10.7764, Lng: 106.7008},
			b:         domain.Coordinate{Lat: 10.7809, Lng: 106.6956},
			wantKm:    0.757,
			tolerance: 0.01,
		},
		{
			name:      "New York to Los Angeles",
			a:         domain.Coordinate{Lat: 40.7128, Lng: -74.0060},
			b:         domain.Coordinate{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
		{
			name:      "one degree of latitude",
			a:         domain.Coordinate{Lat: 0, Lng: 0},
			b:         domain.Coordinate{Lat: 1, Lng: 0},
			wantKm:    111.19,
			tolerance: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("Distance() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestDistance_Symmetry(t *testing.T) {
	points := []domain.Coordinate{
		{Lat: 10.7764, Lng: 106.7008},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 51.5074, Lng: -0.1278},
		{Lat: 89.9, Lng: 179.9},
		{Lat: -89.9, Lng: -179.9},
	}

	for _, a := range points {
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%v, %v) = %f, want 0", a, a, d)
		}
		for _, b := range points {
			d1 := Distance(a, b)
			d2 := Distance(b, a)
			if math.Abs(d1-d2) > 1e-9 {
				t.Errorf("distance is not symmetric for %v/%v: %f vs %f", a, b, d1, d2)
			}
		}
	}
}

func TestDistance_Antipodal(t *testing.T) {
	d := Distance(domain.Coordinate{Lat: 0, Lng: 0}, domain.Coordinate{Lat: 0, Lng: 180})
	want := math.Pi * earthRadiusKm
	if math.IsNaN(d) || math.Abs(d-want) > 0.001 {
		t.Errorf("antipodal distance = %f, want %f", d, want)
	}
}
