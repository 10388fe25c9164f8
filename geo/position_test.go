package geo

import (
	"math"
	"testing"
)

func TestDistanceOneDegreeAtEquator(t *testing.T) {
	// One degree of longitude at the equator is ~111.19 km for a 6371 km
	// Earth radius.
	d := Distance(Position{Lat: 0, Lng: 0}, Position{Lat: 0, Lng: 1})
	want := EarthRadiusMeters * math.Pi / 180
	if math.Abs(d-want) > 1 {
		t.Errorf("Distance = %f, want %f", d, want)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := Position{Lat: 48.86, Lng: 2.35}
	b := Position{Lat: 40.71, Lng: -74.01}
	if d1, d2 := Distance(a, b), Distance(b, a); math.Abs(d1-d2) > 1e-6 {
		t.Errorf("Distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestDistanceZero(t *testing.T) {
	p := Position{Lat: 12.5, Lng: 25}
	if d := Distance(p, p); d != 0 {
		t.Errorf("Distance to self = %f, want 0", d)
	}
}

func TestDistanceAntipodalFinite(t *testing.T) {
	d := Distance(Position{Lat: 0, Lng: 0}, Position{Lat: 0, Lng: 180})
	if math.IsNaN(d) || math.IsInf(d, 0) {
		t.Fatalf("antipodal distance not finite: %f", d)
	}
	want := EarthRadiusMeters * math.Pi
	if math.Abs(d-want) > 1 {
		t.Errorf("antipodal distance = %f, want %f", d, want)
	}
}

func TestLngSpanShrinksWithLatitude(t *testing.T) {
	equator := LngSpanMeters(0, 20, 30)
	high := LngSpanMeters(60, 20, 30)
	if high >= equator {
		t.Errorf("span at 60N (%f) should be smaller than at equator (%f)", high, equator)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
