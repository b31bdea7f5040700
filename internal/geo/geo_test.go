package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		lat1, lon1 float64
		lat2, lon2 float64
		want       float64
		tolerance  float64
	}{
		{
			name: "same point",
			lat1: 47.3769, lon1: 8.5417,
			lat2: 47.3769, lon2: 8.5417,
			want: 0, tolerance: 1e-9,
		},
		{
			name: "zurich to geneva",
			lat1: 47.3769, lon1: 8.5417,
			lat2: 46.2044, lon2: 6.1432,
			want: 224.35, tolerance: 0.1,
		},
		{
			name: "zurich to bern",
			lat1: 47.3769, lon1: 8.5417,
			lat2: 46.9480, lon2: 7.4474,
			want: 95.5, tolerance: 0.5,
		},
		{
			name: "one degree of longitude on the equator",
			lat1: 0, lon1: 0,
			lat2: 0, lon2: 1,
			want: 111.19, tolerance: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Fatalf("expected %.3f km, got %.3f km", tt.want, got)
			}
		})
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	t.Parallel()

	points := [][2]float64{
		{47.3769, 8.5417},
		{46.2044, 6.1432},
		{46.0037, 8.9511},
		{-33.8688, 151.2093},
	}

	for i, a := range points {
		for j, b := range points {
			ab := Distance(a[0], a[1], b[0], b[1])
			ba := Distance(b[0], b[1], a[0], a[1])
			if ab != ba {
				t.Fatalf("distance(%d,%d)=%v differs from distance(%d,%d)=%v", i, j, ab, j, i, ba)
			}
		}
	}
}

func TestBetween(t *testing.T) {
	t.Parallel()

	zurich := NewPoint(47.3769, 8.5417)
	lat := 46.2044
	partial := Point{Lat: &lat}

	if _, ok := Between(zurich, partial); ok {
		t.Fatalf("expected unknown distance when a coordinate is missing")
	}
	if _, ok := Between(Point{}, zurich); ok {
		t.Fatalf("expected unknown distance for empty point")
	}

	km, ok := Between(zurich, NewPoint(46.2044, 6.1432))
	if !ok {
		t.Fatalf("expected distance to be known")
	}
	if Round(km, 1) != 224.4 {
		t.Fatalf("unexpected rounded distance: %v", Round(km, 1))
	}
}

func TestPointValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{name: "zurich", point: NewPoint(47.3769, 8.5417), want: true},
		{name: "poles and date line", point: NewPoint(-90, 180), want: true},
		{name: "empty", point: Point{}, want: false},
		{name: "nan latitude", point: NewPoint(math.NaN(), 8.5), want: false},
		{name: "nan longitude", point: NewPoint(47.3, math.NaN()), want: false},
		{name: "latitude out of range", point: NewPoint(91, 8.5), want: false},
		{name: "longitude out of range", point: NewPoint(47.3, -180.5), want: false},
		{name: "infinite latitude", point: NewPoint(math.Inf(1), 8.5), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.point.Valid(); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBetweenIgnoresCorruptCoordinates(t *testing.T) {
	t.Parallel()

	zurich := NewPoint(47.3769, 8.5417)
	if km, ok := Between(zurich, NewPoint(math.NaN(), 6.1432)); ok {
		t.Fatalf("expected unknown distance for a NaN latitude, got %v", km)
	}
	if _, ok := Between(NewPoint(47.3769, 400), zurich); ok {
		t.Fatalf("expected unknown distance for an out of range longitude")
	}
}
