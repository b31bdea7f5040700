// Package geo computes great-circle distances between candidate and target locations.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Point is a coordinate pair. Either side may be unset.
type Point struct {
	Lat *float64
	Lon *float64
}

// NewPoint returns a point with both coordinates set.
func NewPoint(lat, lon float64) Point {
	return Point{Lat: &lat, Lon: &lon}
}

// Valid reports whether both coordinates are present, finite and in range.
func (p Point) Valid() bool {
	if p.Lat == nil || p.Lon == nil {
		return false
	}
	lat, lon := *p.Lat, *p.Lon
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Distance returns the haversine distance in kilometres between two coordinates.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Between returns the distance between two points. ok is false when either
// point is not valid; callers report such distances as unknown.
func Between(a, b Point) (km float64, ok bool) {
	if !a.Valid() || !b.Valid() {
		return 0, false
	}
	return Distance(*a.Lat, *a.Lon, *b.Lat, *b.Lon), true
}

// Round rounds km to the given number of decimals.
func Round(km float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(km*scale) / scale
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
