package scoring

import "fmt"

// LocationCurve turns a distance into location points.
type LocationCurve interface {
	// Points returns the location points for a known distance and the target radius.
	Points(distanceKm, radiusKm float64) float64
	// Max is the highest value Points can return.
	Max() float64
	fmt.Stringer
}

// Stepped awards full points inside the target radius and a smaller flat amount
// inside a wider fallback band.
type Stepped struct {
	WithinRadius float64 `mapstructure:"within-radius"`
	BandKm       float64 `mapstructure:"band-km"`
	BandPoints   float64 `mapstructure:"band-points"`
}

func (s Stepped) Points(distanceKm, radiusKm float64) float64 {
	if distanceKm < 0 {
		return 0
	}
	if radiusKm > 0 && distanceKm <= radiusKm {
		return s.WithinRadius
	}
	if s.BandKm > 0 && distanceKm <= s.BandKm {
		return s.BandPoints
	}
	return 0
}

func (s Stepped) Max() float64 {
	if s.BandPoints > s.WithinRadius {
		return s.BandPoints
	}
	return s.WithinRadius
}

func (s Stepped) String() string {
	return fmt.Sprintf("stepped(%g inside radius, %g inside %g km)", s.WithinRadius, s.BandPoints, s.BandKm)
}

// LinearDecay awards MaxPoints at distance zero, decreasing linearly to zero at the cap.
// The cap is the target radius when CapAtRadius is set, CapKm otherwise.
type LinearDecay struct {
	MaxPoints   float64 `mapstructure:"max-points"`
	CapKm       float64 `mapstructure:"cap-km"`
	CapAtRadius bool    `mapstructure:"cap-at-radius"`
}

func (l LinearDecay) Points(distanceKm, radiusKm float64) float64 {
	limit := l.CapKm
	if l.CapAtRadius {
		limit = radiusKm
	}
	if limit <= 0 || distanceKm < 0 || distanceKm >= limit {
		return 0
	}
	return l.MaxPoints * (1 - distanceKm/limit)
}

func (l LinearDecay) Max() float64 { return l.MaxPoints }

func (l LinearDecay) String() string {
	if l.CapAtRadius {
		return fmt.Sprintf("linear(%g to 0 at target radius)", l.MaxPoints)
	}
	return fmt.Sprintf("linear(%g to 0 at %g km)", l.MaxPoints, l.CapKm)
}
