// Package scoring computes the deterministic, component-based relevance score of
// a candidate against a match target using a named weight profile.
package scoring

import (
	"encoding/json"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/role"
)

// Breakdown holds the individual score components. The total is always derived
// from the components and never stored.
type Breakdown struct {
	RoleMatch  float64 `json:"role_match"`
	Quality    float64 `json:"quality"`
	Experience float64 `json:"experience"`
	Location   float64 `json:"location"`
	Documents  float64 `json:"documents"`
	Notes      float64 `json:"notes"`
}

// Total is the exact sum of the components.
func (b Breakdown) Total() float64 {
	return b.RoleMatch + b.Quality + b.Experience + b.Location + b.Documents + b.Notes
}

func (b Breakdown) MarshalJSON() ([]byte, error) {
	type plain Breakdown
	return json.Marshal(struct {
		plain
		Total float64 `json:"total"`
	}{plain: plain(b), Total: b.Total()})
}

// Distance is an optional distance in kilometres.
type Distance struct {
	Km    float64
	Known bool
}

// Known wraps a computed distance.
func Known(km float64) Distance {
	return Distance{Km: km, Known: true}
}

// Score computes the breakdown of one candidate. It reads nothing but its arguments,
// so the result does not depend on the rest of the pool.
func Score(p Profile, c *candidate.Profile, target *candidate.Target, d Distance) Breakdown {
	limits := p.Limits()

	var b Breakdown
	if target != nil && role.Match(c.Position, target.Role) {
		b.RoleMatch = p.RoleMatchMax
	}

	if best := c.BestQuality(); best != "" {
		b.Quality = p.QualityTable[best]
	}

	if level := c.Experience.Normalized(); level != candidate.ExperienceUnset {
		b.Experience = p.ExperienceTable[level]
	}

	if d.Known && p.Location != nil {
		radius := 0.0
		if target != nil {
			radius = target.RadiusKm
		}
		b.Location = p.Location.Points(d.Km, radius)
	}

	if c.HasDocument() {
		b.Documents = p.DocsBonus
	}
	if c.HasNotes() {
		b.Notes = p.NotesBonus
	}

	return Breakdown{
		RoleMatch:  clamp(b.RoleMatch, limits.RoleMatch),
		Quality:    clamp(b.Quality, limits.Quality),
		Experience: clamp(b.Experience, limits.Experience),
		Location:   clamp(b.Location, limits.Location),
		Documents:  clamp(b.Documents, limits.Documents),
		Notes:      clamp(b.Notes, limits.Notes),
	}
}

func clamp(v, upper float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > upper {
		return upper
	}
	return v
}
