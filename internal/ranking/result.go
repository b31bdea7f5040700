package ranking

import (
	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/geo"
	"github.com/spigell/staffmatch/internal/scoring"
)

// RankedCandidate is one line of the final ordering.
type RankedCandidate struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Position    string               `json:"position,omitempty"`
	Location    string               `json:"location,omitempty"`
	Quality     []candidate.Quality  `json:"quality,omitempty"`
	Experience  candidate.Experience `json:"experience,omitempty"`
	DistanceKm  *float64             `json:"distance_km"`
	Score       float64              `json:"score"`
	Breakdown   scoring.Breakdown    `json:"score_breakdown"`
	AIScore     *float64             `json:"ai_score,omitempty"`
	MatchReason string               `json:"match_reason,omitempty"`

	Profile *candidate.Profile `json:"-"`
}

// Result is the answer to one matching request.
type Result struct {
	RequestID  string            `json:"request_id"`
	TargetID   string            `json:"target_id,omitempty"`
	Mode       Mode              `json:"mode"`
	Profile    string            `json:"profile"`
	Eligible   int               `json:"eligible"`
	Candidates []RankedCandidate `json:"candidates"`
	AIApplied  bool              `json:"ai_applied"`
	AIFailure  string            `json:"ai_failure,omitempty"`
}

func newRanked(c *candidate.Profile, d scoring.Distance, b scoring.Breakdown) RankedCandidate {
	rc := RankedCandidate{
		ID:         c.ID,
		Name:       c.DisplayName(),
		Position:   c.Position,
		Location:   c.Location.Label(),
		Quality:    c.Quality,
		Experience: c.Experience,
		Score:      b.Total(),
		Breakdown:  b,
		Profile:    c,
	}
	if d.Known {
		km := geo.Round(d.Km, 1)
		rc.DistanceKm = &km
	}
	return rc
}
