package ranking

import (
	"time"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/scoring"
)

// Mode selects how far the ranking pipeline goes.
type Mode string

const (
	// ModeDistanceOnly orders the eligible pool by distance without the role filter.
	ModeDistanceOnly Mode = "distance_only"
	// ModePoints orders by the deterministic weighted score.
	ModePoints Mode = "points"
	// ModeAI reranks the top of the points ranking with a reasoning model.
	ModeAI Mode = "ai"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeDistanceOnly, ModePoints, ModeAI:
		return true
	default:
		return false
	}
}

// Modes lists the accepted modes.
func Modes() []Mode {
	return []Mode{ModePoints, ModeDistanceOnly, ModeAI}
}

const (
	DefaultShortlistSize     = 15
	DefaultParallelThreshold = 200
	MaxShortlistSize         = 100
)

// Options is the validated configuration of one matching request.
type Options struct {
	// Profile names a weight preset. Empty picks one by target kind.
	Profile string
	// Weights replaces the named preset when set.
	Weights *scoring.Profile

	// ShortlistSize is the number of top candidates handed to the AI stage.
	ShortlistSize int
	// Limit caps the returned list. Zero returns the whole eligible ranking.
	Limit int

	Requester       string
	SelfID          string
	RequireDocument bool
	ApplyCriteria   bool

	// Timeout bounds the whole request. Zero means no engine-side deadline.
	Timeout time.Duration
	// ParallelThreshold is the pool size above which scoring fans out.
	ParallelThreshold int
}

func (o Options) withDefaults() Options {
	if o.ShortlistSize == 0 {
		o.ShortlistSize = DefaultShortlistSize
	}
	if o.ParallelThreshold == 0 {
		o.ParallelThreshold = DefaultParallelThreshold
	}
	return o
}

// Validate checks the options after defaults have been applied.
func (o Options) Validate() error {
	if o.ShortlistSize < 1 || o.ShortlistSize > MaxShortlistSize {
		return invalid("shortlist_size", "must be between 1 and %d, got %d", MaxShortlistSize, o.ShortlistSize)
	}
	if o.Limit < 0 {
		return invalid("limit", "must not be negative")
	}
	if o.Timeout < 0 {
		return invalid("timeout", "must not be negative")
	}
	if o.ParallelThreshold < 1 {
		return invalid("parallel_threshold", "must be positive")
	}
	if o.Weights != nil {
		if err := o.Weights.Validate(); err != nil {
			return invalid("weights", "%v", err)
		}
	}
	return nil
}

// weightProfile resolves the profile used for the target.
func (o Options) weightProfile(target *candidate.Target) (scoring.Profile, error) {
	if o.Weights != nil {
		return *o.Weights, nil
	}

	name := o.Profile
	if name == "" {
		name = DefaultProfile(target.Kind)
	}
	p, err := scoring.Preset(name)
	if err != nil {
		return scoring.Profile{}, invalid("profile", "%v", err)
	}
	return p, nil
}

// DefaultProfile maps the kind of target to its weight preset.
func DefaultProfile(kind candidate.TargetKind) string {
	switch kind {
	case candidate.TargetCompany, candidate.TargetContact:
		return scoring.PresetCompany
	case candidate.TargetCandidate:
		return scoring.PresetPeers
	default:
		return scoring.PresetVacancy
	}
}
