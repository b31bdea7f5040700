package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/candidate"
)

const criteriaFilterName = "criteria"

type criteriaFilter struct {
	toggle
}

// NewCriteria creates a filter for the target's minimum quality, minimum experience
// and required driving licence.
func NewCriteria() Filter {
	return &criteriaFilter{}
}

func (f *criteriaFilter) Name() string { return criteriaFilterName }

func (f *criteriaFilter) Validate(*Config) error { return nil }

func (f *criteriaFilter) Apply(_ context.Context, deps Deps, pool *candidate.Pool) (*candidate.Pool, Step, error) {
	target := deps.Target
	if target == nil || !target.HasCriteria() {
		return pool, Step{Initial: pool.Len(), Left: pool.Len()}, nil
	}

	minQuality := target.MinQuality.Rank()
	minExperience := target.MinExperience.Rank()

	next, step := exclude(deps.Logger, pool, "excluding candidates below target criteria", func(c *candidate.Profile) bool {
		if minQuality > 0 && c.BestQuality().Rank() < minQuality {
			return true
		}
		if minExperience > 0 && c.Experience.Rank() < minExperience {
			return true
		}
		return !c.DrivingLicense.Covers(target.DrivingLicense)
	},
		zap.String("min_quality", string(target.MinQuality)),
		zap.String("min_experience", string(target.MinExperience)),
		zap.String("driving_license", string(target.DrivingLicense)),
	)
	return next, step, nil
}
