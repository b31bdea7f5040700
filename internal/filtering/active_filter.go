package filtering

import (
	"context"

	"github.com/spigell/staffmatch/internal/candidate"
)

type activeFilter struct {
	toggle
}

// NewActive creates a filter that drops every candidate whose status is not active.
func NewActive() Filter {
	return &activeFilter{}
}

func (f *activeFilter) Name() string { return "active" }

func (f *activeFilter) Validate(*Config) error { return nil }

func (f *activeFilter) Apply(_ context.Context, deps Deps, pool *candidate.Pool) (*candidate.Pool, Step, error) {
	next, step := exclude(deps.Logger, pool, "excluding inactive candidates", func(c *candidate.Profile) bool {
		return !c.IsActive()
	})
	return next, step, nil
}
