package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/candidate"
)

type scopeFilter struct {
	toggle
	unit string
}

// NewScope creates a filter that keeps only candidates of the target's organizational unit.
func NewScope() Filter {
	return &scopeFilter{}
}

func (f *scopeFilter) Name() string { return "scope" }

func (f *scopeFilter) Validate(*Config) error { return nil }

func (f *scopeFilter) Apply(_ context.Context, deps Deps, pool *candidate.Pool) (*candidate.Pool, Step, error) {
	f.unit = ""
	if deps.Target != nil {
		f.unit = strings.TrimSpace(deps.Target.UnitID)
	}
	if f.unit == "" {
		return pool, Step{Initial: pool.Len(), Left: pool.Len()}, nil
	}

	next, step := exclude(deps.Logger, pool, "excluding candidates outside the target unit", func(c *candidate.Profile) bool {
		return strings.TrimSpace(c.UnitID) != f.unit
	}, zap.String("unit_id", f.unit))
	return next, step, nil
}

func (f *scopeFilter) Status() Status {
	details := map[string]string{}
	if f.unit != "" {
		details["unit_id"] = f.unit
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
