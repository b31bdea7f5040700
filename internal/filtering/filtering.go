package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/candidate"
)

// Filter represents a single eligibility step applied to the candidate pool.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, pool *candidate.Pool) (*candidate.Pool, Step, error)
}

// DocumentProbe checks whether a profile document can actually be fetched.
type DocumentProbe interface {
	Retrievable(ctx context.Context, url string) bool
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
	Target *candidate.Target
	Probe  DocumentProbe
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains request settings consumed by the filters.
type Config struct {
	// Requester owns claims that must not exclude a candidate.
	Requester string
	// SelfID names a candidate that must not appear in its own peer list.
	SelfID          string
	RequireDocument bool
	ApplyCriteria   bool
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// Default returns the standard step order: scope, active, claimed, self, document, criteria.
func Default(cfg *Config) []Filter {
	steps := []Filter{
		NewScope(),
		NewActive(),
		NewClaimed(),
		NewSelf(),
		NewDocument(),
		NewCriteria(),
	}
	if cfg == nil || !cfg.RequireDocument {
		DisableByName(steps, documentFilterName, "document not required")
	}
	if cfg == nil || !cfg.ApplyCriteria {
		DisableByName(steps, criteriaFilterName, "criteria not requested")
	}
	return steps
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially on a copy of the pool.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, pool *candidate.Pool) (*candidate.Pool, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	current := pool.Clone()
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, info, err := step.Apply(ctx, deps, current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		current = next
	}

	return current, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// toggle carries the enable/disable state shared by all steps.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func exclude(logger *zap.Logger, pool *candidate.Pool, msg string, drop func(*candidate.Profile) bool, fields ...zap.Field) (*candidate.Pool, Step) {
	initial := pool.Len()
	excluded := pool.Exclude(drop)
	if logger != nil && len(excluded) > 0 {
		fields = append(fields,
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", pool.Len()),
		)
		logger.Debug(msg, fields...)
	}
	return pool, Step{Initial: initial, Dropped: len(excluded), Left: pool.Len()}
}
