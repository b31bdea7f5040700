package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/candidate"
)

type selfFilter struct {
	toggle
	selfID string
}

// NewSelf creates a filter that removes the selected candidate from its own peer list.
func NewSelf() Filter {
	return &selfFilter{}
}

func (f *selfFilter) Name() string { return "self" }

func (f *selfFilter) Validate(cfg *Config) error {
	f.selfID = ""
	if cfg != nil {
		f.selfID = strings.TrimSpace(cfg.SelfID)
	}
	return nil
}

func (f *selfFilter) Apply(_ context.Context, deps Deps, pool *candidate.Pool) (*candidate.Pool, Step, error) {
	if f.selfID == "" {
		return pool, Step{Initial: pool.Len(), Left: pool.Len()}, nil
	}
	next, step := exclude(deps.Logger, pool, "excluding the selected candidate", func(c *candidate.Profile) bool {
		return c.ID == f.selfID
	}, zap.String("self_id", f.selfID))
	return next, step, nil
}
