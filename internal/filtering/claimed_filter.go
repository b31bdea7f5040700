package filtering

import (
	"context"
	"strings"

	"github.com/spigell/staffmatch/internal/candidate"
)

type claimedFilter struct {
	toggle
	requester string
}

// NewClaimed creates a filter that removes candidates already claimed by someone else.
func NewClaimed() Filter {
	return &claimedFilter{}
}

func (f *claimedFilter) Name() string { return "claimed" }

func (f *claimedFilter) Validate(cfg *Config) error {
	f.requester = ""
	if cfg != nil {
		f.requester = strings.TrimSpace(cfg.Requester)
	}
	return nil
}

func (f *claimedFilter) Apply(_ context.Context, deps Deps, pool *candidate.Pool) (*candidate.Pool, Step, error) {
	next, step := exclude(deps.Logger, pool, "excluding claimed candidates", func(c *candidate.Profile) bool {
		owner := strings.TrimSpace(c.ClaimedBy)
		return owner != "" && (f.requester == "" || owner != f.requester)
	})
	return next, step, nil
}

func (f *claimedFilter) Status() Status {
	details := map[string]string{}
	if f.requester != "" {
		details["requester"] = f.requester
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
