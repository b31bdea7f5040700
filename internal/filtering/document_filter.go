package filtering

import (
	"context"
	"strconv"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/workpool"
)

const (
	documentFilterName = "document"

	// DefaultProbeConcurrency bounds the document probes in flight.
	DefaultProbeConcurrency = 8
)

type documentFilter struct {
	toggle
	probed bool
}

// NewDocument creates a filter that keeps only candidates with a retrievable profile document.
// Without a probe, a present document reference counts as retrievable.
func NewDocument() Filter {
	return &documentFilter{}
}

func (f *documentFilter) Name() string { return documentFilterName }

func (f *documentFilter) Validate(*Config) error { return nil }

func (f *documentFilter) Apply(ctx context.Context, deps Deps, pool *candidate.Pool) (*candidate.Pool, Step, error) {
	f.probed = deps.Probe != nil

	var retrievable map[*candidate.Profile]bool
	if deps.Probe != nil {
		var err error
		if retrievable, err = probeAll(ctx, deps.Probe, pool.Items); err != nil {
			return nil, Step{}, err
		}
	}

	next, step := exclude(deps.Logger, pool, "excluding candidates without a profile document", func(c *candidate.Profile) bool {
		if !c.HasDocument() {
			return true
		}
		if deps.Probe == nil {
			return false
		}
		return !retrievable[c]
	})
	return next, step, nil
}

// probeAll checks every document concurrently. A cancelled context is an
// error: unfinished probes say nothing about the documents.
func probeAll(ctx context.Context, probe DocumentProbe, items []*candidate.Profile) (map[*candidate.Profile]bool, error) {
	slots := make([]bool, len(items))
	err := workpool.Run(ctx, DefaultProbeConcurrency, len(items), func(ctx context.Context, idx int) {
		if c := items[idx]; c.HasDocument() {
			slots[idx] = probe.Retrievable(ctx, c.DocumentURL)
		}
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[*candidate.Profile]bool, len(items))
	for i, c := range items {
		out[c] = slots[i]
	}
	return out, nil
}

func (f *documentFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"probed": strconv.FormatBool(f.probed)},
	}
}
