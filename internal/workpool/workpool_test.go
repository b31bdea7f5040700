package workpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVisitsEveryIndexOnce(t *testing.T) {
	const n = 500
	results := make([]int, n)

	err := Run(context.Background(), 8, n, func(_ context.Context, idx int) {
		results[idx] += idx + 1
	})
	require.NoError(t, err)

	for i, v := range results {
		assert.Equal(t, i+1, v, "index %d", i)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32

	err := Run(context.Background(), 3, 20, func(_ context.Context, _ int) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Positive(t, peak.Load())
}

func TestRunSkipsJobsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := Run(ctx, 2, 10, func(_ context.Context, _ int) {
		calls.Add(1)
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}

func TestRunEdgeCases(t *testing.T) {
	require.NoError(t, Run(context.Background(), 0, 0, nil))
	require.Error(t, Run(context.Background(), 0, 3, func(context.Context, int) {}))
}
