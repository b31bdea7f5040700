// Package workpool runs index-addressed jobs on a bounded goroutine pool.
package workpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

type job struct {
	idx int
	ctx context.Context
	fn  func(ctx context.Context, idx int)
	wg  *sync.WaitGroup
}

func (j *job) reset() {
	j.idx = 0
	j.ctx = nil
	j.fn = nil
	j.wg = nil
}

var jobPool = &sync.Pool{
	New: func() any { return new(job) },
}

// Run calls fn for every index in [0, n) with at most size calls in flight and
// waits for all of them. Jobs not yet started when ctx is done are skipped;
// fn is expected to honour ctx itself once running. Each index is visited by at
// most one goroutine, so fn may write to slot idx of a shared slice without locking.
func Run(ctx context.Context, size, n int, fn func(ctx context.Context, idx int)) error {
	if n <= 0 {
		return nil
	}
	if size <= 0 {
		return errors.New("pool size must be greater than 0")
	}
	if size > n {
		size = n
	}

	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		j, ok := args.(*job)
		if !ok {
			panic("workpool args type error")
		}
		wg := j.wg
		defer func() {
			wg.Done()
			j.reset()
			jobPool.Put(j)
		}()
		if j.ctx.Err() != nil {
			return
		}
		j.fn(j.ctx, j.idx)
	})
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		j := jobPool.Get().(*job)
		j.idx = i
		j.ctx = ctx
		j.fn = fn
		j.wg = &wg

		wg.Add(1)
		if err := pool.Invoke(j); err != nil {
			wg.Done()
			j.reset()
			jobPool.Put(j)
			wg.Wait()
			return fmt.Errorf("submit job %d: %w", i, err)
		}
	}
	wg.Wait()

	return ctx.Err()
}
