// Package worker runs independent jobs on a fixed number of goroutines.
package worker

import (
	"context"
	"sync"
)

// Pool applies one function to many inputs concurrently.
type Pool[J, R any] struct {
	workers int
	work    func(context.Context, J) R
}

// NewPool returns a pool of the given size; sizes below one mean one.
func NewPool[J, R any](workers int, work func(context.Context, J) R) *Pool[J, R] {
	if workers <= 0 {
		workers = 1
	}
	return &Pool[J, R]{workers: workers, work: work}
}

type indexed[J any] struct {
	i   int
	job J
}

// Run executes every job and returns the results in job order. When ctx
// is cancelled no further job starts; the slots of jobs that never ran
// keep the zero R and Run returns ctx.Err().
func (p *Pool[J, R]) Run(ctx context.Context, jobs []J) ([]R, error) {
	results := make([]R, len(jobs))
	queue := make(chan indexed[J], p.workers*2)

	var wg sync.WaitGroup
	for w := 0; w < p.workers && w < len(jobs); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				if ctx.Err() != nil {
					continue
				}
				results[j.i] = p.work(ctx, j.job)
			}
		}()
	}

feed:
	for i, j := range jobs {
		select {
		case <-ctx.Done():
			break feed
		case queue <- indexed[J]{i, j}:
		}
	}
	close(queue)
	wg.Wait()
	return results, ctx.Err()
}
