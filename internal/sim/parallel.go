package sim

import (
	"context"
	"runtime"
	"sync"

	"github.com/san-kum/coilgun/internal/recorder"
)

// Builder constructs a fresh simulator for one run of a batch.
type Builder func() (*Simulator, error)

// Batch runs independent simulations concurrently. Each run gets its own
// simulator, so no state is shared between goroutines.
type Batch struct {
	builders []Builder
	maxTime  float64
	workers  int
}

func NewBatch(builders []Builder, maxTime float64) *Batch {
	return &Batch{builders: builders, maxTime: maxTime, workers: runtime.NumCPU()}
}

// SetWorkers bounds the number of simulations running at once.
func (b *Batch) SetWorkers(n int) {
	if n > 0 {
		b.workers = n
	}
}

// Run executes every builder and returns results in builder order. A run
// that has started always completes; ctx only stops runs that have not.
func (b *Batch) Run(ctx context.Context) ([]*recorder.Result, error) {
	results := make([]*recorder.Result, len(b.builders))
	errs := make([]error, len(b.builders))
	sem := make(chan struct{}, b.workers)

	var wg sync.WaitGroup
	for i, build := range b.builders {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, build Builder) {
			defer wg.Done()
			defer func() { <-sem }()

			s, err := build()
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(b.maxTime)
		}(i, build)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
