package sim

import (
	"context"
	"sync"
)

// WorldFactory builds an independent world for one ensemble member.
type WorldFactory func(seed int64) (*World, error)

// MetricFactory builds fresh metrics per member; metrics hold state and
// must not be shared across goroutines.
type MetricFactory func() []Metric

// Ensemble runs several independent worlds concurrently. Each world is
// owned by exactly one goroutine, so no member state is shared.
type Ensemble struct {
	newWorld   WorldFactory
	newMetrics MetricFactory
	numRuns    int
	seedStart  int64
}

func NewEnsemble(newWorld WorldFactory, newMetrics MetricFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{newWorld: newWorld, newMetrics: newMetrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w, err := e.newWorld(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			r := NewRunner(w)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					r.AddMetric(m)
				}
			}
			results[idx], errs[idx] = r.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
