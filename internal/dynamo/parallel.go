package dynamo

import (
	"context"
	"sync"
)

// Builder constructs a fresh system for one ensemble member.
type Builder func(seed int64) (System, error)

// Ensemble runs independently seeded copies of a system concurrently. Each
// member owns its own system; nothing is shared between goroutines.
type Ensemble struct {
	build     Builder
	numRuns   int
	seedStart int64
	metrics   func(System) []Metric
}

func NewEnsemble(build Builder, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics sets a factory used to give every member its own metrics.
func (e *Ensemble) WithMetrics(fn func(System) []Metric) *Ensemble {
	e.metrics = fn
	return e
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			sys, err := e.build(cfgCopy.Seed)
			if err != nil {
				errs[idx] = err
				return
			}

			s := New(sys)
			if e.metrics != nil {
				for _, m := range e.metrics(sys) {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfgCopy)
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
