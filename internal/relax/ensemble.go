package relax

import (
	"context"
	"sync"
)

// Ensemble runs independent seeded solves of the same configuration and
// keeps the lowest-energy converged result. Gradient-style relaxation from
// random initial conditions can settle in a local minimum; repeated
// attempts make that less likely.
type Ensemble struct {
	cfg       Config
	attempts  int
	seedStart int64
}

// NewEnsemble returns an Ensemble performing attempts solves with seeds
// seedStart, seedStart+1, ...
func NewEnsemble(cfg Config, attempts int, seedStart int64) *Ensemble {
	if attempts < 1 {
		attempts = 1
	}
	return &Ensemble{cfg: cfg, attempts: attempts, seedStart: seedStart}
}

// Run performs all attempts concurrently. It returns the converged result
// with the lowest potential energy; if no attempt converges, the first
// attempt's result and error are returned.
func (e *Ensemble) Run(ctx context.Context) (*Result, error) {
	results := make([]*Result, e.attempts)
	errs := make([]error, e.attempts)

	var wg sync.WaitGroup
	for i := 0; i < e.attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.cfg
			cfg.Seed = e.seedStart + int64(idx)

			results[idx], errs[idx] = New(cfg).Run(ctx)
		}(i)
	}

	wg.Wait()

	var best *Result
	for i, r := range results {
		if errs[i] != nil || r == nil || !r.Converged {
			continue
		}
		if best == nil || r.Energy < best.Energy {
			best = r
		}
	}

	if best != nil {
		return best, nil
	}

	return results[0], errs[0]
}
