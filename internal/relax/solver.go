package relax

import (
	"context"
	"math/rand"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
)

// SettleStreak is the number of consecutive iterations whose
// displacements must all stay below tolerance before a run counts as
// settled. A single low reading can be an oscillation turning point
// where the velocity momentarily passes through zero.
const SettleStreak = 3

// Solver runs a System to convergence under a Config.
type Solver struct {
	cfg       Config
	observers []Observer
	metrics   []Metric
}

// New returns a Solver for cfg. The configuration is validated at Run.
func New(cfg Config) *Solver {
	return &Solver{cfg: cfg}
}

func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Solver) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }

// Run relaxes N random charges until every per-charge displacement stays
// below tolerance for SettleStreak consecutive iterations.
//
// On convergence the returned error is nil. If the iteration cap is hit
// first, the last positions and displacements are returned together with
// an error wrapping ErrNotConverged so callers can inspect partial
// progress. Context cancellation returns the partial result with the
// context's error.
func (s *Solver) Run(ctx context.Context) (*Result, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	maxIter := s.cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	sys := NewSystem(s.cfg.N, s.cfg.RelaxationFactor, rng)
	if s.cfg.MinSeparation > 0 {
		sys.SetMinSeparation(s.cfg.MinSeparation)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	// A lone charge feels no force, so its first zero-displacement
	// iteration already settles it.
	needed := SettleStreak
	if s.cfg.N == 1 {
		needed = 1
	}

	// Zero gain produces no motion at all; a zero displacement then
	// means frozen, not settled.
	frozen := s.cfg.N > 1 && s.cfg.RelaxationFactor == 0

	history := make([]float64, 0, 4096)
	posBuf := make([]geom.Vec3, s.cfg.N)
	streak := 0

	for iter := 0; iter < maxIter; iter++ {
		select {
		case <-ctx.Done():
			return s.result(sys, history, false), ctx.Err()
		default:
		}

		if err := sys.Step(); err != nil {
			return s.result(sys, history, false), err
		}

		disps := sys.Displacements()
		maxDisp := sys.MaxDisplacement()
		history = append(history, maxDisp)

		if len(s.observers) > 0 || len(s.metrics) > 0 {
			for i, c := range sys.charges {
				posBuf[i] = c.Pos
			}
			for _, o := range s.observers {
				o.OnIteration(sys.Iterations(), posBuf, disps)
			}
			for _, m := range s.metrics {
				m.Observe(posBuf, disps, sys.Iterations())
			}
		}

		if !frozen && maxDisp < s.cfg.Tolerance {
			streak++
			if streak >= needed {
				return s.result(sys, history, true), nil
			}
		} else {
			streak = 0
		}
	}

	res := s.result(sys, history, false)
	return res, &SolveError{Iteration: sys.Iterations(), Wrapped: ErrNotConverged}
}

func (s *Solver) result(sys *System, history []float64, converged bool) *Result {
	disps := make([]float64, len(sys.disps))
	copy(disps, sys.disps)

	res := &Result{
		Positions:     sys.Positions(),
		Displacements: disps,
		History:       history,
		Iterations:    sys.Iterations(),
		Converged:     converged,
		Energy:        sys.Energy(),
		Metrics:       make(map[string]float64),
	}

	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}

	return res
}
