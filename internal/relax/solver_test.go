package relax

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
)

func TestSolveInvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero count", Config{N: 0, Tolerance: 1e-2}, ErrInvalidCount},
		{"negative count", Config{N: -3, Tolerance: 1e-2}, ErrInvalidCount},
		{"zero tolerance", Config{N: 4, Tolerance: 0}, ErrInvalidTolerance},
		{"negative tolerance", Config{N: 4, Tolerance: -1e-2}, ErrInvalidTolerance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg).Run(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSolveSingleCharge(t *testing.T) {
	cfg := Config{N: 1, Tolerance: 1e-2, RelaxationFactor: 1, Seed: 11}

	result, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !result.Converged {
		t.Error("single charge should converge immediately")
	}
	if result.Iterations != 1 {
		t.Errorf("expected 1 iteration, got %d", result.Iterations)
	}

	// No pairwise force: the charge must sit where it was sampled, up to
	// renormalization.
	want := geom.RandomUnit(rand.New(rand.NewSource(11)))
	if result.Positions[0].Sub(want).Len() > 1e-12 {
		t.Errorf("charge moved: got %v, want %v", result.Positions[0], want)
	}
}

func TestSolveTwoChargesAntipodal(t *testing.T) {
	cfg := Config{N: 2, Tolerance: 1e-6, RelaxationFactor: 1, Seed: 3}

	result, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	dot := result.Positions[0].Dot(result.Positions[1])
	if dot > -0.999 {
		t.Errorf("expected antipodal charges (dot ~ -1), got dot %.6f", dot)
	}

	for i, p := range result.Positions {
		if math.Abs(p.Len()-1) > 1e-9 {
			t.Errorf("charge %d off the sphere: |p| = %.12f", i, p.Len())
		}
	}
}

func TestSolveSettledStateIsStationary(t *testing.T) {
	cfg := Config{N: 2, Tolerance: 1e-6, RelaxationFactor: 1, Seed: 3}

	result, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Restarting from the converged positions at rest must not release
	// stored motion: a displacement dip at an oscillation turning point
	// is not an equilibrium.
	sys := NewSystemFromPositions(result.Positions, 1)
	for i := 0; i < 200; i++ {
		if err := sys.Step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		if d := sys.MaxDisplacement(); d > 1e-4 {
			t.Fatalf("charges drifted %.3e after restart step %d", d, i)
		}
	}
}

func TestSolveTightToleranceConverges(t *testing.T) {
	cfg := Config{N: 4, Tolerance: 1e-5, RelaxationFactor: 1, MaxIterations: 200000, Seed: 1}

	result, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.Converged {
		t.Fatalf("no convergence below %.0e within %d iterations", cfg.Tolerance, cfg.MaxIterations)
	}

	// Settling is sustained, not a single dip below tolerance.
	if len(result.History) < SettleStreak {
		t.Fatalf("history too short: %d entries", len(result.History))
	}
	for _, d := range result.History[len(result.History)-SettleStreak:] {
		if d >= cfg.Tolerance {
			t.Errorf("displacement %.3e above tolerance inside the settled stretch", d)
		}
	}
}

func TestSolveSettles(t *testing.T) {
	cfg := Config{N: 8, Tolerance: 1e-2, RelaxationFactor: 1, Seed: 1}

	result, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !result.Converged {
		t.Fatal("expected convergence at loose tolerance")
	}
	if result.Iterations >= DefaultMaxIterations {
		t.Errorf("took too long: %d iterations", result.Iterations)
	}

	if len(result.History) != result.Iterations {
		t.Errorf("history length %d does not match iterations %d", len(result.History), result.Iterations)
	}
	if last := result.History[len(result.History)-1]; last >= cfg.Tolerance {
		t.Errorf("final max displacement %.3e not below tolerance", last)
	}

	if result.Energy <= 0 {
		t.Errorf("expected positive potential energy, got %f", result.Energy)
	}
}

func TestSolveFrozenSystemReportsNonConvergence(t *testing.T) {
	cfg := Config{N: 3, Tolerance: 1e-9, RelaxationFactor: 0, MaxIterations: 500, Seed: 2}

	result, err := New(cfg).Run(context.Background())
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("expected ErrNotConverged, got %v", err)
	}

	if result == nil {
		t.Fatal("expected partial result with non-convergence error")
	}
	if result.Converged {
		t.Error("frozen system must not report convergence")
	}
	if result.Iterations != 500 {
		t.Errorf("expected 500 iterations, got %d", result.Iterations)
	}
	if len(result.Displacements) != 3 {
		t.Errorf("expected 3 displacements in partial result, got %d", len(result.Displacements))
	}
}

func TestSolveSingleChargeZeroRelaxation(t *testing.T) {
	cfg := Config{N: 1, Tolerance: 1e-2, RelaxationFactor: 0, Seed: 4}

	result, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.Converged || result.Iterations != 1 {
		t.Errorf("lone charge should settle on its first iteration, got converged=%v after %d", result.Converged, result.Iterations)
	}
}

func TestSolveContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{N: 4, Tolerance: 1e-12, RelaxationFactor: 1, Seed: 5}
	result, err := New(cfg).Run(ctx)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.Positions) != 4 {
		t.Error("expected partial result on cancellation")
	}
}

func TestSolverMetricsAndObservers(t *testing.T) {
	calls := 0
	obs := observerFunc(func(iter int, positions []geom.Vec3, displacements []float64) {
		calls++
		if len(positions) != 5 || len(displacements) != 5 {
			t.Fatalf("unexpected slice lengths: %d, %d", len(positions), len(displacements))
		}
	})

	m := &countingMetric{}
	s := New(Config{N: 5, Tolerance: 1e-2, RelaxationFactor: 1, Seed: 9})
	s.AddObserver(obs)
	s.AddMetric(m)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if calls != result.Iterations {
		t.Errorf("observer called %d times for %d iterations", calls, result.Iterations)
	}
	if got, ok := result.Metrics["count"]; !ok || got != float64(result.Iterations) {
		t.Errorf("expected count metric %d, got %v", result.Iterations, got)
	}
}

type observerFunc func(iter int, positions []geom.Vec3, displacements []float64)

func (f observerFunc) OnIteration(iter int, positions []geom.Vec3, displacements []float64) {
	f(iter, positions, displacements)
}

type countingMetric struct{ n int }

func (m *countingMetric) Name() string { return "count" }
func (m *countingMetric) Observe(positions []geom.Vec3, displacements []float64, iter int) {
	m.n++
}
func (m *countingMetric) Value() float64 { return float64(m.n) }
func (m *countingMetric) Reset()         { m.n = 0 }
