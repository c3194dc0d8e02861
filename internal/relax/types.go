package relax

import (
	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
)

// Charge is a point charge constrained to the unit sphere. Pos stays unit
// length after every completed iteration; Vel stays in the tangent plane
// of Pos.
type Charge struct {
	Pos geom.Vec3
	Vel geom.Vec3
}

const (
	DefaultN             = 13
	DefaultTolerance     = 1e-2
	DefaultRelaxation    = 1.0
	DefaultMaxIterations = 1_000_000
	DefaultMinSeparation = 1e-9
)

// Config holds solver parameters for one run.
type Config struct {
	// N is the number of charges.
	N int

	// Tolerance is the per-charge displacement below which the system is
	// considered settled.
	Tolerance float64

	// RelaxationFactor scales the damped velocity increment. Larger values
	// converge faster but risk oscillation; zero freezes the system and
	// the run reports ErrNotConverged at the iteration cap.
	RelaxationFactor float64

	// MaxIterations caps the run. Zero selects DefaultMaxIterations.
	MaxIterations int

	// Seed initializes the random position sampler.
	Seed int64

	// MinSeparation is the pair distance below which the geometry is
	// reported as degenerate. Zero selects DefaultMinSeparation.
	MinSeparation float64
}

// DefaultConfig mirrors the classic 13-charge run.
func DefaultConfig() Config {
	return Config{
		N:                DefaultN,
		Tolerance:        DefaultTolerance,
		RelaxationFactor: DefaultRelaxation,
		MaxIterations:    DefaultMaxIterations,
		MinSeparation:    DefaultMinSeparation,
	}
}

// Validate reports invalid-argument conditions. A zero RelaxationFactor is
// legal: the run freezes and ends in ErrNotConverged rather than an error
// here.
func (c Config) Validate() error {
	if c.N < 1 {
		return ErrInvalidCount
	}
	if c.Tolerance <= 0 {
		return ErrInvalidTolerance
	}
	return nil
}

// Result is the outcome of one solve.
type Result struct {
	// Positions are the final unit vectors, index-aligned with the order
	// the charges were created.
	Positions []geom.Vec3

	// Displacements are the per-charge movements of the last iteration.
	Displacements []float64

	// History records the maximum displacement of every iteration.
	History []float64

	// Iterations is the number of completed iterations.
	Iterations int

	// Converged reports whether every displacement fell below tolerance.
	Converged bool

	// Energy is the Coulomb potential of the final configuration.
	Energy float64

	// Metrics holds final values of any metrics attached to the solver.
	Metrics map[string]float64
}

// Observer receives a notification after every completed iteration. The
// positions and displacements slices are reused between iterations and
// must not be retained.
type Observer interface {
	OnIteration(iter int, positions []geom.Vec3, displacements []float64)
}

// Metric accumulates a scalar over the course of a run.
type Metric interface {
	Name() string
	Observe(positions []geom.Vec3, displacements []float64, iter int)
	Value() float64
	Reset()
}
