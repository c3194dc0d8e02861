package relax

import (
	"math/rand"
	"sync/atomic"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
)

// Each iteration the velocity keeps velocityRetention of its previous
// value and gains accelRetention of the freshly accumulated
// acceleration, scaled by the relaxation factor. The shed velocity is
// drag; without it the charges orbit and rigidly drift around the
// energy minimum instead of settling onto it.
const (
	accelRetention    = 0.1
	velocityRetention = 0.9
)

// minParallelCharges is the system size above which force accumulation is
// split across workers.
const minParallelCharges = 64

// System is the mutable state of one relaxation run. The charge count is
// fixed for the lifetime of the System.
type System struct {
	charges    []Charge
	old        []geom.Vec3 // position snapshot read during force accumulation
	accels     []geom.Vec3
	disps      []float64
	relaxation float64
	minSep2    float64
	iter       int
	degenerate atomic.Bool
}

// NewSystem creates n charges at independent uniform random positions on
// the unit sphere with zero initial velocity.
func NewSystem(n int, relaxation float64, rng *rand.Rand) *System {
	s := newSystem(n, relaxation)
	for i := range s.charges {
		s.charges[i].Pos = geom.RandomUnit(rng)
	}
	return s
}

// NewSystemFromPositions creates charges at the given positions, projected
// onto the sphere, with zero initial velocity.
func NewSystemFromPositions(positions []geom.Vec3, relaxation float64) *System {
	s := newSystem(len(positions), relaxation)
	for i, p := range positions {
		s.charges[i].Pos = p.Normalized()
	}
	return s
}

func newSystem(n int, relaxation float64) *System {
	return &System{
		charges:    make([]Charge, n),
		old:        make([]geom.Vec3, n),
		accels:     make([]geom.Vec3, n),
		disps:      make([]float64, n),
		relaxation: relaxation,
		minSep2:    DefaultMinSeparation * DefaultMinSeparation,
	}
}

// SetMinSeparation overrides the pair distance treated as degenerate.
func (s *System) SetMinSeparation(d float64) {
	if d > 0 {
		s.minSep2 = d * d
	}
}

// Size returns the number of charges.
func (s *System) Size() int { return len(s.charges) }

// Iterations returns the number of completed iterations.
func (s *System) Iterations() int { return s.iter }

// Positions returns a copy of the current charge positions, index-aligned
// with creation order.
func (s *System) Positions() []geom.Vec3 {
	ps := make([]geom.Vec3, len(s.charges))
	for i := range s.charges {
		ps[i] = s.charges[i].Pos
	}
	return ps
}

// Velocities returns a copy of the current charge velocities.
func (s *System) Velocities() []geom.Vec3 {
	vs := make([]geom.Vec3, len(s.charges))
	for i := range s.charges {
		vs[i] = s.charges[i].Vel
	}
	return vs
}

// Displacements returns the per-charge movement of the last iteration.
// The slice is reused by Step and must not be retained.
func (s *System) Displacements() []float64 { return s.disps }

// MaxDisplacement returns the largest per-charge movement of the last
// iteration.
func (s *System) MaxDisplacement() float64 {
	max := 0.0
	for _, d := range s.disps {
		if d > max {
			max = d
		}
	}
	return max
}

// Step advances the system by one full iteration: accumulate pairwise
// repulsion from a snapshot of the current positions, apply the damped
// velocity update, project velocities tangent to the sphere, then move
// and renormalize every position. It returns ErrDegenerateGeometry
// (wrapped in a SolveError) if any pair is closer than the minimum
// separation.
func (s *System) Step() error {
	n := len(s.charges)

	s.copySnapshot()

	if n >= minParallelCharges {
		ParallelFor(n, 16, s.accumulate)
	} else {
		s.accumulate(0, n)
	}

	if s.degenerate.Load() {
		return &SolveError{Iteration: s.iter, Wrapped: ErrDegenerateGeometry}
	}

	gain := accelRetention * s.relaxation
	for i := range s.charges {
		c := &s.charges[i]

		c.Vel = c.Vel.Scale(velocityRetention).Add(s.accels[i].Scale(gain))

		// Drop the radial velocity component; motion stays on the sphere.
		radial := c.Vel.Dot(c.Pos)
		c.Vel = c.Vel.Sub(c.Pos.Scale(radial))

		c.Pos = c.Pos.Add(c.Vel).Normalized()

		// Moving along the tangent leaves a second-order radial remainder
		// at the new position; drop it so the stored velocity is tangent
		// to the sphere at the end of every iteration.
		radial = c.Vel.Dot(c.Pos)
		c.Vel = c.Vel.Sub(c.Pos.Scale(radial))

		s.disps[i] = c.Pos.Sub(s.old[i]).Len()
	}

	s.iter++
	return nil
}

// copySnapshot freezes the pre-iteration positions. All accelerations are
// computed against this snapshot so no charge reacts to a neighbor that
// already moved within the same iteration.
func (s *System) copySnapshot() {
	for i := range s.charges {
		s.old[i] = s.charges[i].Pos
		s.accels[i] = geom.Vec3{}
	}
}

// accumulate sums the repulsive acceleration on charges [start, end) from
// every other charge, reading only the position snapshot. The direction is
// away from the neighbor and the magnitude falls off as the inverse square
// of the separation; the proportionality constant is 1 since only the
// descent direction matters.
func (s *System) accumulate(start, end int) {
	for i := start; i < end; i++ {
		total := geom.Vec3{}
		pi := s.old[i]

		for j := range s.old {
			if j == i {
				continue
			}

			d := pi.Sub(s.old[j])
			d2 := d.LenSq()
			if d2 < s.minSep2 {
				s.degenerate.Store(true)
				return
			}

			// normalize(d) / |d|^2
			total = total.Add(d.Scale(1 / (d2 * d.Len())))
		}

		s.accels[i] = total
	}
}

// Energy returns the Coulomb potential sum(1/r) over all charge pairs.
func (s *System) Energy() float64 {
	e := 0.0
	for i := 0; i < len(s.charges); i++ {
		for j := i + 1; j < len(s.charges); j++ {
			r := s.charges[i].Pos.Sub(s.charges[j].Pos).Len()
			if r > 0 {
				e += 1 / r
			}
		}
	}
	return e
}
