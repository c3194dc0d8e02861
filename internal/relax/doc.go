// Package relax implements the damped relaxation solver for the Thomson
// problem: finding low-energy arrangements of mutually repelling point
// charges confined to the unit sphere.
//
// The package defines the core simulation types:
//
//   - [Charge]: a point charge with position and velocity on the sphere
//   - [System]: the mutable state of one relaxation run, advanced by Step
//   - [Solver]: runs a System to convergence under a [Config]
//   - [Ensemble]: independent seeded solves picking the lowest-energy result
//
// Each iteration reads a consistent snapshot of all positions, accumulates
// inverse-square pairwise repulsion, applies a heavily damped velocity
// update, projects velocities into the local tangent plane, and renormalizes
// updated positions back onto the sphere. The run converges when every
// charge moved less than the configured tolerance in one iteration.
//
// # Example
//
//	s := relax.New(relax.Config{N: 13, Tolerance: 1e-2, RelaxationFactor: 1, Seed: 42})
//	result, err := s.Run(ctx)
//
// # Thread Safety
//
// Solver and System instances are NOT thread-safe. For concurrent solves,
// use [Ensemble], which runs independent Systems per goroutine.
package relax
