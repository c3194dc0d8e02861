package geom

import "math/rand"

// minRawLen rejects raw samples too close to the origin, where
// normalization would blow up numerically.
const minRawLen = 1e-6

// RandomUnit draws a point uniformly distributed on the unit sphere.
// Each coordinate of a raw candidate is uniform in [-1, 1]; candidates
// with near-zero magnitude are rejected and redrawn before normalizing.
func RandomUnit(rng *rand.Rand) Vec3 {
	for {
		v := Vec3{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
			Z: rng.Float64()*2 - 1,
		}
		if v.Len() >= minRawLen {
			return v.Normalized()
		}
	}
}
