package analysis

import (
	"math"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
)

// PairAngles returns the angle in radians subtended at the origin by every
// unordered pair of positions, n*(n-1)/2 values in index order.
func PairAngles(positions []geom.Vec3) []float64 {
	n := len(positions)
	angles := make([]float64, 0, n*(n-1)/2)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dot := positions[i].Normalized().Dot(positions[j].Normalized())
			// Clamp against rounding before acos.
			if dot > 1 {
				dot = 1
			} else if dot < -1 {
				dot = -1
			}
			angles = append(angles, math.Acos(dot))
		}
	}

	return angles
}

// MinAngle returns the smallest pairwise angle, the tightest packing spot
// of the configuration. Returns 0 for fewer than two positions.
func MinAngle(positions []geom.Vec3) float64 {
	angles := PairAngles(positions)
	if len(angles) == 0 {
		return 0
	}

	min := angles[0]
	for _, a := range angles[1:] {
		if a < min {
			min = a
		}
	}
	return min
}

// MinDistance returns the smallest Euclidean pair separation. Returns 0
// for fewer than two positions.
func MinDistance(positions []geom.Vec3) float64 {
	n := len(positions)
	if n < 2 {
		return 0
	}

	min := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d := positions[i].Sub(positions[j]).Len(); d < min {
				min = d
			}
		}
	}
	return min
}

// PotentialEnergy returns the Coulomb potential sum(1/r) over all pairs.
func PotentialEnergy(positions []geom.Vec3) float64 {
	n := len(positions)
	e := 0.0

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := positions[i].Sub(positions[j]).Len()
			if r > 0 {
				e += 1 / r
			}
		}
	}
	return e
}
