// Package metrics provides per-iteration observations over a relaxation
// run, implementing the relax.Metric interface.
package metrics

import (
	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
)

// Potential tracks the Coulomb potential energy sum(1/r) of the most
// recently observed configuration. The sum is computed lazily in Value so
// observing stays O(n) per iteration.
type Potential struct {
	name      string
	positions []geom.Vec3
}

func NewPotential() *Potential {
	return &Potential{name: "potential"}
}

func (p *Potential) Name() string { return p.name }

func (p *Potential) Observe(positions []geom.Vec3, displacements []float64, iter int) {
	if len(p.positions) != len(positions) {
		p.positions = make([]geom.Vec3, len(positions))
	}
	copy(p.positions, positions)
}

func (p *Potential) Value() float64 {
	e := 0.0
	for i := 0; i < len(p.positions); i++ {
		for j := i + 1; j < len(p.positions); j++ {
			r := p.positions[i].Sub(p.positions[j]).Len()
			if r > 0 {
				e += 1 / r
			}
		}
	}
	return e
}

func (p *Potential) Reset() {
	p.positions = nil
}
