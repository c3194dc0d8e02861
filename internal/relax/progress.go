package relax

import (
	"fmt"
	"io"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
)

// DefaultProgressInterval is the iteration interval between diagnostic
// displacement dumps.
const DefaultProgressInterval = 2500

// ProgressObserver writes the full per-charge displacement list to Out
// every Every iterations. Purely observational; it never affects
// termination.
type ProgressObserver struct {
	Every int
	Out   io.Writer
}

// NewProgressObserver returns a ProgressObserver with the default
// interval.
func NewProgressObserver(out io.Writer) *ProgressObserver {
	return &ProgressObserver{Every: DefaultProgressInterval, Out: out}
}

func (p *ProgressObserver) OnIteration(iter int, positions []geom.Vec3, displacements []float64) {
	every := p.Every
	if every <= 0 {
		every = DefaultProgressInterval
	}
	if iter%every != 0 {
		return
	}

	fmt.Fprintf(p.Out, "iteration %d, displacements:", iter)
	for _, d := range displacements {
		fmt.Fprintf(p.Out, " %.3e", d)
	}
	fmt.Fprintln(p.Out)
}
