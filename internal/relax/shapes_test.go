package relax_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/relax"
)

var _ = Describe("Solver", func() {
	It("keeps every charge on the unit sphere", func() {
		for _, n := range []int{1, 2, 4, 7, 13} {
			cfg := relax.Config{N: n, Tolerance: 1e-2, RelaxationFactor: 1, Seed: 42}
			result, err := relax.New(cfg).Run(context.Background())

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Positions).To(HaveLen(n))
			for _, p := range result.Positions {
				Expect(p.Len()).To(BeNumerically("~", 1, 1e-9))
			}
		}
	})

	It("drives two charges to antipodal points", func() {
		cfg := relax.Config{N: 2, Tolerance: 1e-6, RelaxationFactor: 1, Seed: 7}
		result, err := relax.New(cfg).Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Converged).To(BeTrue())
		Expect(result.Positions[0].Dot(result.Positions[1])).To(BeNumerically("<", -0.999))
	})

	It("finds a regular tetrahedron for four charges", func() {
		// Relaxation from a random start can land in a local minimum, so
		// several seeded attempts run and the lowest-energy one is kept.
		cfg := relax.Config{N: 4, Tolerance: 1e-5, RelaxationFactor: 1, MaxIterations: 400000}
		result, err := relax.NewEnsemble(cfg, 5, 1).Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Converged).To(BeTrue())

		// Every vertex pair of a regular tetrahedron inscribed in the unit
		// sphere subtends cos(theta) = -1/3.
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				dot := result.Positions[i].Dot(result.Positions[j])
				Expect(dot).To(BeNumerically("~", -1.0/3.0, 0.05))
			}
		}
	})

	It("reports the lower energy of repeated attempts", func() {
		cfg := relax.Config{N: 6, Tolerance: 1e-4, RelaxationFactor: 1, MaxIterations: 400000}

		single, err := relax.New(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		best, err := relax.NewEnsemble(cfg, 4, 0).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(best.Energy).To(BeNumerically("<=", single.Energy+1e-9))
	})

	It("settles six charges into an octahedron", func() {
		cfg := relax.Config{N: 6, Tolerance: 1e-5, RelaxationFactor: 1, MaxIterations: 400000}
		result, err := relax.NewEnsemble(cfg, 5, 3).Run(context.Background())

		Expect(err).NotTo(HaveOccurred())

		// An octahedron pairs each vertex with one antipode and four
		// orthogonal neighbors.
		for i := 0; i < 6; i++ {
			antipodes := 0
			orthogonal := 0
			for j := 0; j < 6; j++ {
				if i == j {
					continue
				}
				dot := result.Positions[i].Dot(result.Positions[j])
				switch {
				case math.Abs(dot+1) < 0.05:
					antipodes++
				case math.Abs(dot) < 0.05:
					orthogonal++
				}
			}
			Expect(antipodes).To(Equal(1))
			Expect(orthogonal).To(Equal(4))
		}
	})

	It("settles twelve charges into an icosahedron", func() {
		cfg := relax.Config{N: 12, Tolerance: 1e-4, RelaxationFactor: 1, MaxIterations: 400000}
		result, err := relax.NewEnsemble(cfg, 5, 1).Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Converged).To(BeTrue())

		// Each icosahedron vertex sees five neighbors at dot 1/sqrt(5),
		// five at -1/sqrt(5) and one antipode.
		inv := 1 / math.Sqrt(5)
		for i := 0; i < 12; i++ {
			near, far, antipodes := 0, 0, 0
			for j := 0; j < 12; j++ {
				if i == j {
					continue
				}
				dot := result.Positions[i].Dot(result.Positions[j])
				switch {
				case math.Abs(dot-inv) < 0.05:
					near++
				case math.Abs(dot+inv) < 0.05:
					far++
				case math.Abs(dot+1) < 0.05:
					antipodes++
				}
			}
			Expect(near).To(Equal(5))
			Expect(far).To(Equal(5))
			Expect(antipodes).To(Equal(1))
		}
	})
})
