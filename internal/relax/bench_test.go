package relax

import (
	"fmt"
	"math/rand"
	"testing"
)

func BenchmarkSystemStep(b *testing.B) {
	for _, n := range []int{8, 32, 128, 512} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			sys := NewSystem(n, 1.0, rand.New(rand.NewSource(1)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if err := sys.Step(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEnergy(b *testing.B) {
	sys := NewSystem(128, 1.0, rand.New(rand.NewSource(1)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = sys.Energy()
	}
}
