package utils

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Generator produces a fresh vector for tokens that have none.
type Generator func() []float64

// NewSource returns a deterministic PCG source for the given seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// ZeroGenerator yields zero vectors of width dim.
func ZeroGenerator(dim int) Generator {
	return func() []float64 { return make([]float64, dim) }
}

// RandomGenerator yields vectors drawn from U(-sqrt(3), sqrt(3)), which has
// unit variance.
func RandomGenerator(dim int, src rand.Source) Generator {
	dist := distuv.Uniform{Min: -math.Sqrt(3), Max: math.Sqrt(3), Src: src}
	return func() []float64 {
		out := make([]float64, dim)
		for i := range out {
			out[i] = dist.Rand()
		}
		return out
	}
}

// RandomArray returns 'size' samples from U(-1/sqrt(v), 1/sqrt(v)).
func RandomArray(size int, v float64, src rand.Source) []float64 {
	dist := distuv.Uniform{
		Min: -1.0 / math.Sqrt(v+1e-12),
		Max: 1.0 / math.Sqrt(v+1e-12),
		Src: src,
	}
	out := make([]float64, size)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// NormalizeVector scales v to unit L2 norm in place. Zero vectors are left alone.
func NormalizeVector(v []float64) {
	n := floats.Norm(v, 2)
	if n == 0 {
		return
	}
	floats.Scale(1/n, v)
}

// Underline wraps s in the ANSI underline escape used to mark link spans.
func Underline(s string) string {
	return "\033[4m" + s + "\033[0m"
}
