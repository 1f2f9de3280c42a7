package kernels

import "math"

// fusedMultiplyAdd computes a*b+c with a single rounding, via the
// standard library's software FMA. Used as the portable stand-in for a
// hardware FMA3 instruction in the blocked kernels.
func fusedMultiplyAdd(a, b, c float64) float64 {
	return math.FMA(a, b, c)
}
