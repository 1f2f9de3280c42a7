package kernels

import (
	"github.com/HamoodiM/TitanInfer/tensor"
)

// MatMul computes the dense matrix product (M,K) @ (K,N) -> (M,N) using a
// triple loop with deterministic left-to-right accumulation order. This is
// the reference implementation: every other matmul path in this package
// must agree with it to the tolerances in spec.md §8 ("1% relative error
// and 0.01 absolute error on well-conditioned inputs").
func MatMul(a, b *tensor.Tensor, output *tensor.Tensor) error {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 {
		return invalidArg("matmul", "expected 2D tensors, got shapes %v and %v", []int(as), []int(bs))
	}
	m, k := as[0], as[1]
	kb, n := bs[0], bs[1]
	if k != kb {
		return invalidArg("matmul", "inner dimensions mismatch: %d != %d", k, kb)
	}

	output.EnsureShape(tensor.Shape{m, n})
	out := output.Data()
	ad, bd := a.Data(), b.Data()

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			for p := 0; p < k; p++ {
				sum += ad[i*k+p] * bd[p*n+j]
			}
			out[i*n+j] = sum
		}
	}
	return nil
}

// MatVec computes the matrix-vector product (M,K) @ (K,) -> (M,).
func MatVec(a, x *tensor.Tensor, output *tensor.Tensor) error {
	as := a.Shape()
	if len(as) != 2 {
		return invalidArg("matvec", "expected 2D matrix, got shape %v", []int(as))
	}
	if len(x.Shape()) != 1 || x.Shape()[0] != as[1] {
		return invalidArg("matvec", "vector shape %v incompatible with matrix shape %v", []int(x.Shape()), []int(as))
	}

	m, k := as[0], as[1]
	output.EnsureShape(tensor.Shape{m})
	out := output.Data()
	ad, xd := a.Data(), x.Data()

	for i := 0; i < m; i++ {
		var sum float32
		row := ad[i*k : i*k+k]
		for p := 0; p < k; p++ {
			sum += row[p] * xd[p]
		}
		out[i] = sum
	}
	return nil
}

// Transpose computes the transpose of a 2D tensor.
func Transpose(a *tensor.Tensor, output *tensor.Tensor) error {
	as := a.Shape()
	if len(as) != 2 {
		return invalidArg("transpose", "expected 2D tensor, got shape %v", []int(as))
	}
	m, n := as[0], as[1]
	output.EnsureShape(tensor.Shape{n, m})
	out := output.Data()
	ad := a.Data()

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			out[j*m+i] = ad[i*n+j]
		}
	}
	return nil
}
