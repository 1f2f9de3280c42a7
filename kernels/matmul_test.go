package kernels_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/kernels"
	"github.com/HamoodiM/TitanInfer/tensor"
)

func mustTensor(t *testing.T, shape tensor.Shape, data []float32) *tensor.Tensor {
	t.Helper()
	tt, err := tensor.New(shape)
	require.NoError(t, err)
	copy(tt.Data(), data)
	return tt
}

func TestMatMul2x2(t *testing.T) {
	a := mustTensor(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	b := mustTensor(t, tensor.Shape{2, 2}, []float32{5, 6, 7, 8})
	out := tensor.MustNew(tensor.Shape{2, 2})

	require.NoError(t, kernels.MatMul(a, b, out))
	require.Equal(t, []float32{19, 22, 43, 50}, out.Data())
}

func TestMatMulRejectsInnerDimensionMismatch(t *testing.T) {
	a := tensor.MustNew(tensor.Shape{2, 3})
	b := tensor.MustNew(tensor.Shape{4, 2})
	out := tensor.MustNew(tensor.Shape{2, 2})
	err := kernels.MatMul(a, b, out)
	require.Error(t, err)
}

func TestMatMulBlockedAgreesWithReference(t *testing.T) {
	const m, k, n = 37, 129, 17 // deliberately not multiples of 8/64
	a := tensor.MustNew(tensor.Shape{m, k})
	b := tensor.MustNew(tensor.Shape{k, n})
	for i := range a.Data() {
		a.Data()[i] = float32(i%7) - 3
	}
	for i := range b.Data() {
		b.Data()[i] = float32(i%5) - 2
	}

	reference := tensor.MustNew(tensor.Shape{m, n})
	blocked := tensor.MustNew(tensor.Shape{m, n})

	require.NoError(t, kernels.MatMul(a, b, reference))
	require.NoError(t, kernels.MatMulBlocked(a, b, blocked))

	for i := range reference.Data() {
		want, got := reference.Data()[i], blocked.Data()[i]
		require.InDelta(t, float64(want), float64(got), float64(0.01+0.01*absf32(want)))
	}
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestMatVec(t *testing.T) {
	a := mustTensor(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	x := mustTensor(t, tensor.Shape{3}, []float32{1, 1, 1})
	out := tensor.MustNew(tensor.Shape{2})

	require.NoError(t, kernels.MatVec(a, x, out))
	require.Equal(t, []float32{6, 15}, out.Data())
}

func TestTranspose(t *testing.T) {
	a := mustTensor(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	out := tensor.MustNew(tensor.Shape{3, 2})

	require.NoError(t, kernels.Transpose(a, out))
	require.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.Data())
}
