package kernels_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/kernels"
	"github.com/HamoodiM/TitanInfer/tensor"
)

func TestMaxPool2DValid(t *testing.T) {
	in := mustTensor(t, tensor.Shape{1, 4, 4}, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	})
	out := tensor.MustNew(tensor.Shape{1, 2, 2})

	require.NoError(t, kernels.MaxPool2D(in, 2, 2, 2, 2, 0, 0, 2, 2, out))
	require.Equal(t, []float32{6, 8, 14, 16}, out.Data())
}

func TestMaxPool2DIgnoresPaddedNegativeInfinity(t *testing.T) {
	// 1x1 input with a 3x3 kernel padded by 1 on every side: only the
	// single real pixel should ever be selected, never the padding.
	in := mustTensor(t, tensor.Shape{1, 1, 1}, []float32{-5})
	out := tensor.MustNew(tensor.Shape{1, 1, 1})

	require.NoError(t, kernels.MaxPool2D(in, 3, 3, 1, 1, 1, 1, 1, 1, out))
	require.Equal(t, float32(-5), out.Data()[0])
}

func TestAvgPool2DDividesByFullKernelAreaEvenWithPadding(t *testing.T) {
	// 1x1 real pixel of value 4, SAME-padded to a 3x3 window: sum is 4,
	// and spec.md intentionally divides by the full 3*3=9 area, not by
	// the single valid position.
	in := mustTensor(t, tensor.Shape{1, 1, 1}, []float32{4})
	out := tensor.MustNew(tensor.Shape{1, 1, 1})

	require.NoError(t, kernels.AvgPool2D(in, 3, 3, 1, 1, 1, 1, 1, 1, out))
	require.InDelta(t, float32(4.0/9.0), out.Data()[0], 1e-6)
}

func TestAvgPool2DValid(t *testing.T) {
	in := mustTensor(t, tensor.Shape{1, 2, 2}, []float32{1, 2, 3, 4})
	out := tensor.MustNew(tensor.Shape{1, 1, 1})

	require.NoError(t, kernels.AvgPool2D(in, 2, 2, 2, 2, 0, 0, 1, 1, out))
	require.Equal(t, float32(2.5), out.Data()[0])
}

func TestMaxPool2DRejectsNon3DInput(t *testing.T) {
	in := tensor.MustNew(tensor.Shape{2, 2})
	out := tensor.MustNew(tensor.Shape{1, 1})
	require.Error(t, kernels.MaxPool2D(in, 2, 2, 2, 2, 0, 0, 1, 1, out))
}
