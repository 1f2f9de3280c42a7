package layer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/tensor"
)

func TestMaxPool2DDefaultStrideIsKernelSize(t *testing.T) {
	l, err := layer.NewMaxPool2D(2, 2, 0, 0, 0)
	require.NoError(t, err)

	in := mustTensor(t, tensor.Shape{1, 4, 4}, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	})
	shape, err := l.OutputShape(in.Shape())
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{1, 2, 2}, shape)

	out := tensor.MustNew(shape)
	require.NoError(t, l.Forward(in, out))
	require.Equal(t, []float32{6, 8, 14, 16}, out.Data())
}

func TestAvgPool2DPaddedWindowUsesFullKernelArea(t *testing.T) {
	l, err := layer.NewAvgPool2D(3, 3, 1, 1, 1)
	require.NoError(t, err)

	in := mustTensor(t, tensor.Shape{1, 1, 1}, []float32{9})
	shape, err := l.OutputShape(in.Shape())
	require.NoError(t, err)

	out := tensor.MustNew(shape)
	require.NoError(t, l.Forward(in, out))
	require.InDelta(t, float32(1), out.Data()[0], 1e-6) // 9 / 9
}

func TestMaxPool2DRejectsZeroKernel(t *testing.T) {
	_, err := layer.NewMaxPool2D(0, 2, 1, 1, 0)
	require.Error(t, err)
}

func TestMaxPool2DRejectsNegativePadding(t *testing.T) {
	_, err := layer.NewMaxPool2D(2, 2, 1, 1, -1)
	require.Error(t, err)
}
