package kernels_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/kernels"
	"github.com/HamoodiM/TitanInfer/tensor"
)

func TestSamePaddingOddSplitIsRightBiased(t *testing.T) {
	// input=6, kernel=4, stride=1 -> outSize=ceil(6/1)=6, total=(6-1)*1+4-6=3
	total := kernels.SamePadding(6, 4, 1)
	require.Equal(t, 3, total)

	padTop := total / 2
	padBottom := total - padTop
	require.Equal(t, 1, padTop)
	require.Equal(t, 2, padBottom)
}

func TestSamePaddingOddTotalBiasesExtraUnitRight(t *testing.T) {
	// input=28, kernel=4, stride=1 -> outSize=28, total=(28-1)*1+4-28=3
	total := kernels.SamePadding(28, 4, 1)
	padLeft := total / 2
	padRight := total - padLeft
	require.GreaterOrEqual(t, padRight, padLeft)
}

func TestOutputSizeValid(t *testing.T) {
	require.Equal(t, 13, kernels.OutputSize(28, 3, 2, 0))
}

func TestIm2ColShapeAndValues(t *testing.T) {
	// 1 channel, 3x3 input, 2x2 kernel, stride 1, VALID -> output 2x2
	in := mustTensor(t, tensor.Shape{1, 3, 3}, []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})
	out := tensor.MustNew(tensor.Shape{4, 4})

	require.NoError(t, kernels.Im2Col(in, 2, 2, 1, 1, 0, 0, 2, 2, out))
	require.Equal(t, tensor.Shape{4, 4}, out.Shape())

	// Row 0 = kernel position (0,0) across all 4 output positions.
	require.Equal(t, []float32{1, 2, 4, 5}, out.Data()[0:4])
}

func TestIm2ColRejectsNon3DInput(t *testing.T) {
	in := tensor.MustNew(tensor.Shape{3, 3})
	out := tensor.MustNew(tensor.Shape{1, 1})
	require.Error(t, kernels.Im2Col(in, 2, 2, 1, 1, 0, 0, 1, 1, out))
}
