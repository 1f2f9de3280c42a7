package layer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/kernels"
	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/tensor"
)

func TestConv2DValidSingleChannelOnesKernel(t *testing.T) {
	c, err := layer.NewConv2D(1, 1, 2, 2, 1, 1, kernels.PaddingValid, false)
	require.NoError(t, err)
	// A kernel of all ones sums each 2x2 window.
	require.NoError(t, c.SetWeights(mustTensor(t, tensor.Shape{1, 1, 2, 2}, []float32{1, 1, 1, 1})))

	in := mustTensor(t, tensor.Shape{1, 3, 3}, []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})
	shape, err := c.OutputShape(in.Shape())
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{1, 2, 2}, shape)

	out := tensor.MustNew(shape)
	require.NoError(t, c.Forward(in, out))
	require.Equal(t, []float32{12, 16, 24, 28}, out.Data())
}

func TestConv2DBatchMatchesPerSample(t *testing.T) {
	c, err := layer.NewConv2D(1, 1, 2, 2, 1, 1, kernels.PaddingValid, true)
	require.NoError(t, err)
	require.NoError(t, c.SetWeights(mustTensor(t, tensor.Shape{1, 1, 2, 2}, []float32{1, 0, 0, 1})))
	require.NoError(t, c.SetBias(mustTensor(t, tensor.Shape{1}, []float32{1})))

	sample := mustTensor(t, tensor.Shape{1, 3, 3}, []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})
	sampleOut := tensor.MustNew(tensor.Shape{1, 2, 2})
	require.NoError(t, c.Forward(sample, sampleOut))

	batch := mustTensor(t, tensor.Shape{2, 1, 3, 3}, append(append([]float32{}, sample.Data()...), sample.Data()...))
	batchOut := tensor.MustNew(tensor.Shape{2, 1, 2, 2})
	require.NoError(t, c.Forward(batch, batchOut))

	require.Equal(t, sampleOut.Data(), batchOut.Data()[:4])
	require.Equal(t, sampleOut.Data(), batchOut.Data()[4:])
}

func TestConv2DSamePaddingPreservesSpatialSize(t *testing.T) {
	c, err := layer.NewConv2D(1, 1, 3, 3, 1, 1, kernels.PaddingSame, false)
	require.NoError(t, err)
	require.NoError(t, c.SetWeights(tensor.MustNew(tensor.Shape{1, 1, 3, 3})))

	in := tensor.MustNew(tensor.Shape{1, 28, 28})
	shape, err := c.OutputShape(in.Shape())
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{1, 28, 28}, shape)
}
