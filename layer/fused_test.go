package layer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/tensor"
)

func TestFusedDenseReLUMatchesUnfusedPair(t *testing.T) {
	d, err := layer.NewDense(3, 2, true)
	require.NoError(t, err)
	require.NoError(t, d.SetWeights(mustTensor(t, tensor.Shape{2, 3}, []float32{1, -1, 0, 0, 1, -1})))
	require.NoError(t, d.SetBias(mustTensor(t, tensor.Shape{2}, []float32{-1, 2})))

	input := mustTensor(t, tensor.Shape{3}, []float32{2, 1, 5})

	unfusedDense := tensor.MustNew(tensor.Shape{2})
	require.NoError(t, d.Forward(input, unfusedDense))
	relu := layer.NewReLU()
	unfusedOut := tensor.MustNew(tensor.Shape{2})
	require.NoError(t, relu.Forward(unfusedDense, unfusedOut))

	fused := layer.NewFusedDenseReLU(d)
	fusedOut := tensor.MustNew(tensor.Shape{2})
	require.NoError(t, fused.Forward(input, fusedOut))

	require.Equal(t, unfusedOut.Data(), fusedOut.Data())
}

func TestFusedDenseReLUIsIndependentOfSourceDense(t *testing.T) {
	d, err := layer.NewDense(2, 2, false)
	require.NoError(t, err)
	fused := layer.NewFusedDenseReLU(d)

	d.Weights().Data()[0] = 42

	input := mustTensor(t, tensor.Shape{2}, []float32{1, 1})
	out := tensor.MustNew(tensor.Shape{2})
	require.NoError(t, fused.Forward(input, out))
	// d's weights were all zero at fusion time; fused must not see the
	// later mutation to d's own weight tensor.
	require.Equal(t, []float32{0, 0}, out.Data())
}
