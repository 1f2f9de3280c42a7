package layer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/tensor"
)

func TestReLULayer(t *testing.T) {
	l := layer.NewReLU()
	in := mustTensor(t, tensor.Shape{3}, []float32{-1, 0, 2})
	out := tensor.MustNew(tensor.Shape{3})
	require.NoError(t, l.Forward(in, out))
	require.Equal(t, []float32{0, 0, 2}, out.Data())
	require.Equal(t, "ReLU", l.Name())
	require.Equal(t, 0, l.ParameterCount())
}

func TestActivationOutputShapePreserved(t *testing.T) {
	l := layer.NewSoftmax()
	shape, err := l.OutputShape(tensor.Shape{4, 5})
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{4, 5}, shape)
}

func TestActivationCloneIsSameKind(t *testing.T) {
	var l layer.Layer = layer.NewSigmoid()
	clone := l.Clone()
	_, ok := clone.(*layer.Sigmoid)
	require.True(t, ok)
}
