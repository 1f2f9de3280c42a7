package layer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/tensor"
)

func TestFlattenRank3(t *testing.T) {
	f := layer.NewFlatten()
	in := tensor.MustNew(tensor.Shape{2, 3, 4})
	shape, err := f.OutputShape(in.Shape())
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{24}, shape)

	out := tensor.MustNew(tensor.Shape{24})
	require.NoError(t, f.Forward(in, out))
}

func TestFlattenRank4PreservesBatch(t *testing.T) {
	f := layer.NewFlatten()
	shape, err := f.OutputShape(tensor.Shape{8, 3, 4, 4})
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{8, 48}, shape)
}

func TestFlattenPassesThroughRank1And2(t *testing.T) {
	f := layer.NewFlatten()
	shape, err := f.OutputShape(tensor.Shape{10})
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{10}, shape)

	shape, err = f.OutputShape(tensor.Shape{2, 10})
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{2, 10}, shape)
}
