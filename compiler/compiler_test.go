package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/compiler"
	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/model"
	"github.com/HamoodiM/TitanInfer/tensor"
)

func buildMLP(t *testing.T) *model.Sequential {
	t.Helper()
	d1, err := layer.NewDense(4, 8, true)
	require.NoError(t, err)
	for i := range d1.Weights().Data() {
		d1.Weights().Data()[i] = float32(i%5) * 0.1
	}
	for i := range d1.Bias().Data() {
		d1.Bias().Data()[i] = 0.05
	}
	d2, err := layer.NewDense(8, 3, true)
	require.NoError(t, err)
	for i := range d2.Weights().Data() {
		d2.Weights().Data()[i] = float32(i%7) * 0.05
	}
	return model.NewSequential(d1, layer.NewReLU(), d2, layer.NewSoftmax())
}

func TestCompileRejectsEmptyModel(t *testing.T) {
	_, err := compiler.Compile(model.NewSequential(), tensor.Shape{4}, compiler.DefaultOptions())
	require.Error(t, err)
}

func TestCompileFusesDenseReLU(t *testing.T) {
	m := buildMLP(t)
	compiled, err := compiler.Compile(m, tensor.Shape{4}, compiler.Options{EnableFusion: true})
	require.NoError(t, err)
	// Dense+ReLU fuse into one layer, Dense+Softmax stay separate: 4 -> 3.
	require.Equal(t, 3, compiled.LayerCount())
}

func TestCompiledModelMatchesUnfusedForward(t *testing.T) {
	m := buildMLP(t)
	input := tensor.MustNew(tensor.Shape{4})
	copy(input.Data(), []float32{1, 2, 3, 4})

	want, err := m.Forward(input.Copy())
	require.NoError(t, err)

	compiled, err := compiler.Compile(m, tensor.Shape{4}, compiler.Options{EnableFusion: true})
	require.NoError(t, err)
	got, err := compiled.Predict(input.Copy())
	require.NoError(t, err)

	require.InDeltaSlice(t, want.Data(), got.Data(), 1e-5)
}

func TestCompileWithoutFusionKeepsLayerCount(t *testing.T) {
	m := buildMLP(t)
	compiled, err := compiler.Compile(m, tensor.Shape{4}, compiler.Options{EnableFusion: false})
	require.NoError(t, err)
	require.Equal(t, m.Len(), compiled.LayerCount())
}

func TestCompileWithQuantizationReplacesDense(t *testing.T) {
	m := buildMLP(t)
	compiled, err := compiler.Compile(m, tensor.Shape{4}, compiler.Options{EnableFusion: false, EnableQuantization: true})
	require.NoError(t, err)
	require.Equal(t, m.Len(), compiled.LayerCount())

	input := tensor.MustNew(tensor.Shape{4})
	copy(input.Data(), []float32{1, 2, 3, 4})
	want, err := m.Forward(input.Copy())
	require.NoError(t, err)
	got, err := compiled.Predict(input.Copy())
	require.NoError(t, err)
	// Quantized weights are a lossy approximation; allow loose tolerance.
	require.InDeltaSlice(t, want.Data(), got.Data(), 0.1)
}

func TestCompilePreservesSourceModel(t *testing.T) {
	m := buildMLP(t)
	originalLen := m.Len()
	_, err := compiler.Compile(m, tensor.Shape{4}, compiler.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, originalLen, m.Len())
}

func TestCompiledModelRejectsWrongInputShape(t *testing.T) {
	m := buildMLP(t)
	compiled, err := compiler.Compile(m, tensor.Shape{4}, compiler.DefaultOptions())
	require.NoError(t, err)

	bad := tensor.MustNew(tensor.Shape{5})
	_, err = compiled.Predict(bad)
	require.Error(t, err)
}

func TestCompiledModelSummaryListsLayers(t *testing.T) {
	m := buildMLP(t)
	compiled, err := compiler.Compile(m, tensor.Shape{4}, compiler.DefaultOptions())
	require.NoError(t, err)
	summary, err := compiled.Summary()
	require.NoError(t, err)
	require.Contains(t, summary, "FusedDenseReLU")
	require.Contains(t, summary, "total params")
}
