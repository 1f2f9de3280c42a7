package engine_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/engine"
	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/model"
	"github.com/HamoodiM/TitanInfer/serialize"
	"github.com/HamoodiM/TitanInfer/tensor"
)

func writeTempModel(t *testing.T) string {
	t.Helper()
	d1, err := layer.NewDense(4, 6, true)
	require.NoError(t, err)
	for i := range d1.Weights().Data() {
		d1.Weights().Data()[i] = float32(i%5) * 0.1
	}
	d2, err := layer.NewDense(6, 2, true)
	require.NoError(t, err)
	for i := range d2.Weights().Data() {
		d2.Weights().Data()[i] = float32(i%3) * 0.2
	}
	m := model.NewSequential(d1, layer.NewReLU(), d2, layer.NewSoftmax())

	dir := t.TempDir()
	path := filepath.Join(dir, "model.titan")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, serialize.Write(f, m))
	return path
}

func TestBuilderRequiresModelPath(t *testing.T) {
	_, err := engine.NewBuilder().Build()
	require.Error(t, err)
}

func TestBuildAndPredict(t *testing.T) {
	path := writeTempModel(t)
	e, err := engine.NewBuilder().ModelPath(path).Build()
	require.NoError(t, err)
	require.True(t, e.IsLoaded())
	require.Equal(t, tensor.Shape{4}, e.ExpectedInputShape())

	input := tensor.MustNew(tensor.Shape{4})
	copy(input.Data(), []float32{1, 2, 3, 4})
	out, err := e.Predict(input)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{2}, out.Shape())

	sum := float32(0)
	for _, v := range out.Data() {
		sum += v
	}
	require.InDelta(t, 1.0, sum, 1e-5)
}

func TestPredictRejectsWrongShape(t *testing.T) {
	path := writeTempModel(t)
	e, err := engine.NewBuilder().ModelPath(path).Build()
	require.NoError(t, err)

	bad := tensor.MustNew(tensor.Shape{3})
	_, err = e.Predict(bad)
	require.Error(t, err)
}

func TestPredictRejectsNaN(t *testing.T) {
	path := writeTempModel(t)
	e, err := engine.NewBuilder().ModelPath(path).Build()
	require.NoError(t, err)

	input := tensor.MustNew(tensor.Shape{4})
	input.Data()[2] = float32(math.NaN())
	_, err = e.Predict(input)
	require.Error(t, err)
}

func TestPredictBatch(t *testing.T) {
	path := writeTempModel(t)
	e, err := engine.NewBuilder().ModelPath(path).Build()
	require.NoError(t, err)

	a := tensor.MustNew(tensor.Shape{4})
	copy(a.Data(), []float32{1, 0, 0, 0})
	b := tensor.MustNew(tensor.Shape{4})
	copy(b.Data(), []float32{0, 1, 0, 0})

	outs, err := e.PredictBatch([]*tensor.Tensor{a, b})
	require.NoError(t, err)
	require.Len(t, outs, 2)
}

func TestWarmupResetsStats(t *testing.T) {
	path := writeTempModel(t)
	e, err := engine.NewBuilder().ModelPath(path).EnableProfiling(true).WarmupRuns(3).Build()
	require.NoError(t, err)
	require.Equal(t, 0, e.Stats().InferenceCount)

	input := tensor.MustNew(tensor.Shape{4})
	_, err = e.Predict(input)
	require.NoError(t, err)
	require.Equal(t, 1, e.Stats().InferenceCount)

	e.ResetStats()
	require.Equal(t, 0, e.Stats().InferenceCount)
}

func TestProfilingTracksPerLayerMicros(t *testing.T) {
	path := writeTempModel(t)
	e, err := engine.NewBuilder().ModelPath(path).EnableProfiling(true).Build()
	require.NoError(t, err)

	input := tensor.MustNew(tensor.Shape{4})
	_, err = e.Predict(input)
	require.NoError(t, err)

	micros := e.Stats().PerLayerMicros()
	require.Len(t, micros, e.LayerCount())
}

func TestSummaryListsLayers(t *testing.T) {
	path := writeTempModel(t)
	e, err := engine.NewBuilder().ModelPath(path).Build()
	require.NoError(t, err)

	summary, err := e.Summary()
	require.NoError(t, err)
	require.Contains(t, summary, "Dense")
}

func TestLoadRejectsMissingInputShapeWithoutDenseLayer(t *testing.T) {
	m := model.NewSequential(layer.NewFlatten())
	var buf bytes.Buffer
	require.NoError(t, serialize.Write(&buf, m))

	dir := t.TempDir()
	path := filepath.Join(dir, "no_dense.titan")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := engine.NewBuilder().ModelPath(path).Build()
	require.Error(t, err)
}
