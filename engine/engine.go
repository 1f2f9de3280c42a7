// Package engine provides InferenceEngine: a loaded Sequential model
// with pre-allocated buffers, input validation, optional warm-up, and
// optional latency profiling.
package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/HamoodiM/TitanInfer/internal/metrics"
	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/model"
	"github.com/HamoodiM/TitanInfer/serialize"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// InferenceEngine wraps a loaded Sequential model with pre-allocated
// per-layer buffers. It is not safe for concurrent use; titaninfer's
// ModelHandle serializes calls into its engine with a mutex.
type InferenceEngine struct {
	model            *model.Sequential
	inputShape       tensor.Shape
	buffers          []*tensor.Tensor
	profilingEnabled bool
	metricsEnabled   bool
	stats            InferenceStats
}

func newEngine() *InferenceEngine {
	return &InferenceEngine{}
}

func loadModel(path string, inputShape tensor.Shape, profiling, metricsOn bool) (*InferenceEngine, error) {
	m, err := serialize.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("engine: loading model: %w", err)
	}
	if m.Len() == 0 {
		return nil, fmt.Errorf("engine: loaded model has no layers")
	}

	e := newEngine()
	e.model = m
	e.profilingEnabled = profiling
	e.metricsEnabled = metricsOn

	if len(inputShape) > 0 {
		e.inputShape = inputShape
	} else {
		shape, err := inferInputShape(m)
		if err != nil {
			return nil, err
		}
		e.inputShape = shape
	}

	if err := e.allocateBuffers(); err != nil {
		return nil, err
	}
	return e, nil
}

func inferInputShape(m *model.Sequential) (tensor.Shape, error) {
	for i := 0; i < m.Len(); i++ {
		if dense, ok := m.Layer(i).(*layer.Dense); ok {
			return tensor.Shape{dense.InFeatures()}, nil
		}
	}
	return nil, fmt.Errorf("engine: cannot infer input shape: no Dense layer found and no input shape provided")
}

func (e *InferenceEngine) allocateBuffers() error {
	e.buffers = make([]*tensor.Tensor, e.model.Len())
	shape := e.inputShape
	for i := 0; i < e.model.Len(); i++ {
		l := e.model.Layer(i)
		next, err := l.OutputShape(shape)
		if err != nil {
			return fmt.Errorf("engine: layer %d (%s): %w", i, l.Name(), err)
		}
		buf, err := tensor.New(next)
		if err != nil {
			return fmt.Errorf("engine: layer %d (%s): %w", i, l.Name(), err)
		}
		e.buffers[i] = buf
		shape = next
	}
	e.stats.reset(e.model.Len())
	return nil
}

// Warmup runs numRuns forward passes over a zero input and then resets
// stats, so steady-state latency measurements exclude any first-call
// allocator or cache warm-up cost.
func (e *InferenceEngine) Warmup(numRuns int) error {
	dummy, err := tensor.New(e.inputShape)
	if err != nil {
		return fmt.Errorf("engine: warmup: %w", err)
	}
	for r := 0; r < numRuns; r++ {
		if _, err := e.forward(dummy); err != nil {
			return fmt.Errorf("engine: warmup: %w", err)
		}
	}
	e.ResetStats()
	return nil
}

func (e *InferenceEngine) validateInput(input *tensor.Tensor) error {
	if !input.Shape().Equal(e.inputShape) {
		return fmt.Errorf("engine: expected input shape %v, got %v", []int(e.inputShape), []int(input.Shape()))
	}
	for i, v := range input.Data() {
		if math.IsNaN(float64(v)) {
			return fmt.Errorf("engine: input contains NaN at index %d", i)
		}
	}
	return nil
}

func (e *InferenceEngine) forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	var layerDurations []time.Duration
	if e.profilingEnabled {
		layerDurations = make([]time.Duration, e.model.Len())
	}

	current := input
	for i := 0; i < e.model.Len(); i++ {
		l := e.model.Layer(i)
		dst := e.buffers[i]

		var start time.Time
		if e.profilingEnabled || e.metricsEnabled {
			start = time.Now()
		}
		if err := l.Forward(current, dst); err != nil {
			return nil, fmt.Errorf("engine: layer %d (%s): %w", i, l.Name(), err)
		}
		if e.profilingEnabled || e.metricsEnabled {
			elapsed := time.Since(start)
			if e.profilingEnabled {
				layerDurations[i] = elapsed
			}
			if e.metricsEnabled {
				metrics.RecordLayerDuration(l.Name(), elapsed)
			}
		}
		current = dst
	}

	if e.profilingEnabled {
		total := time.Duration(0)
		for _, d := range layerDurations {
			total += d
		}
		e.stats.record(total, layerDurations)
	}

	return current.Copy(), nil
}

// Predict validates input, runs it through the loaded model, and
// returns a fresh copy of the final layer's output.
func (e *InferenceEngine) Predict(input *tensor.Tensor) (*tensor.Tensor, error) {
	if e.model == nil {
		return nil, fmt.Errorf("engine: no model loaded")
	}
	if err := e.validateInput(input); err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := e.forward(input)
	if e.metricsEnabled {
		metrics.RecordInference(time.Since(start), err)
	}
	return out, err
}

// PredictBatch runs Predict over each input in order, returning a
// result slice of the same length, or the first error encountered.
func (e *InferenceEngine) PredictBatch(inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	outputs := make([]*tensor.Tensor, 0, len(inputs))
	for i, input := range inputs {
		out, err := e.Predict(input)
		if err != nil {
			return nil, fmt.Errorf("engine: predict_batch: input %d: %w", i, err)
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// Stats returns a copy of the current profiling statistics.
func (e *InferenceEngine) Stats() InferenceStats { return e.stats }

// ResetStats zeroes the profiling counters.
func (e *InferenceEngine) ResetStats() { e.stats.reset(e.model.Len()) }

// IsLoaded reports whether a model is currently loaded.
func (e *InferenceEngine) IsLoaded() bool { return e.model != nil }

// ExpectedInputShape returns the shape Predict requires.
func (e *InferenceEngine) ExpectedInputShape() tensor.Shape { return e.inputShape }

// Summary formats the loaded model's layer plan.
func (e *InferenceEngine) Summary() (string, error) {
	if e.model == nil {
		return "", fmt.Errorf("engine: no model loaded")
	}
	return e.model.Summary(e.inputShape)
}

// LayerCount returns the number of layers in the loaded model, 0 if none loaded.
func (e *InferenceEngine) LayerCount() int {
	if e.model == nil {
		return 0
	}
	return e.model.Len()
}
