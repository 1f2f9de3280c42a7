package titaninfer

import (
	"sync"

	"github.com/HamoodiM/TitanInfer/engine"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// InferenceStats re-exports engine.InferenceStats for public API
// consumers, so callers never need to import package engine directly.
type InferenceStats = engine.InferenceStats

// ModelHandle is a mutex-guarded façade around one loaded inference
// engine. All operations acquire the handle's mutex, so it is safe to
// share across goroutines; concurrent predicts are serialized in
// whatever order the mutex grants, not necessarily FIFO. ModelHandle is
// used by pointer and is not copyable — there is no Go analogue needed
// for the original's move constructor since a *ModelHandle is already
// the cheap, shareable reference.
type ModelHandle struct {
	mu  sync.Mutex
	eng *engine.InferenceEngine
}

func newHandle(e *engine.InferenceEngine) *ModelHandle {
	return &ModelHandle{eng: e}
}

// Predict validates input and forwards it through the loaded model,
// returning a deep copy of the output. A shape mismatch or NaN input
// surfaces as a *Error with KindValidation; any other failure as
// KindInference.
func (h *ModelHandle) Predict(input *tensor.Tensor) (*tensor.Tensor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out, err := h.eng.Predict(input)
	if err != nil {
		return nil, translateRuntimeError(err)
	}
	return out, nil
}

// PredictBatch runs Predict over each input in order under a single
// mutex acquisition.
func (h *ModelHandle) PredictBatch(inputs []*tensor.Tensor) ([]*tensor.Tensor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out, err := h.eng.PredictBatch(inputs)
	if err != nil {
		return nil, translateRuntimeError(err)
	}
	return out, nil
}

// Stats returns a snapshot of the engine's profiling statistics.
func (h *ModelHandle) Stats() InferenceStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eng.Stats()
}

// ResetStats zeroes the engine's profiling counters.
func (h *ModelHandle) ResetStats() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.eng.ResetStats()
}

// IsLoaded reports whether a model is loaded. Always true for a
// ModelHandle returned by a successful Builder.Build.
func (h *ModelHandle) IsLoaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eng.IsLoaded()
}

// LayerCount returns the number of layers in the loaded model.
func (h *ModelHandle) LayerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eng.LayerCount()
}

// Summary formats the loaded model's layer plan.
func (h *ModelHandle) Summary() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, err := h.eng.Summary()
	if err != nil {
		return "", translateRuntimeError(err)
	}
	return s, nil
}

// ExpectedInputShape returns the shape Predict requires.
func (h *ModelHandle) ExpectedInputShape() tensor.Shape {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eng.ExpectedInputShape()
}
