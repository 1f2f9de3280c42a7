// Command cabi is the cgo-exported, opaque-handle C ABI for TitanInfer,
// mirroring titaninfer_c.h/titaninfer_c.cpp operation-for-operation and
// status-code-for-status-code so existing C, Python ctypes, or Rust
// bindgen callers built against that header need no changes beyond
// relinking against this library.
//
// Build as a shared library with:
//
//	go build -buildmode=c-shared -o libtitaninfer.so ./cabi
//
// All exceptions the original surface could throw become translated
// status codes here; nothing panics across the cgo boundary except a
// genuine bug, which is left to crash loudly rather than corrupt C
// caller state.
package main

/*
#include <stddef.h>
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime/cgo"
	"sync"
	"unsafe"

	titaninfer "github.com/HamoodiM/TitanInfer"
	"github.com/HamoodiM/TitanInfer/internal/logging"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// Status codes, numbered exactly as titaninfer_c.h's #defines.
const (
	StatusOK              = 0
	StatusLoadError       = 1
	StatusInferenceError  = 2
	StatusValidationError = 3
	StatusInvalidArgument = 4
)

// model is what a cgo.Handle actually points at: the public ModelHandle
// plus the per-handle last-error string the C surface exposes through
// titaninfer_last_error. A mutex guards lastErrorC since predict and
// last_error may race on the C side the way the original's std::string
// member does under the handle's own internal mutex.
type model struct {
	handle *titaninfer.ModelHandle

	mu         sync.Mutex
	lastErrorC *C.char
}

func (m *model) setError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastErrorC != nil {
		C.free(unsafe.Pointer(m.lastErrorC))
	}
	if msg == "" {
		m.lastErrorC = nil
		return
	}
	m.lastErrorC = C.CString(msg)
}

func lookup(h C.uintptr_t) *model {
	if h == 0 {
		return nil
	}
	v, ok := cgo.Handle(h).Value().(*model)
	if !ok {
		return nil
	}
	return v
}

//export titaninfer_load
func titaninfer_load(modelPath *C.char, inputShape *C.size_t, shapeLen C.size_t) C.uintptr_t {
	if modelPath == nil {
		return 0
	}
	builder := titaninfer.NewBuilder().
		ModelPath(C.GoString(modelPath)).
		LogLevel(logging.Silent)

	if inputShape != nil && shapeLen > 0 {
		n := int(shapeLen)
		raw := unsafe.Slice(inputShape, n)
		shape := make(tensor.Shape, n)
		for i, d := range raw {
			shape[i] = int(d)
		}
		builder.InputShape(shape)
	}

	h, err := builder.Build()
	if err != nil {
		return 0
	}
	return C.uintptr_t(cgo.NewHandle(&model{handle: h}))
}

//export titaninfer_free
func titaninfer_free(h C.uintptr_t) {
	m := lookup(h)
	if m == nil {
		return
	}
	m.setError("")
	cgo.Handle(h).Delete()
}

//export titaninfer_predict
func titaninfer_predict(h C.uintptr_t, inputData *C.float, inputLen C.size_t, outputData *C.float, outputLen C.size_t, actualOutputLen *C.size_t) C.int {
	m := lookup(h)
	if m == nil || inputData == nil || outputData == nil || actualOutputLen == nil {
		if m != nil {
			m.setError("null pointer argument")
		}
		return StatusInvalidArgument
	}

	shape := m.handle.ExpectedInputShape()
	input := tensor.MustNew(shape)
	if int(inputLen) != input.Size() {
		m.setError(fmt.Sprintf("input length %d does not match expected %d", int(inputLen), input.Size()))
		return StatusValidationError
	}
	src := unsafe.Slice((*float32)(unsafe.Pointer(inputData)), int(inputLen))
	copy(input.Data(), src)

	result, err := m.handle.Predict(input)
	if err != nil {
		m.setError(err.Error())
		return statusFor(err)
	}

	*actualOutputLen = C.size_t(result.Size())
	if int(outputLen) < result.Size() {
		m.setError(fmt.Sprintf("output buffer too small: need %d, got %d", result.Size(), int(outputLen)))
		return StatusInvalidArgument
	}
	dst := unsafe.Slice((*float32)(unsafe.Pointer(outputData)), result.Size())
	copy(dst, result.Data())
	m.setError("")
	return StatusOK
}

func statusFor(err error) C.int {
	var tiErr *titaninfer.Error
	if errors.As(err, &tiErr) && tiErr.Kind == titaninfer.KindValidation {
		return StatusValidationError
	}
	return StatusInferenceError
}

//export titaninfer_last_error
func titaninfer_last_error(h C.uintptr_t) *C.char {
	m := lookup(h)
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErrorC
}

//export titaninfer_layer_count
func titaninfer_layer_count(h C.uintptr_t) C.size_t {
	m := lookup(h)
	if m == nil {
		return 0
	}
	return C.size_t(m.handle.LayerCount())
}

//export titaninfer_is_loaded
func titaninfer_is_loaded(h C.uintptr_t) C.int {
	m := lookup(h)
	if m == nil || !m.handle.IsLoaded() {
		return 0
	}
	return 1
}

//export titaninfer_inference_count
func titaninfer_inference_count(h C.uintptr_t) C.int {
	m := lookup(h)
	if m == nil {
		return 0
	}
	return C.int(m.handle.Stats().InferenceCount)
}

//export titaninfer_mean_latency_ms
func titaninfer_mean_latency_ms(h C.uintptr_t) C.double {
	m := lookup(h)
	if m == nil {
		return 0
	}
	return C.double(float64(m.handle.Stats().MeanLatency.Microseconds()) / 1000.0)
}

func main() {}
