// Package titaninfer is the public entry point into the inference
// engine: ModelHandle, a mutex-guarded façade safe to share across
// goroutines, its fluent Builder, and the structured error taxonomy
// every façade operation translates low-level failures into.
package titaninfer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/HamoodiM/TitanInfer/serialize"
)

// Kind is the top-level category of a *Error, mirroring the four error
// kinds a caller can recover from differently: a bad model file, a
// runtime inference failure, bad input, or a kernel-level argument
// mismatch.
type Kind int

const (
	KindModelLoad Kind = iota
	KindInference
	KindValidation
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindModelLoad:
		return "ModelLoad"
	case KindInference:
		return "Inference"
	case KindValidation:
		return "Validation"
	case KindInvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// SubKind is a machine-readable detail code within a Kind. Values are
// numbered in the same 100/200/300 ranges the original implementation's
// ErrorCode enum uses (model-load, inference, internal), so a caller
// porting error-handling logic from that surface can keep the same
// numeric comparisons.
type SubKind int

const (
	SubKindUnknown SubKind = 0

	FileNotFound  SubKind = 100
	InvalidFormat SubKind = 101
	EmptyModel    SubKind = 102

	NoModelLoaded SubKind = 200
	ShapeMismatch SubKind = 201
	NanInput      SubKind = 202

	InternalError SubKind = 300
)

func (s SubKind) String() string {
	switch s {
	case FileNotFound:
		return "FileNotFound"
	case InvalidFormat:
		return "InvalidFormat"
	case EmptyModel:
		return "EmptyModel"
	case NoModelLoaded:
		return "NoModelLoaded"
	case ShapeMismatch:
		return "ShapeMismatch"
	case NanInput:
		return "NanInput"
	case InternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error is the structured error every public ModelHandle/Builder
// operation returns on failure. Kind and Sub are machine-readable; Err
// is the wrapped low-level cause and is reachable via errors.Unwrap/
// errors.Is/errors.As.
type Error struct {
	Kind Kind
	Sub  SubKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("titaninfer: %s/%s: %s", e.Kind, e.Sub, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, sub SubKind, cause error) *Error {
	return &Error{Kind: kind, Sub: sub, Err: cause}
}

// translateLoadError maps a construction-time failure (file open,
// parsing, empty model, missing Dense layer to infer a shape from) into
// the public ModelLoad taxonomy. Kernel/tensor errors are not expected
// here — they only ever surface from Predict.
func translateLoadError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return newError(KindModelLoad, FileNotFound, err)
	}

	var formatErr *serialize.FormatError
	if errors.As(err, &formatErr) ||
		errors.Is(err, serialize.ErrInvalidMagic) ||
		errors.Is(err, serialize.ErrUnsupportedVersion) ||
		errors.Is(err, serialize.ErrUnknownLayerType) ||
		errors.Is(err, serialize.ErrTruncated) {
		return newError(KindModelLoad, InvalidFormat, err)
	}

	msg := err.Error()
	if strings.Contains(msg, "no layers") || strings.Contains(msg, "cannot infer input shape") {
		return newError(KindModelLoad, EmptyModel, err)
	}

	return newError(KindModelLoad, InvalidFormat, err)
}

// translateRuntimeError maps a Predict/PredictBatch/Summary failure into
// the public Inference/Validation taxonomy. Everything that is not
// recognizably a validation failure is reported as Inference/InternalError,
// per spec: InvalidArgument kernel errors propagate as Inference unless
// the handle recognizes them as validation.
func translateRuntimeError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "no model loaded"):
		return newError(KindInference, NoModelLoaded, err)
	case strings.Contains(msg, "expected input shape"):
		return newError(KindValidation, ShapeMismatch, err)
	case strings.Contains(msg, "contains NaN"):
		return newError(KindValidation, NanInput, err)
	default:
		return newError(KindInference, InternalError, err)
	}
}
