// Package layer implements the composable forward-pass units a Sequential
// model chains together: Dense, the activation layers, Conv2D, pooling,
// Flatten, and the fused/quantized variants the compiler package produces.
//
// There is no backward(), no parameters()-for-optimizer, no train/eval
// mode switch — this is an inference-only engine, not a training
// framework.
package layer

import "github.com/HamoodiM/TitanInfer/tensor"

// Layer is the uniform interface every forward-pass unit implements.
// Forward reads input (left untouched) and writes output, reallocating
// output via tensor.EnsureShape only when its current shape doesn't
// already match OutputShape(input.Shape()).
type Layer interface {
	// Forward computes this layer's output from input.
	Forward(input *tensor.Tensor, output *tensor.Tensor) error

	// Name is a human-readable identifier used in summaries and errors.
	Name() string

	// ParameterCount is the number of learnable scalars this layer owns
	// (0 for activation/shape-only layers).
	ParameterCount() int

	// OutputShape infers this layer's output shape from an input shape
	// without running forward, used by Sequential.Summary and the
	// compiler's pre-allocation pass.
	OutputShape(inputShape tensor.Shape) (tensor.Shape, error)

	// Clone returns an independent copy with its own parameter storage,
	// so mutating the clone (e.g. during compilation) never affects the
	// original.
	Clone() Layer
}
