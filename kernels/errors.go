// Package kernels implements the numeric building blocks every layer
// forwards through: dense matrix products (reference and blocked/SIMD),
// matvec, transpose, elementwise activations, im2col, pooling and int8
// GEMM. Every kernel follows the same contract:
//
//	op(inputs..., output *tensor.Tensor) error
//
// output is reallocated via Tensor.EnsureShape when its current shape
// doesn't match the computed result shape, and reused untouched otherwise.
// Shape or argument mismatches are reported as *InvalidArgumentError.
package kernels

import "fmt"

// InvalidArgumentError reports a kernel-level shape or parameter mismatch.
// The titaninfer package does not single this type out: at the
// model-handle boundary it is reported like any other forward-pass error.
type InvalidArgumentError struct {
	Op     string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("kernels: %s: %s", e.Op, e.Reason)
}

func invalidArg(op, format string, args ...any) error {
	return &InvalidArgumentError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
