// Package compiler turns a freshly-built or freshly-loaded Sequential
// model into a CompiledModel: a model optimized for repeated inference
// against one fixed input shape, with one non-aliasing buffer
// pre-allocated per layer.
package compiler

import (
	"fmt"

	"github.com/HamoodiM/TitanInfer/model"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// Options controls which optimization passes Compile applies.
type Options struct {
	EnableFusion      bool
	EnableQuantization bool
}

// DefaultOptions enables fusion but not quantization. The zero Options
// value enables neither pass.
func DefaultOptions() Options {
	return Options{EnableFusion: true, EnableQuantization: false}
}

// CompiledModel is a Sequential frozen against one input shape, with a
// dedicated output buffer per layer that is reused across Predict calls;
// each Predict still returns a fresh copy of the final layer's buffer.
type CompiledModel struct {
	model      *model.Sequential
	inputShape tensor.Shape
	buffers    []*tensor.Tensor
}

// Compile runs clone -> fuse -> quantize -> buffer pre-allocation
// against m and returns the result. m is never modified. inputShape is
// the shape every future Predict call must match exactly.
func Compile(m *model.Sequential, inputShape tensor.Shape, opts Options) (*CompiledModel, error) {
	if m.Len() == 0 {
		return nil, fmt.Errorf("compiler: cannot compile an empty model")
	}

	compiled := m.Clone()

	if opts.EnableFusion {
		compiled = applyFusion(compiled)
	}
	if opts.EnableQuantization {
		quantized, err := applyQuantization(compiled)
		if err != nil {
			return nil, fmt.Errorf("compiler: quantization: %w", err)
		}
		compiled = quantized
	}

	buffers := make([]*tensor.Tensor, compiled.Len())
	shape := inputShape
	for i := 0; i < compiled.Len(); i++ {
		l := compiled.Layer(i)
		next, err := l.OutputShape(shape)
		if err != nil {
			return nil, fmt.Errorf("compiler: layer %d (%s): %w", i, l.Name(), err)
		}
		buf, err := tensor.New(next)
		if err != nil {
			return nil, fmt.Errorf("compiler: layer %d (%s): %w", i, l.Name(), err)
		}
		buffers[i] = buf
		shape = next
	}

	return &CompiledModel{model: compiled, inputShape: inputShape, buffers: buffers}, nil
}

// InputShape returns the shape Predict expects.
func (c *CompiledModel) InputShape() tensor.Shape { return c.inputShape }

// LayerCount returns the number of layers in the compiled plan (after
// fusion and quantization, which can change the count and kinds).
func (c *CompiledModel) LayerCount() int { return c.model.Len() }

// Summary formats the compiled layer plan the same way Sequential.Summary does.
func (c *CompiledModel) Summary() (string, error) {
	return c.model.Summary(c.inputShape)
}

// Predict validates input against InputShape, runs it through every
// compiled layer using the pre-allocated buffer chain, and returns a
// fresh copy of the final buffer's contents so the caller owns the result
// independent of future Predict calls.
func (c *CompiledModel) Predict(input *tensor.Tensor) (*tensor.Tensor, error) {
	if !input.Shape().Equal(c.inputShape) {
		return nil, fmt.Errorf("compiler: input shape %v does not match compiled shape %v", []int(input.Shape()), []int(c.inputShape))
	}

	current := input
	for i := 0; i < c.model.Len(); i++ {
		l := c.model.Layer(i)
		dst := c.buffers[i]
		if err := l.Forward(current, dst); err != nil {
			return nil, fmt.Errorf("compiler: layer %d (%s): %w", i, l.Name(), err)
		}
		current = dst
	}
	return current.Copy(), nil
}
