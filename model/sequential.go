// Package model provides Sequential, the owned-layer container that
// chains layer.Layer forward passes with double-buffered (ping-pong)
// intermediate storage.
package model

import (
	"fmt"
	"strings"

	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// Sequential owns an ordered list of layers and forwards through them
// using two alternating buffers: layer 0 writes buffer A, layer 1 reads
// A and writes B, layer 2 reads B and writes A, and so on. Each layer's
// Forward auto-grows its receiving buffer via tensor.EnsureShape when the
// shape differs, so Sequential itself never pre-sizes anything.
//
// The compiler package overrides this scheme with one buffer per layer
// (no aliasing) when it pre-allocates a compiled model's buffers.
type Sequential struct {
	layers  []layer.Layer
	bufferA *tensor.Tensor
	bufferB *tensor.Tensor
}

// NewSequential constructs a Sequential from an ordered list of layers.
func NewSequential(layers ...layer.Layer) *Sequential {
	return &Sequential{
		layers:  layers,
		bufferA: tensor.MustNew(tensor.Shape{1}),
		bufferB: tensor.MustNew(tensor.Shape{1}),
	}
}

// Len returns the number of layers.
func (s *Sequential) Len() int { return len(s.layers) }

// Layer returns the layer at index, panicking if out of bounds.
func (s *Sequential) Layer(index int) layer.Layer {
	if index < 0 || index >= len(s.layers) {
		panic(fmt.Sprintf("model: Sequential.Layer: index %d out of bounds (len %d)", index, len(s.layers)))
	}
	return s.layers[index]
}

// Add appends a layer to the end of the sequence.
func (s *Sequential) Add(l layer.Layer) {
	s.layers = append(s.layers, l)
}

// Forward runs input through every layer in order, ping-ponging between
// two internal buffers, and returns whichever buffer the last layer
// wrote to. An empty Sequential is an error — there is no layer to
// produce output.
func (s *Sequential) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if len(s.layers) == 0 {
		return nil, fmt.Errorf("model: sequential: cannot forward through an empty model")
	}

	current := input
	for i, l := range s.layers {
		dst := s.bufferFor(i)
		if err := l.Forward(current, dst); err != nil {
			return nil, fmt.Errorf("model: layer %d (%s): %w", i, l.Name(), err)
		}
		current = dst
	}
	return current, nil
}

// bufferFor returns bufferA for even layer indices, bufferB for odd —
// the ping-pong assignment described on Sequential.
func (s *Sequential) bufferFor(layerIndex int) *tensor.Tensor {
	if layerIndex%2 == 0 {
		return s.bufferA
	}
	return s.bufferB
}

// OutputShape infers the final output shape from a declared input shape
// by chaining each layer's OutputShape without running forward.
func (s *Sequential) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	shape := inputShape
	for i, l := range s.layers {
		next, err := l.OutputShape(shape)
		if err != nil {
			return nil, fmt.Errorf("model: layer %d (%s): %w", i, l.Name(), err)
		}
		shape = next
	}
	return shape, nil
}

// ParameterCount sums every layer's parameter count.
func (s *Sequential) ParameterCount() int {
	total := 0
	for _, l := range s.layers {
		total += l.ParameterCount()
	}
	return total
}

// Clone deep-clones every layer into a new, independent Sequential.
func (s *Sequential) Clone() *Sequential {
	cloned := make([]layer.Layer, len(s.layers))
	for i, l := range s.layers {
		cloned[i] = l.Clone()
	}
	return NewSequential(cloned...)
}

// Summary formats, for each layer, its name, inferred output shape, and
// parameter count, followed by a total parameter count — the shape
// chain is inferred from inputShape the same way OutputShape computes it.
func (s *Sequential) Summary(inputShape tensor.Shape) (string, error) {
	var b strings.Builder
	shape := inputShape
	total := 0
	for i, l := range s.layers {
		next, err := l.OutputShape(shape)
		if err != nil {
			return "", fmt.Errorf("model: layer %d (%s): %w", i, l.Name(), err)
		}
		fmt.Fprintf(&b, "%d: %-20s output=%-20v params=%d\n", i, l.Name(), []int(next), l.ParameterCount())
		total += l.ParameterCount()
		shape = next
	}
	fmt.Fprintf(&b, "total params: %d\n", total)
	return b.String(), nil
}
