package layer

import (
	"github.com/HamoodiM/TitanInfer/kernels"
	"github.com/HamoodiM/TitanInfer/tensor"
)

type activationFunc func(input, output *tensor.Tensor) error

// activation wraps a kernels elementwise op as a shape-preserving Layer.
// The four exported activation types below are thin named wrappers so
// Name() and Clone() report the concrete variant.
type activation struct {
	name string
	fn   activationFunc
}

func (a *activation) Name() string           { return a.name }
func (a *activation) ParameterCount() int    { return 0 }
func (a *activation) Forward(in, out *tensor.Tensor) error { return a.fn(in, out) }

func (a *activation) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	return inputShape.Clone(), nil
}

func (a *activation) Clone() Layer { return &activation{name: a.name, fn: a.fn} }

// ReLU applies max(0, x) elementwise.
type ReLU struct{ activation }

// NewReLU constructs a ReLU layer.
func NewReLU() *ReLU { return &ReLU{activation{name: "ReLU", fn: kernels.ReLU}} }

func (r *ReLU) Clone() Layer { return NewReLU() }

// Sigmoid applies the logistic function elementwise.
type Sigmoid struct{ activation }

// NewSigmoid constructs a Sigmoid layer.
func NewSigmoid() *Sigmoid { return &Sigmoid{activation{name: "Sigmoid", fn: kernels.Sigmoid}} }

func (s *Sigmoid) Clone() Layer { return NewSigmoid() }

// Tanh applies the hyperbolic tangent elementwise.
type Tanh struct{ activation }

// NewTanh constructs a Tanh layer.
func NewTanh() *Tanh { return &Tanh{activation{name: "Tanh", fn: kernels.Tanh}} }

func (t *Tanh) Clone() Layer { return NewTanh() }

// Softmax applies a numerically stabilized softmax along the last axis
// of a rank-1 or rank-2 input.
type Softmax struct{ activation }

// NewSoftmax constructs a Softmax layer.
func NewSoftmax() *Softmax { return &Softmax{activation{name: "Softmax", fn: kernels.Softmax}} }

func (s *Softmax) Clone() Layer { return NewSoftmax() }
