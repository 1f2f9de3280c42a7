package layer

import (
	"math"

	"github.com/HamoodiM/TitanInfer/tensor"
)

type elementwiseFn func(float32) float32

func reluFn(v float32) float32 {
	if v > 0 {
		return v
	}
	return 0
}

func sigmoidFn(v float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(v))))
}

// fusedDense holds its own copy of a Dense layer's weights/bias. Forward
// runs Dense's forward into output and then applies the elementwise
// activation in place over output, so no separate activation buffer is
// written; the activation is a second loop over output, not part of the
// matmul-plus-bias loop. Produced only by the compiler's fusion
// pass; semantics are identical to the unfused Dense-then-activation
// pair it replaces.
type fusedDense struct {
	name string
	act  elementwiseFn
	base Dense
}

// newFusedDense takes its own copy of d's parameters so the fused layer
// is independent of the Dense it was fused from, per the Clone contract
// every Layer honors.
func newFusedDense(name string, d *Dense, act elementwiseFn) *fusedDense {
	base := *d.Clone().(*Dense)
	return &fusedDense{name: name, act: act, base: base}
}

func (f *fusedDense) Name() string        { return f.name }
func (f *fusedDense) ParameterCount() int { return f.base.ParameterCount() }

func (f *fusedDense) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	return f.base.OutputShape(inputShape)
}

func (f *fusedDense) Forward(input, output *tensor.Tensor) error {
	if err := f.base.Forward(input, output); err != nil {
		return err
	}
	out := output.Data()
	for i, v := range out {
		out[i] = f.act(v)
	}
	return nil
}

// FusedDenseReLU performs Dense.Forward followed by ReLU applied in place
// on the output.
type FusedDenseReLU struct{ fusedDense }

// NewFusedDenseReLU fuses a Dense layer with a following ReLU.
func NewFusedDenseReLU(d *Dense) *FusedDenseReLU {
	return &FusedDenseReLU{*newFusedDense("FusedDenseReLU", d, reluFn)}
}

func (f *FusedDenseReLU) Clone() Layer {
	base := f.base.Clone().(*Dense)
	return &FusedDenseReLU{*newFusedDense("FusedDenseReLU", base, reluFn)}
}

// FusedDenseSigmoid performs Dense.Forward followed by Sigmoid applied in
// place on the output.
type FusedDenseSigmoid struct{ fusedDense }

// NewFusedDenseSigmoid fuses a Dense layer with a following Sigmoid.
func NewFusedDenseSigmoid(d *Dense) *FusedDenseSigmoid {
	return &FusedDenseSigmoid{*newFusedDense("FusedDenseSigmoid", d, sigmoidFn)}
}

func (f *FusedDenseSigmoid) Clone() Layer {
	base := f.base.Clone().(*Dense)
	return &FusedDenseSigmoid{*newFusedDense("FusedDenseSigmoid", base, sigmoidFn)}
}
