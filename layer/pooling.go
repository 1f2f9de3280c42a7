package layer

import (
	"fmt"

	"github.com/HamoodiM/TitanInfer/kernels"
	"github.com/HamoodiM/TitanInfer/tensor"
)

type poolOp func(input *tensor.Tensor, kH, kW, sH, sW, padTop, padLeft, outH, outW int, output *tensor.Tensor) error

// pooling is the shared implementation behind MaxPool2D and AvgPool2D: a
// kH×kW window reduction over a 3-D (C,H,W) input. Stride defaults to
// kernel size when zero is passed. Padding is a single non-negative
// amount applied to every side (top/bottom/left/right alike), matching
// the serialized on-disk format's single `padding` field — there is no
// VALID/SAME mode switch at this layer as there is for Conv2D.
type pooling struct {
	name    string
	kH, kW  int
	sH, sW  int
	padding int
	op      poolOp
}

func newPooling(name string, kH, kW, sH, sW, padding int, op poolOp) (*pooling, error) {
	if kH <= 0 || kW <= 0 {
		return nil, fmt.Errorf("layer: %s: kernel size must be positive", name)
	}
	if sH == 0 {
		sH = kH
	}
	if sW == 0 {
		sW = kW
	}
	if sH < 0 || sW < 0 {
		return nil, fmt.Errorf("layer: %s: stride must be non-negative", name)
	}
	if padding < 0 {
		return nil, fmt.Errorf("layer: %s: padding must be non-negative", name)
	}
	return &pooling{name: name, kH: kH, kW: kW, sH: sH, sW: sW, padding: padding, op: op}, nil
}

func (p *pooling) Name() string        { return p.name }
func (p *pooling) ParameterCount() int { return 0 }

// KernelSize, Stride, and Padding expose the pooling window geometry for
// callers (e.g. package serialize) that need to persist it. Height and
// width are independent internally, but the on-disk format stores a
// single square kernel/stride pair.
func (p *pooling) KernelSize() (kH, kW int)  { return p.kH, p.kW }
func (p *pooling) Stride() (sH, sW int)      { return p.sH, p.sW }
func (p *pooling) Padding() int              { return p.padding }

func (p *pooling) spatialOut(h, w int) (outH, outW int) {
	outH = kernels.OutputSize(h, p.kH, p.sH, p.padding)
	outW = kernels.OutputSize(w, p.kW, p.sW, p.padding)
	return
}

func (p *pooling) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if len(inputShape) != 3 {
		return nil, fmt.Errorf("layer: %s: expected 3D (C,H,W) input, got rank %d", p.name, len(inputShape))
	}
	c, h, w := inputShape[0], inputShape[1], inputShape[2]
	outH, outW := p.spatialOut(h, w)
	return tensor.Shape{c, outH, outW}, nil
}

func (p *pooling) Forward(input, output *tensor.Tensor) error {
	shape := input.Shape()
	if len(shape) != 3 {
		return fmt.Errorf("layer: %s: expected 3D (C,H,W) input, got rank %d", p.name, len(shape))
	}
	h, w := shape[1], shape[2]
	outH, outW := p.spatialOut(h, w)
	return p.op(input, p.kH, p.kW, p.sH, p.sW, p.padding, p.padding, outH, outW, output)
}

// MaxPool2D selects the maximum value in each window; padded positions
// are treated as -Inf and never selected over a real pixel.
type MaxPool2D struct{ pooling }

// NewMaxPool2D constructs a MaxPool2D layer. A stride of 0 defaults to
// the kernel size.
func NewMaxPool2D(kH, kW, sH, sW, padding int) (*MaxPool2D, error) {
	p, err := newPooling("MaxPool2D", kH, kW, sH, sW, padding, kernels.MaxPool2D)
	if err != nil {
		return nil, err
	}
	return &MaxPool2D{*p}, nil
}

func (m *MaxPool2D) Clone() Layer {
	p := m.pooling
	return &MaxPool2D{p}
}

// AvgPool2D averages each window, dividing by the full kernel area
// regardless of how many positions in the window are real (vs padded).
type AvgPool2D struct{ pooling }

// NewAvgPool2D constructs an AvgPool2D layer. A stride of 0 defaults to
// the kernel size.
func NewAvgPool2D(kH, kW, sH, sW, padding int) (*AvgPool2D, error) {
	p, err := newPooling("AvgPool2D", kH, kW, sH, sW, padding, kernels.AvgPool2D)
	if err != nil {
		return nil, err
	}
	return &AvgPool2D{*p}, nil
}

func (a *AvgPool2D) Clone() Layer {
	p := a.pooling
	return &AvgPool2D{p}
}
