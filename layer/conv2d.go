package layer

import (
	"fmt"

	"github.com/HamoodiM/TitanInfer/internal/parallel"
	"github.com/HamoodiM/TitanInfer/kernels"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// Conv2D is a 2-D convolution: weights have shape (outC, inC, kH, kW),
// viewed row-major as a dense (outC, inC*kH*kW) matrix so the forward
// pass reduces to im2col followed by a single matmul. Accepts a 3-D
// (inC, H, W) sample or a 4-D (N, inC, H, W) batch.
type Conv2D struct {
	inC, outC  int
	kH, kW     int
	sH, sW     int
	padding    kernels.PaddingMode
	hasBias    bool
	weights    *tensor.Tensor // (outC, inC, kH, kW)
	weightsMat *tensor.Tensor // view of weights as (outC, inC*kH*kW)
	bias       *tensor.Tensor // (outC,)
}

// NewConv2D allocates a zero-initialized Conv2D layer.
func NewConv2D(inC, outC, kH, kW, sH, sW int, padding kernels.PaddingMode, hasBias bool) (*Conv2D, error) {
	if inC <= 0 || outC <= 0 || kH <= 0 || kW <= 0 || sH <= 0 || sW <= 0 {
		return nil, fmt.Errorf("layer: conv2d: channel, kernel, and stride dimensions must be positive")
	}
	weights, err := tensor.New(tensor.Shape{outC, inC, kH, kW})
	if err != nil {
		return nil, err
	}
	c := &Conv2D{inC: inC, outC: outC, kH: kH, kW: kW, sH: sH, sW: sW, padding: padding, hasBias: hasBias, weights: weights}
	if err := c.refreshWeightsView(); err != nil {
		return nil, err
	}
	if hasBias {
		bias, err := tensor.New(tensor.Shape{outC})
		if err != nil {
			return nil, err
		}
		c.bias = bias
	}
	return c, nil
}

func (c *Conv2D) refreshWeightsView() error {
	view, err := tensor.View(c.weights, tensor.Shape{c.outC, c.inC * c.kH * c.kW})
	if err != nil {
		return err
	}
	c.weightsMat = view
	return nil
}

func (c *Conv2D) SetWeights(w *tensor.Tensor) error {
	if !w.Shape().Equal(tensor.Shape{c.outC, c.inC, c.kH, c.kW}) {
		return fmt.Errorf("layer: conv2d: weight shape %v does not match (%d,%d,%d,%d)", []int(w.Shape()), c.outC, c.inC, c.kH, c.kW)
	}
	c.weights = w
	return c.refreshWeightsView()
}

func (c *Conv2D) SetBias(b *tensor.Tensor) error {
	if !b.Shape().Equal(tensor.Shape{c.outC}) {
		return fmt.Errorf("layer: conv2d: bias shape %v does not match (%d,)", []int(b.Shape()), c.outC)
	}
	c.bias = b
	c.hasBias = true
	return nil
}

func (c *Conv2D) Weights() *tensor.Tensor      { return c.weights }
func (c *Conv2D) Bias() *tensor.Tensor         { return c.bias }
func (c *Conv2D) InChannels() int              { return c.inC }
func (c *Conv2D) OutChannels() int             { return c.outC }
func (c *Conv2D) HasBias() bool                { return c.hasBias }
func (c *Conv2D) Padding() kernels.PaddingMode  { return c.padding }
func (c *Conv2D) KH() int                      { return c.kH }
func (c *Conv2D) KW() int                      { return c.kW }
func (c *Conv2D) SH() int                      { return c.sH }
func (c *Conv2D) SW() int                      { return c.sW }
func (c *Conv2D) Name() string                 { return "Conv2D" }

func (c *Conv2D) ParameterCount() int {
	n := c.outC * c.inC * c.kH * c.kW
	if c.hasBias {
		n += c.outC
	}
	return n
}

// convOutputAndPad computes the output size and leading (top/left)
// padding for one spatial axis, per the VALID/SAME rules in spec.md §4.2.
func convOutputAndPad(input, kernel, stride int, padding kernels.PaddingMode) (outSize, padBefore int) {
	if padding == kernels.PaddingValid {
		return kernels.OutputSize(input, kernel, stride, 0), 0
	}
	total := kernels.SamePadding(input, kernel, stride)
	outSize = (input + stride - 1) / stride
	padBefore = total / 2
	return outSize, padBefore
}

func (c *Conv2D) spatialShape(inputShape tensor.Shape) (h, w int, err error) {
	switch len(inputShape) {
	case 3:
		if inputShape[0] != c.inC {
			return 0, 0, fmt.Errorf("layer: conv2d: expected %d input channels, got %d", c.inC, inputShape[0])
		}
		return inputShape[1], inputShape[2], nil
	case 4:
		if inputShape[1] != c.inC {
			return 0, 0, fmt.Errorf("layer: conv2d: expected %d input channels, got %d", c.inC, inputShape[1])
		}
		return inputShape[2], inputShape[3], nil
	default:
		return 0, 0, fmt.Errorf("layer: conv2d: expected 3D (C,H,W) or 4D (N,C,H,W) input, got rank %d", len(inputShape))
	}
}

func (c *Conv2D) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	h, w, err := c.spatialShape(inputShape)
	if err != nil {
		return nil, err
	}
	outH, _ := convOutputAndPad(h, c.kH, c.sH, c.padding)
	outW, _ := convOutputAndPad(w, c.kW, c.sW, c.padding)
	if len(inputShape) == 3 {
		return tensor.Shape{c.outC, outH, outW}, nil
	}
	return tensor.Shape{inputShape[0], c.outC, outH, outW}, nil
}

func (c *Conv2D) Forward(input, output *tensor.Tensor) error {
	shape := input.Shape()
	switch len(shape) {
	case 3:
		return c.forwardSample(input, output)
	case 4:
		return c.forwardBatch(input, output)
	default:
		return fmt.Errorf("layer: conv2d: expected 3D (C,H,W) or 4D (N,C,H,W) input, got rank %d", len(shape))
	}
}

func (c *Conv2D) forwardSample(input, output *tensor.Tensor) error {
	outShape, err := c.OutputShape(input.Shape())
	if err != nil {
		return err
	}
	output.EnsureShape(outShape)
	return c.convolveInto(input, output.Data(), outShape)
}

func (c *Conv2D) forwardBatch(input, output *tensor.Tensor) error {
	outShape, err := c.OutputShape(input.Shape())
	if err != nil {
		return err
	}
	output.EnsureShape(outShape)
	n := input.Shape()[0]
	sampleInShape := tensor.Shape{input.Shape()[1], input.Shape()[2], input.Shape()[3]}
	sampleOutShape := tensor.Shape{outShape[1], outShape[2], outShape[3]}
	sampleInSize := sampleInShape.Size()
	sampleOutSize := sampleOutShape.Size()
	in := input.Data()
	out := output.Data()

	errs := make([]error, n)
	parallel.For(n, func(b int) {
		sample := tensor.MustNew(sampleInShape)
		copy(sample.Data(), in[b*sampleInSize:b*sampleInSize+sampleInSize])
		errs[b] = c.convolveInto(sample, out[b*sampleOutSize:b*sampleOutSize+sampleOutSize], sampleOutShape)
	}, parallel.DefaultConfig())

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// convolveInto runs im2col + matmul for a single (C,H,W) sample, writing
// into outData which must already have len(sampleOutShape.Size()).
func (c *Conv2D) convolveInto(sample *tensor.Tensor, outData []float32, sampleOutShape tensor.Shape) error {
	h, w := sample.Shape()[1], sample.Shape()[2]
	outH, padTop := convOutputAndPad(h, c.kH, c.sH, c.padding)
	outW, padLeft := convOutputAndPad(w, c.kW, c.sW, c.padding)

	cols := tensor.MustNew(tensor.Shape{c.inC * c.kH * c.kW, outH * outW})
	if err := kernels.Im2Col(sample, c.kH, c.kW, c.sH, c.sW, padTop, padLeft, outH, outW, cols); err != nil {
		return err
	}

	result := tensor.MustNew(tensor.Shape{c.outC, outH * outW})
	if err := kernels.MatMul(c.weightsMat, cols, result); err != nil {
		return err
	}

	rd := result.Data()
	if c.hasBias {
		bd := c.bias.Data()
		spatial := outH * outW
		for oc := 0; oc < c.outC; oc++ {
			bias := bd[oc]
			row := rd[oc*spatial : oc*spatial+spatial]
			for i, v := range row {
				row[i] = v + bias
			}
		}
	}
	copy(outData, rd)
	return nil
}

func (c *Conv2D) Clone() Layer {
	out := &Conv2D{inC: c.inC, outC: c.outC, kH: c.kH, kW: c.kW, sH: c.sH, sW: c.sW, padding: c.padding, hasBias: c.hasBias}
	out.weights = c.weights.Copy()
	if err := out.refreshWeightsView(); err != nil {
		panic(err) // shapes are copied verbatim from c, always consistent
	}
	if c.hasBias {
		out.bias = c.bias.Copy()
	}
	return out
}
