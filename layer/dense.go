package layer

import (
	"fmt"

	"github.com/HamoodiM/TitanInfer/tensor"
)

// Dense is a fully-connected layer: y = W·x + b for 1-D input, or
// Y = X·Wᵀ + b (bias broadcast over the batch) for 2-D input. W has
// shape (out, in); b, if present, has shape (out,).
type Dense struct {
	inFeatures  int
	outFeatures int
	hasBias     bool
	weights     *tensor.Tensor // (out, in)
	bias        *tensor.Tensor // (out,)
}

// NewDense allocates a zero-initialized Dense layer. Callers populate
// Weights()/Bias() before use (via SetWeights/SetBias or the
// serialization reader).
func NewDense(inFeatures, outFeatures int, hasBias bool) (*Dense, error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("layer: dense: in_features and out_features must be positive, got %d, %d", inFeatures, outFeatures)
	}
	weights, err := tensor.New(tensor.Shape{outFeatures, inFeatures})
	if err != nil {
		return nil, err
	}
	d := &Dense{inFeatures: inFeatures, outFeatures: outFeatures, hasBias: hasBias, weights: weights}
	if hasBias {
		bias, err := tensor.New(tensor.Shape{outFeatures})
		if err != nil {
			return nil, err
		}
		d.bias = bias
	}
	return d, nil
}

// SetWeights replaces the weight tensor; it must already have shape
// (out, in).
func (d *Dense) SetWeights(w *tensor.Tensor) error {
	if !w.Shape().Equal(tensor.Shape{d.outFeatures, d.inFeatures}) {
		return fmt.Errorf("layer: dense: weight shape %v does not match (%d, %d)", []int(w.Shape()), d.outFeatures, d.inFeatures)
	}
	d.weights = w
	return nil
}

// SetBias replaces the bias tensor; it must already have shape (out,).
// Calling it on a layer constructed with hasBias=false enables the bias.
func (d *Dense) SetBias(b *tensor.Tensor) error {
	if !b.Shape().Equal(tensor.Shape{d.outFeatures}) {
		return fmt.Errorf("layer: dense: bias shape %v does not match (%d,)", []int(b.Shape()), d.outFeatures)
	}
	d.bias = b
	d.hasBias = true
	return nil
}

func (d *Dense) Weights() *tensor.Tensor { return d.weights }
func (d *Dense) Bias() *tensor.Tensor    { return d.bias }
func (d *Dense) InFeatures() int         { return d.inFeatures }
func (d *Dense) OutFeatures() int        { return d.outFeatures }
func (d *Dense) HasBias() bool           { return d.hasBias }

func (d *Dense) Name() string { return "Dense" }

func (d *Dense) ParameterCount() int {
	n := d.outFeatures * d.inFeatures
	if d.hasBias {
		n += d.outFeatures
	}
	return n
}

func (d *Dense) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	switch len(inputShape) {
	case 1:
		if inputShape[0] != d.inFeatures {
			return nil, fmt.Errorf("layer: dense: expected input feature size %d, got %d", d.inFeatures, inputShape[0])
		}
		return tensor.Shape{d.outFeatures}, nil
	case 2:
		if inputShape[1] != d.inFeatures {
			return nil, fmt.Errorf("layer: dense: expected input feature size %d, got %d", d.inFeatures, inputShape[1])
		}
		return tensor.Shape{inputShape[0], d.outFeatures}, nil
	default:
		return nil, fmt.Errorf("layer: dense: expected rank 1 or 2 input, got rank %d", len(inputShape))
	}
}

func (d *Dense) Forward(input, output *tensor.Tensor) error {
	switch input.Rank() {
	case 1:
		return d.forward1D(input, output)
	case 2:
		return d.forward2D(input, output)
	default:
		return fmt.Errorf("layer: dense: expected rank 1 or 2 input, got rank %d", input.Rank())
	}
}

func (d *Dense) forward1D(input, output *tensor.Tensor) error {
	if input.Shape()[0] != d.inFeatures {
		return fmt.Errorf("layer: dense: expected input feature size %d, got %d", d.inFeatures, input.Shape()[0])
	}
	output.EnsureShape(tensor.Shape{d.outFeatures})
	out := output.Data()
	w := d.weights.Data()
	x := input.Data()
	for o := 0; o < d.outFeatures; o++ {
		row := w[o*d.inFeatures : o*d.inFeatures+d.inFeatures]
		var sum float32
		for i, v := range row {
			sum += v * x[i]
		}
		if d.hasBias {
			sum += d.bias.Data()[o]
		}
		out[o] = sum
	}
	return nil
}

func (d *Dense) forward2D(input, output *tensor.Tensor) error {
	shape := input.Shape()
	if shape[1] != d.inFeatures {
		return fmt.Errorf("layer: dense: expected input feature size %d, got %d", d.inFeatures, shape[1])
	}
	batch := shape[0]
	output.EnsureShape(tensor.Shape{batch, d.outFeatures})
	out := output.Data()
	w := d.weights.Data()
	x := input.Data()

	for b := 0; b < batch; b++ {
		xRow := x[b*d.inFeatures : b*d.inFeatures+d.inFeatures]
		outRow := out[b*d.outFeatures : b*d.outFeatures+d.outFeatures]
		for o := 0; o < d.outFeatures; o++ {
			wRow := w[o*d.inFeatures : o*d.inFeatures+d.inFeatures]
			var sum float32
			for i, v := range wRow {
				sum += v * xRow[i]
			}
			if d.hasBias {
				sum += d.bias.Data()[o]
			}
			outRow[o] = sum
		}
	}
	return nil
}

func (d *Dense) Clone() Layer {
	out := &Dense{inFeatures: d.inFeatures, outFeatures: d.outFeatures, hasBias: d.hasBias}
	out.weights = d.weights.Copy()
	if d.hasBias {
		out.bias = d.bias.Copy()
	}
	return out
}
