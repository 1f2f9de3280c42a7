package layer

import (
	"fmt"

	"github.com/HamoodiM/TitanInfer/kernels"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// QuantizedDense is an int8-quantized Dense layer: built from a trained
// Dense by transposing its weight matrix to (in, out) and quantizing it
// once at construction time. Bias stays floating-point. Forward
// quantizes the input per call, runs an int8 GEMM, and adds bias to the
// dequantized result — accuracy is bounded by the per-tensor
// quantization error of both the weight and the input.
type QuantizedDense struct {
	inFeatures  int
	outFeatures int
	hasBias     bool
	weight      *tensor.QuantizedTensor // (in, out)
	bias        *tensor.Tensor          // (out,)
}

// NewQuantizedDenseFromDense quantizes d's weights (transposed to
// (in, out)) and copies its bias, if present.
func NewQuantizedDenseFromDense(d *Dense) (*QuantizedDense, error) {
	transposed := tensor.MustNew(tensor.Shape{d.InFeatures(), d.OutFeatures()})
	if err := kernels.Transpose(d.Weights(), transposed); err != nil {
		return nil, err
	}
	q := &QuantizedDense{
		inFeatures:  d.InFeatures(),
		outFeatures: d.OutFeatures(),
		hasBias:     d.HasBias(),
		weight:      tensor.Quantize(transposed),
	}
	if d.HasBias() {
		q.bias = d.Bias().Copy()
	}
	return q, nil
}

func (q *QuantizedDense) Name() string     { return "QuantizedDense" }
func (q *QuantizedDense) InFeatures() int  { return q.inFeatures }
func (q *QuantizedDense) OutFeatures() int { return q.outFeatures }
func (q *QuantizedDense) HasBias() bool    { return q.hasBias }

func (q *QuantizedDense) ParameterCount() int {
	n := q.inFeatures * q.outFeatures
	if q.hasBias {
		n += q.outFeatures
	}
	return n
}

func (q *QuantizedDense) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	switch len(inputShape) {
	case 1:
		if inputShape[0] != q.inFeatures {
			return nil, fmt.Errorf("layer: quantized_dense: expected input feature size %d, got %d", q.inFeatures, inputShape[0])
		}
		return tensor.Shape{q.outFeatures}, nil
	case 2:
		if inputShape[1] != q.inFeatures {
			return nil, fmt.Errorf("layer: quantized_dense: expected input feature size %d, got %d", q.inFeatures, inputShape[1])
		}
		return tensor.Shape{inputShape[0], q.outFeatures}, nil
	default:
		return nil, fmt.Errorf("layer: quantized_dense: expected rank 1 or 2 input, got rank %d", len(inputShape))
	}
}

func (q *QuantizedDense) Forward(input, output *tensor.Tensor) error {
	switch input.Rank() {
	case 1:
		return q.forward1D(input, output)
	case 2:
		return q.forward2D(input, output)
	default:
		return fmt.Errorf("layer: quantized_dense: expected rank 1 or 2 input, got rank %d", input.Rank())
	}
}

func (q *QuantizedDense) forward1D(input, output *tensor.Tensor) error {
	if input.Shape()[0] != q.inFeatures {
		return fmt.Errorf("layer: quantized_dense: expected input feature size %d, got %d", q.inFeatures, input.Shape()[0])
	}
	rowView, err := tensor.View(input, tensor.Shape{1, q.inFeatures})
	if err != nil {
		return err
	}
	qx := tensor.Quantize(rowView)

	result := tensor.MustNew(tensor.Shape{1, q.outFeatures})
	if err := kernels.GEMMInt8(qx, q.weight, result); err != nil {
		return err
	}

	output.EnsureShape(tensor.Shape{q.outFeatures})
	out := output.Data()
	copy(out, result.Data())
	if q.hasBias {
		bias := q.bias.Data()
		for i := range out {
			out[i] += bias[i]
		}
	}
	return nil
}

func (q *QuantizedDense) forward2D(input, output *tensor.Tensor) error {
	shape := input.Shape()
	if shape[1] != q.inFeatures {
		return fmt.Errorf("layer: quantized_dense: expected input feature size %d, got %d", q.inFeatures, shape[1])
	}
	batch := shape[0]
	qx := tensor.Quantize(input)

	result := tensor.MustNew(tensor.Shape{batch, q.outFeatures})
	if err := kernels.GEMMInt8(qx, q.weight, result); err != nil {
		return err
	}

	output.EnsureShape(tensor.Shape{batch, q.outFeatures})
	out := output.Data()
	copy(out, result.Data())
	if q.hasBias {
		bias := q.bias.Data()
		for b := 0; b < batch; b++ {
			row := out[b*q.outFeatures : b*q.outFeatures+q.outFeatures]
			for i, v := range row {
				row[i] = v + bias[i]
			}
		}
	}
	return nil
}

func (q *QuantizedDense) Clone() Layer {
	out := &QuantizedDense{inFeatures: q.inFeatures, outFeatures: q.outFeatures, hasBias: q.hasBias}
	out.weight = q.weight.Copy()
	if q.hasBias {
		out.bias = q.bias.Copy()
	}
	return out
}
