package kernels

import (
	"math"

	"github.com/HamoodiM/TitanInfer/tensor"
)

// ReLU computes max(0, x) elementwise.
func ReLU(input *tensor.Tensor, output *tensor.Tensor) error {
	output.EnsureShape(input.Shape())
	in, out := input.Data(), output.Data()
	for i, v := range in {
		if v > 0 {
			out[i] = v
		} else {
			out[i] = 0
		}
	}
	return nil
}

// Sigmoid computes 1/(1+exp(-x)) elementwise.
func Sigmoid(input *tensor.Tensor, output *tensor.Tensor) error {
	output.EnsureShape(input.Shape())
	in, out := input.Data(), output.Data()
	for i, v := range in {
		out[i] = float32(1 / (1 + math.Exp(-float64(v))))
	}
	return nil
}

// Tanh wraps the standard library's hyperbolic tangent.
func Tanh(input *tensor.Tensor, output *tensor.Tensor) error {
	output.EnsureShape(input.Shape())
	in, out := input.Data(), output.Data()
	for i, v := range in {
		out[i] = float32(math.Tanh(float64(v)))
	}
	return nil
}

// Softmax is numerically stabilized by subtracting the row (or, for 1D
// input, tensor-wide) max before exponentiating. Rank >= 3 is rejected.
func Softmax(input *tensor.Tensor, output *tensor.Tensor) error {
	shape := input.Shape()
	switch len(shape) {
	case 1:
		output.EnsureShape(shape)
		softmaxRow(input.Data(), output.Data())
		return nil
	case 2:
		output.EnsureShape(shape)
		rows, cols := shape[0], shape[1]
		in, out := input.Data(), output.Data()
		for r := 0; r < rows; r++ {
			softmaxRow(in[r*cols:r*cols+cols], out[r*cols:r*cols+cols])
		}
		return nil
	default:
		return invalidArg("softmax", "rank %d not supported (must be 1 or 2)", len(shape))
	}
}

func softmaxRow(in, out []float32) {
	if len(in) == 0 {
		return
	}
	max := in[0]
	for _, v := range in {
		if v > max {
			max = v
		}
	}
	var sum float32
	for i, v := range in {
		e := float32(math.Exp(float64(v - max)))
		out[i] = e
		sum += e
	}
	inv := 1 / sum
	for i := range out {
		out[i] *= inv
	}
}
