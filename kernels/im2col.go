package kernels

import "github.com/HamoodiM/TitanInfer/tensor"

// PaddingMode selects how Conv2D/pooling layers compute spatial padding.
type PaddingMode int

const (
	// PaddingValid applies no padding.
	PaddingValid PaddingMode = iota
	// PaddingSame pads so the output spatial size equals
	// ceil(input/stride).
	PaddingSame
)

// OutputSize computes the convolution/pooling output size along one
// spatial axis: floor((input + 2*padding - kernel)/stride) + 1.
func OutputSize(input, kernel, stride, padding int) int {
	return (input+2*padding-kernel)/stride + 1
}

// SamePadding computes the total (both-sides) padding SAME mode needs so
// that outSize = ceil(input/stride), per spec.md §4.2. The total is split
// with integer division, biasing the extra odd unit to the right/bottom
// side — PadTop/PadLeft get total/2, PadBottom/PadRight get the rest.
func SamePadding(input, kernel, stride int) (total int) {
	outSize := (input + stride - 1) / stride // ceil(input/stride)
	total = (outSize-1)*stride + kernel - input
	if total < 0 {
		total = 0
	}
	return total
}

// Im2Col rearranges a (C,H,W) input into a (C*kH*kW, outH*outW) matrix so
// convolution reduces to a dense matrix product. Row index encodes
// (channel, kernel-row, kernel-col); column index encodes (output-row,
// output-col), both in row-major order. Positions outside the original
// H×W rectangle (after the padding offset) are zero.
func Im2Col(input *tensor.Tensor, kH, kW, sH, sW, padTop, padLeft, outH, outW int, output *tensor.Tensor) error {
	shape := input.Shape()
	if len(shape) != 3 {
		return invalidArg("im2col", "expected 3D (C,H,W) input, got shape %v", []int(shape))
	}
	c, h, w := shape[0], shape[1], shape[2]

	rows := c * kH * kW
	cols := outH * outW
	output.EnsureShape(tensor.Shape{rows, cols})
	out := output.Data()
	in := input.Data()

	for ch := 0; ch < c; ch++ {
		chBase := ch * h * w
		for kr := 0; kr < kH; kr++ {
			for kc := 0; kc < kW; kc++ {
				rowIdx := (ch*kH+kr)*kW + kc
				rowBase := rowIdx * cols
				for oy := 0; oy < outH; oy++ {
					inY := oy*sH + kr - padTop
					for ox := 0; ox < outW; ox++ {
						inX := ox*sW + kc - padLeft
						col := oy*outW + ox
						if inY >= 0 && inY < h && inX >= 0 && inX < w {
							out[rowBase+col] = in[chBase+inY*w+inX]
						} else {
							out[rowBase+col] = 0
						}
					}
				}
			}
		}
	}
	return nil
}
