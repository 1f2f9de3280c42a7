package kernels

import (
	"math"

	"github.com/HamoodiM/TitanInfer/internal/parallel"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// MaxPool2D reduces a (C,H,W) input by taking the maximum value in each
// kernel×stride window. Positions outside the original H×W rectangle
// (introduced by padding) are treated as -Inf, so they never dominate a
// real pixel.
func MaxPool2D(input *tensor.Tensor, kH, kW, sH, sW, padTop, padLeft, outH, outW int, output *tensor.Tensor) error {
	shape := input.Shape()
	if len(shape) != 3 {
		return invalidArg("maxpool2d", "expected 3D (C,H,W) input, got shape %v", []int(shape))
	}
	c, h, w := shape[0], shape[1], shape[2]
	output.EnsureShape(tensor.Shape{c, outH, outW})
	in, out := input.Data(), output.Data()

	parallel.For(c, func(ch int) {
		chBase := ch * h * w
		outBase := ch * outH * outW
		for oy := 0; oy < outH; oy++ {
			for ox := 0; ox < outW; ox++ {
				max := float32(math.Inf(-1))
				for ky := 0; ky < kH; ky++ {
					iy := oy*sH + ky - padTop
					if iy < 0 || iy >= h {
						continue
					}
					for kx := 0; kx < kW; kx++ {
						ix := ox*sW + kx - padLeft
						if ix < 0 || ix >= w {
							continue
						}
						v := in[chBase+iy*w+ix]
						if v > max {
							max = v
						}
					}
				}
				out[outBase+oy*outW+ox] = max
			}
		}
	}, parallel.DefaultConfig())
	return nil
}

// AvgPool2D averages each kernel×stride window, dividing by the full
// kernel area (kH*kW) rather than the count of in-bounds positions. This
// is intentional — see spec.md §9 — and matches the serialized model
// format's semantics even when SAME padding introduces zero positions
// into the window.
func AvgPool2D(input *tensor.Tensor, kH, kW, sH, sW, padTop, padLeft, outH, outW int, output *tensor.Tensor) error {
	shape := input.Shape()
	if len(shape) != 3 {
		return invalidArg("avgpool2d", "expected 3D (C,H,W) input, got shape %v", []int(shape))
	}
	c, h, w := shape[0], shape[1], shape[2]
	output.EnsureShape(tensor.Shape{c, outH, outW})
	in, out := input.Data(), output.Data()
	area := float32(kH * kW)

	parallel.For(c, func(ch int) {
		chBase := ch * h * w
		outBase := ch * outH * outW
		for oy := 0; oy < outH; oy++ {
			for ox := 0; ox < outW; ox++ {
				var sum float32
				for ky := 0; ky < kH; ky++ {
					iy := oy*sH + ky - padTop
					if iy < 0 || iy >= h {
						continue
					}
					for kx := 0; kx < kW; kx++ {
						ix := ox*sW + kx - padLeft
						if ix < 0 || ix >= w {
							continue
						}
						sum += in[chBase+iy*w+ix]
					}
				}
				out[outBase+oy*outW+ox] = sum / area
			}
		}
	}, parallel.DefaultConfig())
	return nil
}
