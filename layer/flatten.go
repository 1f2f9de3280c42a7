package layer

import "github.com/HamoodiM/TitanInfer/tensor"

// Flatten changes only the shape; Forward copies the elements into output
// in their original order. Rank-1 and
// rank-2 inputs pass through unchanged, a rank-3 (C,H,W) input becomes
// (C*H*W,), and rank >= 4 collapses every dimension after the first into
// the second (batch dimension preserved).
type Flatten struct{}

// NewFlatten constructs a Flatten layer.
func NewFlatten() *Flatten { return &Flatten{} }

func (f *Flatten) Name() string        { return "Flatten" }
func (f *Flatten) ParameterCount() int { return 0 }

func (f *Flatten) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	switch len(inputShape) {
	case 1, 2:
		return inputShape.Clone(), nil
	case 3:
		return tensor.Shape{inputShape.Size()}, nil
	default:
		rest := 1
		for _, d := range inputShape[1:] {
			rest *= d
		}
		return tensor.Shape{inputShape[0], rest}, nil
	}
}

func (f *Flatten) Forward(input, output *tensor.Tensor) error {
	outShape, err := f.OutputShape(input.Shape())
	if err != nil {
		return err
	}
	output.EnsureShape(outShape)
	copy(output.Data(), input.Data())
	return nil
}

func (f *Flatten) Clone() Layer { return &Flatten{} }
