package tensor

import (
	"fmt"
	"math"
)

// QuantizedTensor is Tensor's 8-bit sibling: a 32-byte-aligned buffer of
// signed int8 elements plus a per-tensor affine scale and zero-point.
// real ≈ (q - zeroPoint) * scale. Same construction/copy/move lifecycle
// as Tensor.
type QuantizedTensor struct {
	raw        []int8
	data       []int8
	dims       Shape
	scale      float32
	zeroPoint  int8
}

// NewQuantized allocates a zero-initialized (all-zero-point) quantized
// tensor of the given shape with scale 1 and zero-point 0.
func NewQuantized(shape Shape) (*QuantizedTensor, error) {
	if len(shape) == 0 {
		return nil, &ShapeError{Reason: "shape must have rank >= 1"}
	}
	size := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, &ShapeError{Reason: fmt.Sprintf("dimension must be non-zero, got shape %v", []int(shape))}
		}
		size *= d
	}
	q := &QuantizedTensor{dims: shape.Clone(), scale: 1}
	q.allocate(size)
	return q, nil
}

func (q *QuantizedTensor) allocate(size int) {
	if size == 0 {
		q.raw = nil
		q.data = nil
		return
	}
	q.raw = make([]int8, size+alignment)
	addr := sliceAddr(q.raw)
	pad := (alignment - int(addr%alignment)) % alignment
	q.data = q.raw[pad : pad+size]
}

// Shape, Size, Data, Rank mirror Tensor's accessors.
func (q *QuantizedTensor) Shape() Shape      { return q.dims }
func (q *QuantizedTensor) Rank() int         { return len(q.dims) }
func (q *QuantizedTensor) Size() int         { return len(q.data) }
func (q *QuantizedTensor) Data() []int8      { return q.data }
func (q *QuantizedTensor) Scale() float32    { return q.scale }
func (q *QuantizedTensor) ZeroPoint() int8   { return q.zeroPoint }
func (q *QuantizedTensor) SetScale(s float32) { q.scale = s }
func (q *QuantizedTensor) SetZeroPoint(zp int8) { q.zeroPoint = zp }

// Aligned reports whether the data pointer satisfies the 32-byte
// alignment invariant.
func (q *QuantizedTensor) Aligned() bool {
	if len(q.data) == 0 {
		return true
	}
	return sliceAddr(q.data)%alignment == 0
}

// Copy returns a deep copy including scale and zero-point.
func (q *QuantizedTensor) Copy() *QuantizedTensor {
	out := &QuantizedTensor{dims: q.dims.Clone(), scale: q.scale, zeroPoint: q.zeroPoint}
	out.allocate(len(q.data))
	copy(out.data, q.data)
	return out
}

// Move transfers ownership of the receiver's storage and resets the
// receiver to the empty quantized tensor.
func (q *QuantizedTensor) Move() *QuantizedTensor {
	out := &QuantizedTensor{raw: q.raw, data: q.data, dims: q.dims, scale: q.scale, zeroPoint: q.zeroPoint}
	q.raw = nil
	q.data = nil
	q.dims = Shape{}
	return out
}

func clampInt8(v float64) int8 {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return int8(math.Round(v))
}

// Quantize computes a per-tensor asymmetric 8-bit quantization of t
// following the algorithm in spec.md §4.2:
//  1. min/max are taken over the tensor's elements union {0}.
//  2. If min == max, scale is 1 and every element maps to the same
//     zero-point.
//  3. Otherwise scale = (max-min)/255 and zero-point is chosen so 0 maps
//     exactly (up to rounding) onto the int8 code -128 - min/scale.
func Quantize(t *Tensor) *QuantizedTensor {
	minV, maxV := float32(0), float32(0)
	for _, v := range t.Data() {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	q, err := NewQuantized(t.Shape())
	if err != nil {
		// t.Shape() is always valid for an already-constructed Tensor.
		panic(err)
	}

	if minV == maxV {
		zp := clampInt8(math.Round(float64(minV)))
		q.scale = 1
		q.zeroPoint = zp
		for i := range q.data {
			q.data[i] = zp
		}
		return q
	}

	scale := (maxV - minV) / 255
	zp := clampInt8(math.Round(float64(-128) - float64(minV)/float64(scale)))
	q.scale = scale
	q.zeroPoint = zp

	for i, v := range t.Data() {
		code := math.Round(float64(v)/float64(scale)) + float64(zp)
		q.data[i] = clampInt8(code)
	}
	return q
}

// Dequantize reconstructs a float32 Tensor: real = (q - zeroPoint) * scale.
func (q *QuantizedTensor) Dequantize() *Tensor {
	t, err := New(q.dims)
	if err != nil {
		panic(err)
	}
	for i, code := range q.data {
		t.Data()[i] = float32(int32(code)-int32(q.zeroPoint)) * q.scale
	}
	return t
}
