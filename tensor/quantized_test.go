package tensor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuantizeDequantizeRoundTrip(t *testing.T) {
	ten := MustNew(Shape{5})
	vals := []float32{-2.5, -1, 0, 1.25, 3.75}
	copy(ten.Data(), vals)

	q := Quantize(ten)
	require.True(t, q.Aligned())

	back := q.Dequantize()
	for i, want := range vals {
		got := back.Data()[i]
		diff := got - want
		if diff < 0 {
			diff = -diff
		}
		require.LessOrEqual(t, float64(diff), float64(q.Scale()), "element %d: want %v got %v (scale %v)", i, want, got, q.Scale())
	}
}

func TestQuantizeConstantTensor(t *testing.T) {
	ten := MustNew(Shape{4})
	ten.Fill(7)
	q := Quantize(ten)
	// The range always includes 0, so an all-7 tensor spans [0, 7]: scale
	// is 7/255, the zero-point is -128 and every element maps to code 127.
	require.Equal(t, float32(7)/255, q.Scale())
	for _, code := range q.Data() {
		require.Equal(t, int8(127), code)
	}
}

func TestQuantizeZeroPointInRange(t *testing.T) {
	ten := MustNew(Shape{3})
	copy(ten.Data(), []float32{-1000, 0, 1000})
	q := Quantize(ten)
	require.GreaterOrEqual(t, int(q.ZeroPoint()), -128)
	require.LessOrEqual(t, int(q.ZeroPoint()), 127)
}
