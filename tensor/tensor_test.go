package tensor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsZeroDimension(t *testing.T) {
	_, err := New(Shape{2, 0, 3})
	require.Error(t, err)

	_, err = New(Shape{})
	require.Error(t, err)
}

func TestNewZeroInitialized(t *testing.T) {
	ten, err := New(Shape{2, 3})
	require.NoError(t, err)
	require.Equal(t, 6, ten.Size())
	for _, v := range ten.Data() {
		require.Equal(t, float32(0), v)
	}
}

func TestAlignmentInvariant(t *testing.T) {
	for _, shape := range []Shape{{1}, {3}, {7}, {5, 5}, {1, 1, 1}, {1000}} {
		ten, err := New(shape)
		require.NoError(t, err)
		require.True(t, ten.Aligned(), "shape %v not aligned", shape)
		require.Equal(t, shape.Size(), ten.Size())
	}
}

func TestIndexRowMajor(t *testing.T) {
	ten := MustNew(Shape{2, 3})
	// flat(1,2) = 1*3 + 2 = 5
	require.Equal(t, 5, ten.Index(1, 2))
	require.Equal(t, 0, ten.Index(0, 0))
}

func TestFillAndZero(t *testing.T) {
	ten := MustNew(Shape{4})
	ten.Fill(3.5)
	for _, v := range ten.Data() {
		require.Equal(t, float32(3.5), v)
	}
	ten.Zero()
	for _, v := range ten.Data() {
		require.Equal(t, float32(0), v)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	ten := MustNew(Shape{3})
	ten.Fill(1)
	dup := ten.Copy()
	dup.Fill(2)
	require.Equal(t, float32(1), ten.Data()[0])
	require.Equal(t, float32(2), dup.Data()[0])
}

func TestMoveResetsSource(t *testing.T) {
	ten := MustNew(Shape{3})
	ten.Fill(9)
	moved := ten.Move()

	require.True(t, ten.Empty())
	require.Equal(t, 0, ten.Size())
	require.Equal(t, Shape{}, ten.Shape())

	require.Equal(t, 3, moved.Size())
	require.Equal(t, float32(9), moved.Data()[0])

	// Safe to keep using the drained source.
	ten.Fill(1) // no-op, must not panic
	ten.Zero()  // no-op, must not panic
}

func TestEnsureShapeReallocatesOnlyWhenNeeded(t *testing.T) {
	ten := MustNew(Shape{2, 2})
	ten.Fill(5)
	before := ten.Data()
	ten.EnsureShape(Shape{2, 2})
	require.Equal(t, float32(5), before[0], "same-shape EnsureShape must not clear existing storage")

	ten.EnsureShape(Shape{3, 3})
	require.Equal(t, 9, ten.Size())
	require.Equal(t, float32(0), ten.Data()[0])
}

func TestHasNaN(t *testing.T) {
	ten := MustNew(Shape{2})
	require.False(t, ten.HasNaN())
	ten.Data()[1] = float32(nanValue())
	require.True(t, ten.HasNaN())
}

func nanValue() float64 {
	var x float64
	return x / x
}
