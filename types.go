package fftexec

import (
	"slices"

	"github.com/cwbudde/algo-fftexec/internal/fftypes"
)

// Complex is a type constraint for complex element types (complex64, complex128).
// The canonical definition is in internal/fftypes.
type Complex = fftypes.Complex

// Float is a type constraint for real element types (float32, float64).
// The canonical definition is in internal/fftypes.
type Float = fftypes.Float

// Shape holds the logical extent of every tensor dimension.
type Shape []int

// Stride holds the memory step, in elements, of every tensor dimension.
type Stride []int

// Axes lists the dimensions a transform is applied over, outermost first.
type Axes []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the product of all extents. An empty shape has one element.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}

	return n
}

// Clone returns a deep copy of s.
func (s Shape) Clone() Shape {
	return slices.Clone(s)
}

// Clone returns a deep copy of s.
func (s Stride) Clone() Stride {
	return slices.Clone(s)
}

// Clone returns a deep copy of a.
func (a Axes) Clone() Axes {
	return slices.Clone(a)
}

// Layout pairs a shape with the strides used to address it.
type Layout struct {
	Shape  Shape
	Stride Stride
}

// Clone returns a deep copy of l.
func (l Layout) Clone() Layout {
	return Layout{Shape: l.Shape.Clone(), Stride: l.Stride.Clone()}
}

// ContiguousStride returns row-major strides for shape.
func ContiguousStride(shape Shape) Stride {
	stride := make(Stride, len(shape))
	step := 1

	for i := len(shape) - 1; i >= 0; i-- {
		stride[i] = step
		if shape[i] > 1 {
			step *= shape[i]
		}
	}

	return stride
}

// ContiguousLayout returns a row-major layout for shape.
func ContiguousLayout(shape Shape) Layout {
	return Layout{Shape: shape.Clone(), Stride: ContiguousStride(shape)}
}

const maxInt = int(^uint(0) >> 1)

// mulSize returns a*b for non-negative a and b, and false if the product
// does not fit in an int.
func mulSize(a, b int) (int, bool) {
	if a != 0 && b > maxInt/a {
		return 0, false
	}

	return a * b, true
}

// HermitianSize returns the number of complex bins kept by a real transform
// of n samples (n/2+1).
func HermitianSize(n int) int {
	return n/2 + 1
}

// RealSize returns the default real length reconstructed from m complex bins.
// It follows the even-length convention 2*(m-1); odd lengths must be requested
// explicitly through C2R's lastDimSize.
func RealSize(m int) int {
	return 2 * (m - 1)
}

// NormalizeAxes maps negative axis indices (-1 is the last dimension) into
// [0, rank). Indices that remain out of range return ErrInvalidAxis.
func NormalizeAxes(axes Axes, rank int) (Axes, error) {
	out := make(Axes, len(axes))

	for i, ax := range axes {
		if ax < 0 {
			ax += rank
		}

		if ax < 0 || ax >= rank {
			return nil, errorf(ErrInvalidAxis, "axis %d out of range for rank %d", axes[i], rank)
		}

		out[i] = ax
	}

	return out, nil
}

// R2COutputShape returns the complex shape produced by a real-to-complex
// transform of shape over axes: the last listed axis shrinks to n/2+1.
func R2COutputShape(shape Shape, axes Axes) (Shape, error) {
	if len(axes) == 0 {
		return nil, errorf(ErrInvalidAxis, "no transform axes")
	}

	last := axes[len(axes)-1]
	if last < 0 || last >= len(shape) {
		return nil, errorf(ErrInvalidAxis, "axis %d out of range for rank %d", last, len(shape))
	}

	out := shape.Clone()
	out[last] = HermitianSize(shape[last])

	return out, nil
}

// C2ROutputShape returns the real shape reconstructed by a complex-to-real
// transform of shape over axes, with lastDimSize samples on the last listed axis.
func C2ROutputShape(shape Shape, axes Axes, lastDimSize int) (Shape, error) {
	if len(axes) == 0 {
		return nil, errorf(ErrInvalidAxis, "no transform axes")
	}

	last := axes[len(axes)-1]
	if last < 0 || last >= len(shape) {
		return nil, errorf(ErrInvalidAxis, "axis %d out of range for rank %d", last, len(shape))
	}

	if lastDimSize < 1 || HermitianSize(lastDimSize) != shape[last] {
		return nil, errorf(ErrLastDimSize, "last_dim_size %d incompatible with %d complex bins", lastDimSize, shape[last])
	}

	out := shape.Clone()
	out[last] = lastDimSize

	return out, nil
}
