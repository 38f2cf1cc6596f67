package fftexec

import (
	"cmp"
	"fmt"
	"slices"
)

// Descriptor fully specifies one transform invocation. It is built once per
// kernel call, handed to the backend by reference and discarded afterwards.
//
// Scale is computed in the working precision and stored widened to float64;
// for single precision the stored value is exactly the float32 factor.
type Descriptor struct {
	Kind      ExecuteKind
	Precision Precision
	In        Layout
	Out       Layout
	Axes      Axes
	Forward   bool
	Scale     float64
}

// NewDescriptor copies the layouts and axes, fixes the direction for C2R
// (always inverse), computes the scale for mode and validates the result.
//
// The scale's effective size is taken from the output shape for C2R, where
// the real length lives, and from the input shape otherwise.
func NewDescriptor[F Float](kind ExecuteKind, in, out Layout, axes Axes, forward bool, mode NormMode) (*Descriptor, error) {
	if kind == KindC2R {
		forward = false
	}

	desc := &Descriptor{
		Kind:      kind,
		Precision: PrecisionOf[F](),
		In:        in.Clone(),
		Out:       out.Clone(),
		Axes:      axes.Clone(),
		Forward:   forward,
	}

	if err := desc.Validate(); err != nil {
		return nil, err
	}

	scale, err := ComputeScaleForShape[F](desc.normShape(), desc.Axes, mode)
	if err != nil {
		return nil, err
	}

	desc.Scale = float64(scale)

	return desc, nil
}

// Rank returns the number of tensor dimensions.
func (d *Descriptor) Rank() int {
	return len(d.In.Shape)
}

// LastAxis returns the final listed axis, the one that changes length in
// R2C and C2R transforms.
func (d *Descriptor) LastAxis() int {
	return d.Axes[len(d.Axes)-1]
}

// EffectiveSize returns the product of extents at the transform axes of the
// shape used for normalization. Validate guarantees it fits in an int.
func (d *Descriptor) EffectiveSize() int {
	n, _ := effectiveSize(d.normShape(), d.Axes)
	return n
}

func (d *Descriptor) normShape() Shape {
	if d.Kind == KindC2R {
		return d.Out.Shape
	}

	return d.In.Shape
}

// LineLen returns the real length of the transform along axis.
func (d *Descriptor) LineLen(axis int) int {
	switch d.Kind {
	case KindC2R:
		return d.Out.Shape[axis]
	default:
		return d.In.Shape[axis]
	}
}

// String summarises the descriptor for log output.
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s/%s in=%v:%v out=%v:%v axes=%v forward=%t scale=%g",
		d.Kind, d.Precision, d.In.Shape, d.In.Stride, d.Out.Shape, d.Out.Stride, d.Axes, d.Forward, d.Scale)
}

// Validate checks ranks, axes, strides and the shape relation of the kind.
// The output layout must not map two elements to the same offset, and the
// effective size must fit in an int.
func (d *Descriptor) Validate() error {
	switch d.Kind {
	case KindC2C, KindR2C, KindC2R:
	default:
		return errorf(ErrInvalidArgument, "unknown execute kind %d", d.Kind)
	}

	rank := len(d.In.Shape)
	if rank == 0 {
		return errorf(ErrRankMismatch, "rank must be at least 1")
	}

	if len(d.In.Stride) != rank || len(d.Out.Shape) != rank || len(d.Out.Stride) != rank {
		return errorf(ErrRankMismatch, "in shape %v, in stride %v, out shape %v, out stride %v",
			d.In.Shape, d.In.Stride, d.Out.Shape, d.Out.Stride)
	}

	if len(d.Axes) == 0 {
		return errorf(ErrInvalidAxis, "no transform axes")
	}

	seen := make([]bool, rank)
	for _, ax := range d.Axes {
		if ax < 0 || ax >= rank {
			return errorf(ErrInvalidAxis, "axis %d out of range for rank %d", ax, rank)
		}

		if seen[ax] {
			return errorf(ErrInvalidAxis, "axis %d listed twice", ax)
		}

		seen[ax] = true
	}

	if err := validateLayout(d.In, "input"); err != nil {
		return err
	}

	if err := validateLayout(d.Out, "output"); err != nil {
		return err
	}

	if err := validateDisjoint(d.Out, "output"); err != nil {
		return err
	}

	last := d.LastAxis()

	for i := range rank {
		in, out := d.In.Shape[i], d.Out.Shape[i]

		switch {
		case d.Kind == KindR2C && i == last:
			if out != HermitianSize(in) {
				return errorf(ErrShapeMismatch, "r2c axis %d: %d real samples need %d bins, output has %d",
					i, in, HermitianSize(in), out)
			}
		case d.Kind == KindC2R && i == last:
			if in != HermitianSize(out) {
				return errorf(ErrShapeMismatch, "c2r axis %d: %d real samples need %d bins, input has %d",
					i, out, HermitianSize(out), in)
			}
		case in != out:
			return errorf(ErrShapeMismatch, "%s dimension %d: input %d, output %d", d.Kind, i, in, out)
		}
	}

	_, err := effectiveSize(d.normShape(), d.Axes)

	return err
}

func validateLayout(l Layout, name string) error {
	for i, extent := range l.Shape {
		if extent < 0 {
			return errorf(ErrShapeMismatch, "%s dimension %d has negative extent %d", name, i, extent)
		}

		stride := l.Stride[i]
		if stride < 0 || (stride == 0 && extent > 1) {
			return errorf(ErrInvalidStride, "%s dimension %d: stride %d for extent %d", name, i, stride, extent)
		}
	}

	return nil
}

// validateDisjoint rejects a layout in which two elements share an offset.
// Dimensions are visited by increasing stride and each stride must step past
// every offset reachable through the smaller ones, so layouts that interleave
// dimensions are rejected even where they happen to be injective.
func validateDisjoint(l Layout, name string) error {
	dims := make([]int, 0, len(l.Shape))

	for i, extent := range l.Shape {
		if extent == 0 {
			return nil
		}

		if extent > 1 {
			dims = append(dims, i)
		}
	}

	slices.SortStableFunc(dims, func(a, b int) int { return cmp.Compare(l.Stride[a], l.Stride[b]) })

	span := 0
	for _, i := range dims {
		if l.Stride[i] <= span {
			return errorf(ErrInvalidStride, "%s dimension %d: stride %d overlaps offsets up to %d",
				name, i, l.Stride[i], span)
		}

		step, ok := mulSize(l.Shape[i]-1, l.Stride[i])
		if !ok || step > maxInt-span {
			return errorf(ErrInvalidStride, "%s offset overflow in dimension %d", name, i)
		}

		span += step
	}

	return nil
}

// RequiredLen returns the minimum buffer length that addresses every element
// of l (the largest reachable offset plus one), or 0 for an empty layout.
// It returns ErrInvalidStride if the offset overflows int.
func RequiredLen(l Layout) (int, error) {
	maxOffset := 0

	for i, extent := range l.Shape {
		if extent == 0 {
			return 0, nil
		}

		step := extent - 1
		if step > 0 && l.Stride[i] > (maxInt-maxOffset)/step {
			return 0, errorf(ErrInvalidStride, "offset overflow in dimension %d", i)
		}

		maxOffset += step * l.Stride[i]
	}

	return maxOffset + 1, nil
}
