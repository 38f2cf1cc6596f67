package fftexec

// C2C runs a complex-to-complex transform of in into out over axes.
//
// The stream selects the backend only. Forward transforms use the kernel
// exp(-2πi jk/n), inverse ones exp(+2πi jk/n); the output is the
// unnormalised DFT multiplied by the factor for norm, computed from the input
// shape. Exactly one descriptor is built and the backend is invoked once.
func C2C[C Complex](stream *Stream, in, out []C, inLayout, outLayout Layout,
	forward bool, axes Axes, norm NormMode,
) error {
	if stream == nil {
		return ErrNilStream
	}

	desc, err := newComplexDescriptor[C](KindC2C, inLayout, outLayout, axes, forward, norm)
	if err != nil {
		return err
	}

	return Execute(stream.Backend(), desc, in, out)
}

// R2C runs a real-to-complex transform of in into out over axes. The last
// listed axis keeps the one-sided n/2+1 bins; forward selects the sign of the
// exponent as for C2C. The scale is computed from the input (real) shape.
func R2C[F Float, C Complex](stream *Stream, in []F, out []C, inLayout, outLayout Layout,
	forward bool, axes Axes, norm NormMode,
) error {
	if stream == nil {
		return ErrNilStream
	}

	if err := matchPrecision[F, C](); err != nil {
		return err
	}

	desc, err := NewDescriptor[F](KindR2C, inLayout, outLayout, axes, forward, norm)
	if err != nil {
		return err
	}

	return Execute(stream.Backend(), desc, in, out)
}

// C2R runs a complex-to-real transform of the one-sided in into out over
// axes. The direction is always inverse. lastDimSize is the number of real
// samples reconstructed along the last listed axis: it must equal the output
// extent there, and the input must hold lastDimSize/2+1 bins. Inconsistent
// values fail with ErrLastDimSize before the backend is invoked. The scale is
// computed from the output (real) shape.
func C2R[C Complex, F Float](stream *Stream, in []C, out []F, inLayout, outLayout Layout,
	lastDimSize int, axes Axes, norm NormMode,
) error {
	if stream == nil {
		return ErrNilStream
	}

	if err := matchPrecision[F, C](); err != nil {
		return err
	}

	if err := checkLastDimSize(inLayout, outLayout, axes, lastDimSize); err != nil {
		return err
	}

	desc, err := NewDescriptor[F](KindC2R, inLayout, outLayout, axes, false, norm)
	if err != nil {
		return err
	}

	return Execute(stream.Backend(), desc, in, out)
}

func newComplexDescriptor[C Complex](kind ExecuteKind, in, out Layout, axes Axes, forward bool, norm NormMode) (*Descriptor, error) {
	if ComplexPrecisionOf[C]() == Double {
		return NewDescriptor[float64](kind, in, out, axes, forward, norm)
	}

	return NewDescriptor[float32](kind, in, out, axes, forward, norm)
}

func matchPrecision[F Float, C Complex]() error {
	if PrecisionOf[F]() != ComplexPrecisionOf[C]() {
		var (
			f F
			c C
		)

		return errorf(ErrPrecisionMismatch, "%T with %T", f, c)
	}

	return nil
}

func checkLastDimSize(in, out Layout, axes Axes, lastDimSize int) error {
	if len(axes) == 0 {
		return errorf(ErrInvalidAxis, "no transform axes")
	}

	last := axes[len(axes)-1]
	if last < 0 || last >= len(in.Shape) || last >= len(out.Shape) {
		return errorf(ErrInvalidAxis, "axis %d out of range", last)
	}

	if lastDimSize < 1 {
		return errorf(ErrLastDimSize, "got %d", lastDimSize)
	}

	if out.Shape[last] != lastDimSize {
		return errorf(ErrLastDimSize, "got %d, output extent on axis %d is %d", lastDimSize, last, out.Shape[last])
	}

	if in.Shape[last] != HermitianSize(lastDimSize) {
		return errorf(ErrLastDimSize, "got %d, needs %d complex bins on axis %d, input has %d",
			lastDimSize, HermitianSize(lastDimSize), last, in.Shape[last])
	}

	return nil
}
