// Package ndfft executes multi-dimensional strided transforms described by an
// fftexec.Descriptor on top of one-dimensional library kernels.
//
// Every transform is decomposed into passes along single axes. A pass walks
// all lines of the tensor along its axis, gathers a line into a contiguous
// double-precision scratch buffer, runs the 1-D kernel and scatters the line
// back through the output strides. The descriptor's scale is folded into the
// first pass that writes the output, so it is applied exactly once.
package ndfft

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"

	fftexec "github.com/cwbudde/algo-fftexec"
)

// ComplexFunc is an unnormalised 1-D complex transform; dst may alias src.
type ComplexFunc func(dst, src []complex128)

// RealForwardFunc is an unnormalised 1-D real transform of len(src) samples
// into len(src)/2+1 bins with the exp(-2πi jk/n) kernel.
type RealForwardFunc func(dst []complex128, src []float64)

// RealInverseFunc is an unnormalised 1-D inverse of RealForwardFunc producing
// len(dst) samples from len(dst)/2+1 bins. Imaginary parts of the DC bin and,
// for even lengths, the Nyquist bin do not contribute.
type RealInverseFunc func(dst []float64, src []complex128)

// Kernels supplies 1-D transforms for a fixed length. Returned functions are
// used from a single goroutine only.
type Kernels interface {
	Complex(n int, forward bool) (ComplexFunc, error)
	RealForward(n int) (RealForwardFunc, error)
	RealInverse(n int) (RealInverseFunc, error)
}

// pass is one complex transform along a single axis.
type pass struct {
	axis int
	n    int
	fn   ComplexFunc
}

// Plan is a descriptor resolved against a kernel set. It owns scratch memory
// and is not safe for concurrent use.
type Plan struct {
	desc *fftexec.Descriptor

	// passes are the complex passes: all axes for C2C, all but the last
	// for R2C and C2R.
	passes []pass

	realAxis    int
	realN       int
	realForward RealForwardFunc
	realInverse RealInverseFunc

	cbuf []complex128
	rbuf []float64
	tmp  []complex128 // C2R intermediate, contiguous over the input shape
}

// New resolves desc against kernels. The descriptor must already be valid.
func New(desc *fftexec.Descriptor, kernels Kernels) (*Plan, error) {
	p := &Plan{desc: desc}
	maxLen := 1

	complexAxes := desc.Axes
	if desc.Kind != fftexec.KindC2C {
		complexAxes = desc.Axes[:len(desc.Axes)-1]
		p.realAxis = desc.LastAxis()
		p.realN = desc.LineLen(p.realAxis)
		maxLen = max(maxLen, p.realN)

		var err error

		switch desc.Kind {
		case fftexec.KindR2C:
			p.realForward, err = kernels.RealForward(p.realN)
		case fftexec.KindC2R:
			p.realInverse, err = kernels.RealInverse(p.realN)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "%s kernel of length %d", desc.Kind, p.realN)
		}
	}

	// Complex passes of C2R run inverse like the rest of the transform.
	for _, ax := range complexAxes {
		n := desc.In.Shape[ax]

		fn, err := kernels.Complex(n, desc.Forward)
		if err != nil {
			return nil, errors.Wrapf(err, "complex kernel of length %d", n)
		}

		p.passes = append(p.passes, pass{axis: ax, n: n, fn: fn})
		maxLen = max(maxLen, n)
	}

	p.cbuf = make([]complex128, maxLen)
	p.rbuf = make([]float64, maxLen)

	if desc.Kind == fftexec.KindC2R && len(p.passes) > 0 {
		p.tmp = make([]complex128, desc.In.Shape.NumElements())
	}

	return p, nil
}

// Descriptor returns the descriptor the plan was built from.
func (p *Plan) Descriptor() *fftexec.Descriptor {
	return p.desc
}

// Execute runs the plan. Element types must match the descriptor.
func (p *Plan) Execute(in, out any) error {
	switch p.desc.Kind {
	case fftexec.KindC2C:
		switch src := in.(type) {
		case []complex64:
			if dst, ok := out.([]complex64); ok {
				execC2C(p, src, dst)
				return nil
			}
		case []complex128:
			if dst, ok := out.([]complex128); ok {
				execC2C(p, src, dst)
				return nil
			}
		}
	case fftexec.KindR2C:
		switch src := in.(type) {
		case []float32:
			if dst, ok := out.([]complex64); ok {
				execR2C(p, src, dst)
				return nil
			}
		case []float64:
			if dst, ok := out.([]complex128); ok {
				execR2C(p, src, dst)
				return nil
			}
		}
	case fftexec.KindC2R:
		switch src := in.(type) {
		case []complex64:
			if dst, ok := out.([]float32); ok {
				execC2R(p, src, dst)
				return nil
			}
		case []complex128:
			if dst, ok := out.([]float64); ok {
				execC2R(p, src, dst)
				return nil
			}
		}
	}

	return errors.Errorf("ndfft: unsupported buffers %T -> %T for %s", in, out, p.desc.Kind)
}

func execC2C[C fftexec.Complex](p *Plan, in, out []C) {
	d := p.desc

	for k, ps := range p.passes {
		if k == 0 {
			complexPass(p, ps, in, d.In.Stride, out, d.Out.Stride, d.Out.Shape, d.Scale)
		} else {
			complexPass(p, ps, out, d.Out.Stride, out, d.Out.Stride, d.Out.Shape, 1)
		}
	}
}

func execR2C[F fftexec.Float, C fftexec.Complex](p *Plan, in []F, out []C) {
	d := p.desc
	n := p.realN
	m := fftexec.HermitianSize(n)
	rline := p.rbuf[:n]
	cline := p.cbuf[:m]
	inStride, outStride := d.In.Stride[p.realAxis], d.Out.Stride[p.realAxis]

	for inBase, outBase := range Lines(d.In.Shape, p.realAxis, d.In.Stride, d.Out.Stride) {
		for i := range rline {
			rline[i] = float64(in[inBase+i*inStride])
		}

		p.realForward(cline, rline)

		// The inverse-signed real transform is the conjugate of the forward one.
		if !d.Forward {
			for i, v := range cline {
				cline[i] = complex(real(v), -imag(v))
			}
		}

		if d.Scale != 1 {
			cmplxs.ScaleReal(d.Scale, cline)
		}

		scatterComplex(out, outBase, outStride, cline)
	}

	for _, ps := range p.passes {
		complexPass(p, ps, out, d.Out.Stride, out, d.Out.Stride, d.Out.Shape, 1)
	}
}

func execC2R[C fftexec.Complex, F fftexec.Float](p *Plan, in []C, out []F) {
	d := p.desc

	if len(p.passes) == 0 {
		realInversePass(p, in, d.In.Stride, out)
		return
	}

	tmpStride := fftexec.ContiguousStride(d.In.Shape)

	for k, ps := range p.passes {
		if k == 0 {
			complexPass(p, ps, in, d.In.Stride, p.tmp, tmpStride, d.In.Shape, 1)
		} else {
			complexPass(p, ps, p.tmp, tmpStride, p.tmp, tmpStride, d.In.Shape, 1)
		}
	}

	realInversePass(p, p.tmp, tmpStride, out)
}

func realInversePass[S fftexec.Complex, F fftexec.Float](p *Plan, src []S, srcStrides fftexec.Stride, out []F) {
	d := p.desc
	n := p.realN
	m := fftexec.HermitianSize(n)
	rline := p.rbuf[:n]
	cline := p.cbuf[:m]
	srcStride, outStride := srcStrides[p.realAxis], d.Out.Stride[p.realAxis]

	for srcBase, outBase := range Lines(d.Out.Shape, p.realAxis, srcStrides, d.Out.Stride) {
		gatherComplex(cline, src, srcBase, srcStride)
		p.realInverse(rline, cline)

		if d.Scale != 1 {
			floats.Scale(d.Scale, rline)
		}

		for i, v := range rline {
			out[outBase+i*outStride] = F(v)
		}
	}
}

// complexPass transforms every line of shape along ps.axis from src into dst.
func complexPass[S, D fftexec.Complex](p *Plan, ps pass, src []S, srcStrides fftexec.Stride,
	dst []D, dstStrides fftexec.Stride, shape fftexec.Shape, scale float64,
) {
	line := p.cbuf[:ps.n]
	srcStride, dstStride := srcStrides[ps.axis], dstStrides[ps.axis]

	for srcBase, dstBase := range Lines(shape, ps.axis, srcStrides, dstStrides) {
		gatherComplex(line, src, srcBase, srcStride)
		ps.fn(line, line)

		if scale != 1 {
			cmplxs.ScaleReal(scale, line)
		}

		scatterComplex(dst, dstBase, dstStride, line)
	}
}
