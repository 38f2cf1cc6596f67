// Package dspfft is an fftexec backend built on github.com/mjibson/go-dsp/fft.
//
// go-dsp uses radix-2 transforms for power-of-two lengths and Bluestein's
// algorithm otherwise. Its inverse is normalised by 1/n, so the unnormalised
// inverse the engine needs is computed as conj(FFT(conj(x))). Importing the
// package registers the backend under the name "godsp".
package dspfft

import (
	"github.com/mjibson/go-dsp/fft"
	"github.com/pkg/errors"

	fftexec "github.com/cwbudde/algo-fftexec"
	"github.com/cwbudde/algo-fftexec/internal/ndfft"
)

// Name is the registry name of the backend.
const Name = "godsp"

func init() {
	fftexec.Register(Name, func() fftexec.Backend { return New(0) })
}

// Backend executes descriptors with go-dsp.
type Backend struct {
	workers int
}

// New returns a go-dsp backend. workers sets go-dsp's radix-2 worker pool
// size; 0 keeps go-dsp's default of GOMAXPROCS. The pool size is process-wide
// in go-dsp, so it is applied once here rather than per plan.
func New(workers int) *Backend {
	if workers > 0 {
		fft.SetWorkerPoolSize(workers)
	}

	return &Backend{workers: workers}
}

// Info describes the backend.
func (b *Backend) Info() fftexec.BackendInfo {
	return fftexec.BackendInfo{
		Name:        Name,
		Version:     "go-dsp 2018-05-08",
		Description: "mjibson/go-dsp radix-2 / Bluestein CPU backend",
	}
}

// NewPlan resolves desc into go-dsp transforms.
func (b *Backend) NewPlan(desc *fftexec.Descriptor) (fftexec.Plan, error) {
	plan, err := ndfft.New(desc, kernels{})
	if err != nil {
		return nil, errors.WithMessage(err, "godsp")
	}

	return plan, nil
}

type kernels struct{}

func (kernels) Complex(n int, forward bool) (ndfft.ComplexFunc, error) {
	if n < 1 {
		return nil, errors.Errorf("length %d", n)
	}

	if forward {
		return func(dst, src []complex128) {
			copy(dst, fft.FFT(src))
		}, nil
	}

	conj := make([]complex128, n)

	return func(dst, src []complex128) {
		for i, v := range src {
			conj[i] = complex(real(v), -imag(v))
		}

		for i, v := range fft.FFT(conj) {
			dst[i] = complex(real(v), -imag(v))
		}
	}, nil
}

func (kernels) RealForward(n int) (ndfft.RealForwardFunc, error) {
	if n < 1 {
		return nil, errors.Errorf("length %d", n)
	}

	return func(dst []complex128, src []float64) {
		copy(dst, fft.FFTReal(src))
	}, nil
}

func (kernels) RealInverse(n int) (ndfft.RealInverseFunc, error) {
	if n < 1 {
		return nil, errors.Errorf("length %d", n)
	}

	full := make([]complex128, n)

	return func(dst []float64, src []complex128) {
		// Rebuild the Hermitian spectrum and feed its conjugate to the forward
		// transform; the real part of the result is the unnormalised inverse.
		m := len(src)
		for k := range n {
			if k < m {
				full[k] = complex(real(src[k]), -imag(src[k]))
			} else {
				full[k] = src[n-k]
			}
		}

		for i, v := range fft.FFT(full) {
			dst[i] = real(v)
		}
	}, nil
}
