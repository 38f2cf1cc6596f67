// Package gonumfft is an fftexec backend built on gonum.org/v1/gonum/dsp/fourier.
//
// Transforms of any length are supported. Single-precision buffers are
// computed in double precision and rounded on output. Importing the package
// registers the backend under the name "gonum".
package gonumfft

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"

	fftexec "github.com/cwbudde/algo-fftexec"
	"github.com/cwbudde/algo-fftexec/internal/cpu"
	"github.com/cwbudde/algo-fftexec/internal/ndfft"
)

// Name is the registry name of the backend.
const Name = "gonum"

func init() {
	fftexec.Register(Name, func() fftexec.Backend { return New() })
}

// Backend executes descriptors with gonum's FFTPACK port.
type Backend struct {
	features cpu.Features
}

// New returns a gonum backend.
func New() *Backend {
	return &Backend{features: cpu.DetectFeatures()}
}

// Info describes the backend.
func (b *Backend) Info() fftexec.BackendInfo {
	return fftexec.BackendInfo{
		Name:        Name,
		Version:     "gonum v0.16",
		Description: "gonum dsp/fourier (FFTPACK) CPU backend",
		Features:    b.features.Names(),
	}
}

// NewPlan resolves desc into gonum transforms, one per distinct length.
func (b *Backend) NewPlan(desc *fftexec.Descriptor) (fftexec.Plan, error) {
	plan, err := ndfft.New(desc, &kernels{
		complexFFTs: map[int]*fourier.CmplxFFT{},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "gonum")
	}

	return plan, nil
}

// kernels hands out closures over gonum transform objects. Transforms of the
// same length share one object; a plan runs them sequentially.
type kernels struct {
	complexFFTs map[int]*fourier.CmplxFFT
}

func (k *kernels) complexFFT(n int) (*fourier.CmplxFFT, error) {
	if n < 1 {
		return nil, errors.Errorf("length %d", n)
	}

	if t, ok := k.complexFFTs[n]; ok {
		return t, nil
	}

	t := fourier.NewCmplxFFT(n)
	k.complexFFTs[n] = t

	return t, nil
}

func (k *kernels) Complex(n int, forward bool) (ndfft.ComplexFunc, error) {
	t, err := k.complexFFT(n)
	if err != nil {
		return nil, err
	}

	if forward {
		return func(dst, src []complex128) { t.Coefficients(dst, src) }, nil
	}

	return func(dst, src []complex128) { t.Sequence(dst, src) }, nil
}

func (k *kernels) RealForward(n int) (ndfft.RealForwardFunc, error) {
	if n < 1 {
		return nil, errors.Errorf("length %d", n)
	}

	t := fourier.NewFFT(n)

	return func(dst []complex128, src []float64) { t.Coefficients(dst, src) }, nil
}

func (k *kernels) RealInverse(n int) (ndfft.RealInverseFunc, error) {
	if n < 1 {
		return nil, errors.Errorf("length %d", n)
	}

	t := fourier.NewFFT(n)

	return func(dst []float64, src []complex128) { t.Sequence(dst, src) }, nil
}
