package fftexec_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fftexec "github.com/cwbudde/algo-fftexec"
	"github.com/cwbudde/algo-fftexec/backend/dspfft"
	"github.com/cwbudde/algo-fftexec/backend/gonumfft"
	"github.com/cwbudde/algo-fftexec/backend/mock"
)

func c2cDescriptor(t *testing.T, n int) *fftexec.Descriptor {
	t.Helper()

	desc, err := fftexec.NewDescriptor[float64](fftexec.KindC2C, vector(n), vector(n), fftexec.Axes{0}, true, fftexec.NormNone)
	require.NoError(t, err)

	return desc
}

func TestExecuteWrapsBackendErrors(t *testing.T) {
	t.Parallel()

	planErr := errors.New("out of device memory")
	execErr := errors.New("kernel launch failed")

	tests := []struct {
		name  string
		setup func(*mock.Backend)
		op    string
		cause error
	}{
		{"plan error", func(b *mock.Backend) { b.PlanErr = planErr }, "plan", planErr},
		{"execute error", func(b *mock.Backend) { b.ExecErr = execErr }, "execute", execErr},
		{"execute panic", func(b *mock.Backend) { b.Panic = execErr }, "execute", execErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := mock.New(nil)
			tt.setup(rec)

			err := fftexec.Execute(rec, c2cDescriptor(t, 4), make([]complex128, 4), make([]complex128, 4))
			require.ErrorIs(t, err, fftexec.ErrBackend)
			assert.ErrorIs(t, err, tt.cause)
			assert.NotErrorIs(t, err, fftexec.ErrInvalidArgument)

			var be *fftexec.BackendError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, mock.Name, be.Backend)
			assert.Equal(t, tt.op, be.Op)
			assert.Contains(t, err.Error(), tt.cause.Error())
		})
	}
}

func TestExecuteRecoversNonErrorPanic(t *testing.T) {
	t.Parallel()

	rec := mock.New(nil)
	rec.Panic = "index out of range"

	err := fftexec.Execute(rec, c2cDescriptor(t, 2), make([]complex128, 2), make([]complex128, 2))
	require.ErrorIs(t, err, fftexec.ErrBackend)
	assert.Contains(t, err.Error(), "index out of range")
}

func TestExecuteValidatesBeforeBackend(t *testing.T) {
	t.Parallel()

	rec := mock.New(nil)
	desc := c2cDescriptor(t, 4)

	tests := []struct {
		name    string
		backend fftexec.Backend
		desc    *fftexec.Descriptor
		in, out any
		want    error
	}{
		{"nil backend", nil, desc, make([]complex128, 4), make([]complex128, 4), fftexec.ErrNilBackend},
		{"nil descriptor", rec, nil, make([]complex128, 4), make([]complex128, 4), fftexec.ErrInvalidArgument},
		{"real input", rec, desc, make([]float64, 4), make([]complex128, 4), fftexec.ErrBufferType},
		{"single output", rec, desc, make([]complex128, 4), make([]complex64, 4), fftexec.ErrBufferType},
		{"untyped input", rec, desc, "samples", make([]complex128, 4), fftexec.ErrBufferType},
		{"short output", rec, desc, make([]complex128, 4), make([]complex128, 3), fftexec.ErrLengthMismatch},
	}

	for _, tt := range tests {
		err := fftexec.Execute(tt.backend, tt.desc, tt.in, tt.out)
		require.ErrorIs(t, err, tt.want, tt.name)
		assert.NotErrorIs(t, err, fftexec.ErrBackend, tt.name)
	}

	tampered := *desc
	tampered.Axes = fftexec.Axes{3}

	err := fftexec.Execute(rec, &tampered, make([]complex128, 4), make([]complex128, 4))
	require.ErrorIs(t, err, fftexec.ErrInvalidAxis)

	assert.Empty(t, rec.Plans())
	assert.Empty(t, rec.Calls())
}

func TestExecuteRunsDelegate(t *testing.T) {
	t.Parallel()

	rec := mock.New(dspfft.New(0))
	in := []complex128{1, 2, 3, 4}
	out := make([]complex128, 4)

	require.NoError(t, fftexec.Execute(rec, c2cDescriptor(t, 4), in, out))
	assertApproxComplex128s(t, out, naiveDFT(in, true), 1e-12, "delegated c2c")
	assert.Contains(t, rec.Info().Description, dspfft.Name)

	rec.Reset()
	assert.Empty(t, rec.Plans())
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	names := fftexec.Backends()
	assert.Contains(t, names, gonumfft.Name)
	assert.Contains(t, names, dspfft.Name)

	backend, err := fftexec.Lookup(gonumfft.Name)
	require.NoError(t, err)
	assert.Equal(t, gonumfft.Name, backend.Info().Name)

	_, err = fftexec.Lookup("cufft")
	assert.ErrorIs(t, err, fftexec.ErrNilBackend)

	fftexec.Register("test-mock", func() fftexec.Backend { return mock.New(nil) })
	assert.Contains(t, fftexec.Backends(), "test-mock")

	fftexec.Register("test-mock", nil)
	assert.NotContains(t, fftexec.Backends(), "test-mock")
}

func TestNewStream(t *testing.T) {
	t.Parallel()

	_, err := fftexec.NewStream(nil, fftexec.StreamOptions{})
	assert.ErrorIs(t, err, fftexec.ErrNilBackend)

	backend := gonumfft.New()

	stream, err := fftexec.NewStream(backend, fftexec.StreamOptions{Workers: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, stream.Workers())
	assert.Same(t, backend, stream.Backend())

	var nilStream *fftexec.Stream
	assert.Nil(t, nilStream.Backend())
	assert.Equal(t, 1, nilStream.Workers())
}
