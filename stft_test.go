package fftexec_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/window"

	fftexec "github.com/cwbudde/algo-fftexec"
	"github.com/cwbudde/algo-fftexec/backend/mock"
)

func TestSTFTWindowOffsets(t *testing.T) {
	t.Parallel()

	const dims, batch, length = 2, 3, 8

	outLen := fftexec.STFTOutputLen(length)
	require.Equal(t, 5, outLen)

	for _, workers := range []int{1, 4} {
		rec := mock.New(nil)
		stream, err := fftexec.NewStream(rec, fftexec.StreamOptions{Workers: workers})
		require.NoError(t, err)

		in := make([]float32, dims*batch*length)
		out := make([]complex64, dims*batch*outLen)

		require.NoError(t, fftexec.STFT(stream, in, out, dims, batch, length, fftexec.NormNone))

		calls := rec.Calls()
		require.Len(t, calls, dims*batch, "workers=%d", workers)
		assert.Len(t, rec.Plans(), min(workers, dims*batch), "one plan per worker")

		seen := map[int]bool{}

		for _, call := range calls {
			src := call.In.([]float32)
			dst := call.Out.([]complex64)
			require.Len(t, src, length)
			require.Len(t, dst, outLen)

			// Recover the window index from the input offset and check the
			// output window belongs to the same (frame, batch) pair.
			var k int
			for k = 0; k < dims*batch; k++ {
				if &in[k*length] == &src[0] {
					break
				}
			}

			require.Less(t, k, dims*batch, "input window not found")
			assert.False(t, seen[k], "window %d executed twice", k)
			seen[k] = true

			j, i := k/batch, k%batch
			assert.Same(t, &in[j*batch*length+i*length], &src[0])
			assert.Same(t, &out[j*batch*outLen+i*outLen], &dst[0])
		}

		// Every window shares the same single-window descriptor.
		for _, desc := range rec.Plans() {
			assert.Equal(t, fftexec.KindR2C, desc.Kind)
			assert.Equal(t, fftexec.Shape{length}, desc.In.Shape)
			assert.Equal(t, fftexec.Shape{outLen}, desc.Out.Shape)
			assert.True(t, desc.Forward)
			assert.Same(t, rec.Plans()[0], desc)
		}
	}
}

func TestSTFTMatchesPerWindowR2C(t *testing.T) {
	t.Parallel()

	const dims, batch, length = 5, 2, 12

	outLen := fftexec.STFTOutputLen(length)
	in := make([]float64, dims*batch*length)

	for i := range in {
		in[i] = math.Sin(float64(i)*0.3) + 0.25*math.Cos(float64(i)*1.7)
	}

	sequential := make([]complex128, dims*batch*outLen)
	require.NoError(t, fftexec.STFT(newGonumStream(t, 1), in, sequential, dims, batch, length, fftexec.NormByRootSize))

	parallel := make([]complex128, len(sequential))
	require.NoError(t, fftexec.STFT(newGonumStream(t, 3), in, parallel, dims, batch, length, fftexec.NormByRootSize))

	assert.Equal(t, sequential, parallel)

	stream := newGonumStream(t, 1)

	for k := range dims * batch {
		want := make([]complex128, outLen)
		require.NoError(t, fftexec.R2C(stream, in[k*length:(k+1)*length], want,
			vector(length), vector(outLen), true, fftexec.Axes{0}, fftexec.NormByRootSize))
		assertApproxComplex128s(t, sequential[k*outLen:(k+1)*outLen], want, 1e-12, "window %d", k)
	}
}

func TestSTFTErrors(t *testing.T) {
	t.Parallel()

	stream := newGonumStream(t, 2)

	err := fftexec.STFT[float64, complex128](nil, nil, nil, 1, 1, 8, fftexec.NormNone)
	assert.ErrorIs(t, err, fftexec.ErrNilStream)

	err = fftexec.STFT(stream, make([]float32, 16), make([]complex128, 10), 2, 1, 8, fftexec.NormNone)
	assert.ErrorIs(t, err, fftexec.ErrPrecisionMismatch)

	err = fftexec.STFT(stream, make([]float64, 15), make([]complex128, 10), 2, 1, 8, fftexec.NormNone)
	assert.ErrorIs(t, err, fftexec.ErrLengthMismatch)

	err = fftexec.STFT(stream, make([]float64, 16), make([]complex128, 9), 2, 1, 8, fftexec.NormNone)
	assert.ErrorIs(t, err, fftexec.ErrLengthMismatch)

	err = fftexec.STFT(stream, make([]float64, 16), make([]complex128, 10), 2, 1, 0, fftexec.NormNone)
	assert.ErrorIs(t, err, fftexec.ErrInvalidSize)

	err = fftexec.STFT[float64, complex128](stream, nil, nil, -1, 1, 8, fftexec.NormNone)
	assert.ErrorIs(t, err, fftexec.ErrShapeMismatch)

	require.NoError(t, fftexec.STFT[float64, complex128](stream, nil, nil, 0, 4, 8, fftexec.NormNone))
}

func TestSTFTWindowCountOverflow(t *testing.T) {
	t.Parallel()

	maxInt := int(^uint(0) >> 1)
	rec := mock.New(nil)

	stream, err := fftexec.NewStream(rec, fftexec.StreamOptions{Workers: 2})
	require.NoError(t, err)

	in := make([]float64, 16)
	out := make([]complex128, 10)

	tests := []struct {
		name        string
		dims, batch int
	}{
		{"dims times batch", maxInt/2 + 1, 4},
		{"windows times length", maxInt / 4, 1},
	}

	for _, tt := range tests {
		err := fftexec.STFT(stream, in, out, tt.dims, tt.batch, 8, fftexec.NormNone)
		assert.ErrorIs(t, err, fftexec.ErrShapeMismatch, tt.name)
	}

	assert.Empty(t, rec.Plans())
	assert.Empty(t, rec.Calls())
}

func TestSTFTStopsOnBackendError(t *testing.T) {
	t.Parallel()

	boom := errors.New("device lost")

	for _, workers := range []int{1, 3} {
		rec := mock.New(nil)
		rec.ExecErr = boom

		stream, err := fftexec.NewStream(rec, fftexec.StreamOptions{Workers: workers})
		require.NoError(t, err)

		err = fftexec.STFT(stream, make([]float64, 64), make([]complex128, 40), 8, 1, 8, fftexec.NormNone)
		require.ErrorIs(t, err, fftexec.ErrBackend)
		assert.ErrorIs(t, err, boom)

		var be *fftexec.BackendError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "execute", be.Op)
	}
}

func TestFrameSignals(t *testing.T) {
	t.Parallel()

	signals := [][]float64{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{10, 11, 12, 13, 14, 15, 16, 17, 18, 19},
	}

	const frameLen, hop = 4, 3

	frames := fftexec.FrameCount(10, frameLen, hop)
	require.Equal(t, 3, frames)

	dst := make([]float64, frames*len(signals)*frameLen)
	got, err := fftexec.FrameSignals(dst, signals, frameLen, hop, nil)
	require.NoError(t, err)
	require.Equal(t, frames, got)

	want := []float64{
		0, 1, 2, 3, 10, 11, 12, 13,
		3, 4, 5, 6, 13, 14, 15, 16,
		6, 7, 8, 9, 16, 17, 18, 19,
	}
	assert.Equal(t, want, dst)

	// Windowed frames feed straight into STFT.
	windowed := make([]float64, len(dst))
	_, err = fftexec.FrameSignals(windowed, signals, frameLen, hop, window.Hann)
	require.NoError(t, err)

	weights := window.Hann([]float64{1, 1, 1, 1})
	for i, v := range windowed {
		assert.InDelta(t, dst[i]*weights[i%frameLen], v, 1e-12, "sample %d", i)
	}

	out := make([]complex128, frames*len(signals)*fftexec.STFTOutputLen(frameLen))
	require.NoError(t, fftexec.STFT(newGonumStream(t, 2), windowed, out, frames, len(signals), frameLen, fftexec.NormNone))
}

func TestFrameSignalsErrors(t *testing.T) {
	t.Parallel()

	dst := make([]float32, 64)

	_, err := fftexec.FrameSignals(dst, [][]float32{{1, 2, 3}}, 0, 1, nil)
	assert.ErrorIs(t, err, fftexec.ErrInvalidSize)

	_, err = fftexec.FrameSignals(dst, [][]float32{{1, 2, 3}}, 2, 0, nil)
	assert.ErrorIs(t, err, fftexec.ErrInvalidSize)

	_, err = fftexec.FrameSignals(dst, [][]float32{{1, 2, 3}, {1, 2}}, 2, 1, nil)
	assert.ErrorIs(t, err, fftexec.ErrShapeMismatch)

	_, err = fftexec.FrameSignals(dst[:3], [][]float32{{1, 2, 3}}, 2, 1, nil)
	assert.ErrorIs(t, err, fftexec.ErrLengthMismatch)

	short := func(seq []float64) []float64 { return seq[:len(seq)-1] }
	_, err = fftexec.FrameSignals(dst, [][]float32{{1, 2, 3, 4}}, 3, 1, short)
	assert.ErrorIs(t, err, fftexec.ErrInvalidSize)

	n, err := fftexec.FrameSignals(dst, [][]float32{{1}}, 2, 1, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "signal shorter than a frame")
}
