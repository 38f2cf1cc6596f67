package fftexec

import (
	"context"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// STFTOutputLen returns the number of complex bins each window produces.
func STFTOutputLen(length int) int {
	return HermitianSize(length)
}

// STFT runs a forward real transform over every window of a framed buffer.
//
// in is laid out row-major as [dims][batch][length] real samples and out as
// [dims][batch][length/2+1] complex bins. For frame j and batch element i the
// window reads in[j*batch*length+i*length:][:length] and writes
// out[j*batch*outLen+i*outLen:][:outLen]. The single-window descriptor is
// built once and shared by all dims*batch executions; only the buffer
// windows change. With stream.Workers() > 1 windows run concurrently, each
// worker owning one plan; windows never overlap, so the result is the same.
func STFT[F Float, C Complex](stream *Stream, in []F, out []C, dims, batch, length int, norm NormMode) error {
	if stream == nil {
		return ErrNilStream
	}

	if err := matchPrecision[F, C](); err != nil {
		return err
	}

	if dims < 0 || batch < 0 {
		return errorf(ErrShapeMismatch, "dims %d, batch %d", dims, batch)
	}

	outLen := STFTOutputLen(length)

	desc, err := NewDescriptor[F](KindR2C,
		Layout{Shape: Shape{length}, Stride: Stride{1}},
		Layout{Shape: Shape{outLen}, Stride: Stride{1}},
		Axes{0}, true, norm)
	if err != nil {
		return err
	}

	total, ok := mulSize(dims, batch)
	if !ok {
		return errorf(ErrShapeMismatch, "dims %d times batch %d overflows int", dims, batch)
	}

	inLen, ok := mulSize(total, length)
	if !ok {
		return errorf(ErrShapeMismatch, "%d windows of %d samples overflow int", total, length)
	}

	// outLen <= length, so this fits whenever inLen does.
	outTotal := total * outLen

	if len(in) < inLen {
		return errorf(ErrLengthMismatch, "input has %d samples, %d windows of %d need %d",
			len(in), total, length, inLen)
	}

	if len(out) < outTotal {
		return errorf(ErrLengthMismatch, "output has %d bins, %d windows of %d need %d",
			len(out), total, outLen, outTotal)
	}

	if total == 0 {
		return nil
	}

	backend := stream.Backend()
	workers := min(stream.Workers(), total)

	plans := make([]Plan, workers)
	for w := range plans {
		plans[w], err = configure(backend, desc)
		if err != nil {
			return err
		}
	}

	klog.V(1).Infof("fftexec: stft dims=%d batch=%d len=%d workers=%d", dims, batch, length, workers)

	window := func(plan Plan, k int) error {
		j, i := k/batch, k%batch
		inOff := j*batch*length + i*length
		outOff := j*batch*outLen + i*outLen

		return run(backend, plan, desc, in[inOff:inOff+length], out[outOff:outOff+outLen])
	}

	if workers == 1 {
		for k := range total {
			if err := window(plans[0], k); err != nil {
				return err
			}
		}

		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)

		for k := range total {
			select {
			case jobs <- k:
			case <-ctx.Done():
				return nil
			}
		}

		return nil
	})

	for _, plan := range plans {
		g.Go(func() error {
			for k := range jobs {
				if err := window(plan, k); err != nil {
					return err
				}
			}

			return nil
		})
	}

	return g.Wait()
}
