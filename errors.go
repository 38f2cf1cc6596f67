package fftexec

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors returned by the engine. Every argument error wraps
// ErrInvalidArgument, so callers may test for the family or the precise cause.
var (
	// ErrInvalidArgument is the parent of all caller errors.
	ErrInvalidArgument = errors.New("fftexec: invalid argument")

	// ErrInvalidNorm is returned for an unknown normalization request or mode.
	ErrInvalidNorm = errors.WithMessage(ErrInvalidArgument, "invalid normalization mode")

	// ErrInvalidSize is returned when the effective transform size is not positive.
	ErrInvalidSize = errors.WithMessage(ErrInvalidArgument, "transform size must be positive")

	// ErrRankMismatch is returned when shapes and strides disagree on rank.
	ErrRankMismatch = errors.WithMessage(ErrInvalidArgument, "rank mismatch")

	// ErrInvalidAxis is returned for empty, duplicate or out-of-range axes.
	ErrInvalidAxis = errors.WithMessage(ErrInvalidArgument, "invalid axis")

	// ErrInvalidStride is returned for negative strides, or zero strides on
	// dimensions with more than one element.
	ErrInvalidStride = errors.WithMessage(ErrInvalidArgument, "invalid stride")

	// ErrShapeMismatch is returned when input and output shapes do not match
	// the relation required by the execute kind.
	ErrShapeMismatch = errors.WithMessage(ErrInvalidArgument, "shape mismatch")

	// ErrLastDimSize is returned when a C2R last_dim_size is inconsistent with
	// the complex input or the real output.
	ErrLastDimSize = errors.WithMessage(ErrInvalidArgument, "invalid last_dim_size")

	// ErrPrecisionMismatch is returned when real and complex buffers use
	// different precisions.
	ErrPrecisionMismatch = errors.WithMessage(ErrInvalidArgument, "precision mismatch")

	// ErrBufferType is returned when a buffer's element type does not match
	// the descriptor.
	ErrBufferType = errors.WithMessage(ErrInvalidArgument, "buffer element type mismatch")

	// ErrLengthMismatch is returned when a buffer is too short for its layout.
	ErrLengthMismatch = errors.WithMessage(ErrInvalidArgument, "buffer too short for layout")

	// ErrNilStream is returned when a kernel is called without a stream.
	ErrNilStream = errors.WithMessage(ErrInvalidArgument, "nil stream")

	// ErrNilBackend is returned when a stream or adapter call has no backend.
	ErrNilBackend = errors.WithMessage(ErrInvalidArgument, "nil backend")

	// ErrBackend matches every *BackendError.
	ErrBackend = errors.New("fftexec: backend failure")
)

// BackendError reports a failure inside the transform-computation backend,
// either while configuring a plan or while executing it.
type BackendError struct {
	Backend string
	Op      string // "plan" or "execute"
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("fftexec: backend %q failed to %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the backend's own error.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrBackend) hold for every BackendError.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

func errorf(sentinel error, format string, args ...any) error {
	return errors.Wrapf(sentinel, format, args...)
}
