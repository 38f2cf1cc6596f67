package fftexec

import "math"

// NormMode is the policy used to scale a transform's output by a function
// of the effective transform size.
type NormMode uint8

const (
	NormNone       NormMode = iota // multiply by 1
	NormBySize                     // multiply by 1/n
	NormByRootSize                 // multiply by 1/sqrt(n)
)

// Normalization requests understood by NormFromString. An empty request is
// the same as NormBackward.
const (
	NormBackward = "backward"
	NormForward  = "forward"
	NormOrtho    = "ortho"
)

// String returns a human-readable name for the mode.
func (m NormMode) String() string {
	switch m {
	case NormNone:
		return "none"
	case NormBySize:
		return "by_n"
	case NormByRootSize:
		return "by_root_n"
	default:
		return "unknown"
	}
}

// NormFromString resolves a directional normalization request for a
// transform running in the given direction:
//
//	"" or "backward": forward -> NormNone,   inverse -> NormBySize
//	"forward":        forward -> NormBySize, inverse -> NormNone
//	"ortho":          NormByRootSize both ways
//
// Any other request returns ErrInvalidNorm.
func NormFromString(request string, forward bool) (NormMode, error) {
	switch request {
	case "", NormBackward:
		if forward {
			return NormNone, nil
		}

		return NormBySize, nil
	case NormForward:
		if forward {
			return NormBySize, nil
		}

		return NormNone, nil
	case NormOrtho:
		return NormByRootSize, nil
	default:
		return NormNone, errorf(ErrInvalidNorm, "%q", request)
	}
}

// ComputeScale returns the factor applied to a transform of size elements
// under mode. size must be positive for every mode.
func ComputeScale[F Float](size int, mode NormMode) (F, error) {
	if size <= 0 {
		return 0, errorf(ErrInvalidSize, "got %d", size)
	}

	switch mode {
	case NormNone:
		return 1, nil
	case NormBySize:
		return F(1 / float64(size)), nil
	case NormByRootSize:
		return F(1 / math.Sqrt(float64(size))), nil
	default:
		return 0, errorf(ErrInvalidNorm, "mode %d", mode)
	}
}

// ComputeScaleForShape returns the factor for a transform of shape over
// axes; the effective size is the product of the extents at axes.
func ComputeScaleForShape[F Float](shape Shape, axes Axes, mode NormMode) (F, error) {
	n, err := effectiveSize(shape, axes)
	if err != nil {
		return 0, err
	}

	return ComputeScale[F](n, mode)
}

func effectiveSize(shape Shape, axes Axes) (int, error) {
	if len(axes) == 0 {
		return 0, errorf(ErrInvalidAxis, "no transform axes")
	}

	n := 1

	for _, ax := range axes {
		if ax < 0 || ax >= len(shape) {
			return 0, errorf(ErrInvalidAxis, "axis %d out of range for rank %d", ax, len(shape))
		}

		if shape[ax] < 0 {
			return 0, errorf(ErrInvalidSize, "axis %d has negative extent %d", ax, shape[ax])
		}

		var ok bool
		if n, ok = mulSize(n, shape[ax]); !ok {
			return 0, errorf(ErrInvalidSize, "size over axes %v of %v overflows int", axes, shape)
		}
	}

	return n, nil
}
