package fftexec

import "github.com/cwbudde/algo-fftexec/internal/fftypes"

// ExecuteKind selects the element kinds on either side of a transform.
type ExecuteKind uint8

const (
	KindC2C ExecuteKind = iota // complex in, complex out
	KindR2C                    // real in, one-sided complex out
	KindC2R                    // one-sided complex in, real out
)

// String returns a human-readable name for the execute kind.
func (k ExecuteKind) String() string {
	switch k {
	case KindC2C:
		return "c2c"
	case KindR2C:
		return "r2c"
	case KindC2R:
		return "c2r"
	default:
		return "unknown"
	}
}

// Precision describes the working floating-point precision of a transform.
type Precision uint8

const (
	Single Precision = iota // float32 / complex64
	Double                  // float64 / complex128
)

// String returns a human-readable name for the precision.
func (p Precision) String() string {
	switch p {
	case Single:
		return "single"
	case Double:
		return "double"
	default:
		return "unknown"
	}
}

// PrecisionOf returns the precision of the real type F.
func PrecisionOf[F Float]() Precision {
	if fftypes.IsDouble[F]() {
		return Double
	}

	return Single
}

// ComplexPrecisionOf returns the precision of the complex type C.
func ComplexPrecisionOf[C Complex]() Precision {
	if fftypes.IsComplexDouble[C]() {
		return Double
	}

	return Single
}

// inputIsComplex reports whether the descriptor's input buffer holds complex values.
func (k ExecuteKind) inputIsComplex() bool {
	return k != KindR2C
}

// outputIsComplex reports whether the descriptor's output buffer holds complex values.
func (k ExecuteKind) outputIsComplex() bool {
	return k != KindC2R
}
