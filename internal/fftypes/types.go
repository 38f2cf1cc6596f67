package fftypes

// Complex is a type constraint for the complex element types of a transform.
type Complex interface {
	complex64 | complex128
}

// Float is a type constraint for the real element types of a transform.
type Float interface {
	float32 | float64
}

// ToComplex128 widens val to complex128.
func ToComplex128[T Complex](val T) complex128 {
	switch v := any(val).(type) {
	case complex64:
		return complex128(v)
	case complex128:
		return v
	default:
		panic("unsupported complex type")
	}
}

// FromComplex128 narrows val to T.
func FromComplex128[T Complex](val complex128) T {
	var zero T

	switch any(zero).(type) {
	case complex64:
		result, _ := any(complex64(val)).(T)
		return result
	case complex128:
		result, _ := any(val).(T)
		return result
	default:
		panic("unsupported complex type")
	}
}

// IsDouble reports whether T is float64.
func IsDouble[T Float]() bool {
	var zero T
	_, ok := any(zero).(float64)

	return ok
}

// IsComplexDouble reports whether T is complex128.
func IsComplexDouble[T Complex]() bool {
	var zero T
	_, ok := any(zero).(complex128)

	return ok
}
