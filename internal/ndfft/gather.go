package ndfft

import (
	fftexec "github.com/cwbudde/algo-fftexec"
	"github.com/cwbudde/algo-fftexec/internal/fftypes"
)

// gatherComplex copies len(dst) strided elements starting at base into dst.
func gatherComplex[C fftexec.Complex](dst []complex128, src []C, base, stride int) {
	for i := range dst {
		dst[i] = fftypes.ToComplex128(src[base+i*stride])
	}
}

// scatterComplex writes line to dst starting at base with the given stride.
func scatterComplex[C fftexec.Complex](dst []C, base, stride int, line []complex128) {
	for i, v := range line {
		dst[base+i*stride] = fftypes.FromComplex128[C](v)
	}
}
