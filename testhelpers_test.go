package fftexec_test

import (
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"

	fftexec "github.com/cwbudde/algo-fftexec"
	"github.com/cwbudde/algo-fftexec/backend/gonumfft"
)

// Shared test helper functions used across multiple test files

func naiveDFT(x []complex128, forward bool) []complex128 {
	sign := 1.0
	if forward {
		sign = -1
	}

	n := len(x)
	out := make([]complex128, n)

	for k := range n {
		var sum complex128
		for j, v := range x {
			sum += v * cmplx.Exp(complex(0, sign*2*math.Pi*float64(j*k)/float64(n)))
		}

		out[k] = sum
	}

	return out
}

func newGonumStream(t *testing.T, workers int) *fftexec.Stream {
	t.Helper()

	stream, err := fftexec.NewStream(gonumfft.New(), fftexec.StreamOptions{Workers: workers})
	if err != nil {
		t.Fatalf("NewStream failed: %v", err)
	}

	return stream
}

func assertApproxComplex128s(t *testing.T, got, want []complex128, tol float64, format string, args ...any) {
	t.Helper()

	if !cmplxs.EqualApprox(got, want, tol) {
		t.Fatalf(format+": got %v want %v", append(args, got, want)...)
	}
}

func assertApproxFloat64s(t *testing.T, got, want []float64, tol float64, format string, args ...any) {
	t.Helper()

	if !floats.EqualApprox(got, want, tol) {
		t.Fatalf(format+": got %v want %v", append(args, got, want)...)
	}
}

func toComplex128(x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(v, 0)
	}

	return out
}
