package ndfft

import "iter"

// Lines enumerates every 1-D line of shape along axis. For each line it yields
// the base offsets of that line under two stride sets a and b, so that an
// input and an output layout can be walked in lockstep. The extent at axis is
// ignored; a zero extent in any other dimension yields nothing.
func Lines(shape []int, axis int, a, b []int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for d, extent := range shape {
			if d != axis && extent == 0 {
				return
			}
		}

		idx := make([]int, len(shape))
		offA, offB := 0, 0

		for {
			if !yield(offA, offB) {
				return
			}

			// Odometer increment over every dimension except axis, innermost first.
			d := len(shape) - 1
			for ; d >= 0; d-- {
				if d == axis {
					continue
				}

				idx[d]++
				offA += a[d]
				offB += b[d]

				if idx[d] < shape[d] {
					break
				}

				offA -= idx[d] * a[d]
				offB -= idx[d] * b[d]
				idx[d] = 0
			}

			if d < 0 {
				return
			}
		}
	}
}

// Count returns the number of lines Lines yields.
func Count(shape []int, axis int) int {
	n := 1

	for d, extent := range shape {
		if d != axis {
			n *= extent
		}
	}

	return n
}
