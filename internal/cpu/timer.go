package cpu

import "time"

// Timer measures the average wall time of repeated operations using the
// monotonic clock.
type Timer struct {
	start time.Time
	ops   int
}

// StartTimer returns a running timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Add records n completed operations.
func (t *Timer) Add(n int) {
	t.ops += n
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// NanosPerOp returns the average nanoseconds per recorded operation, or 0 if
// none were recorded.
func (t *Timer) NanosPerOp() float64 {
	if t.ops == 0 {
		return 0
	}

	return float64(t.Elapsed().Nanoseconds()) / float64(t.ops)
}
