package fftexec

// WindowFunc weights a frame in place and returns it. The window functions of
// gonum.org/v1/gonum/dsp/window (window.Hann, window.Hamming, ...) satisfy it.
type WindowFunc func(seq []float64) []float64

// FrameCount returns the number of full frames of frameLen samples, advancing
// by hop, that fit into n samples.
func FrameCount(n, frameLen, hop int) int {
	if frameLen <= 0 || hop <= 0 || n < frameLen {
		return 0
	}

	return (n-frameLen)/hop + 1
}

// FrameSignals cuts equally long signals into overlapping frames and writes
// them to dst in the [frame][batch][sample] layout consumed by STFT, with the
// signals as the batch dimension. A nil window leaves the frames unweighted.
// It returns the number of frames, STFT's dims argument.
func FrameSignals[F Float](dst []F, signals [][]F, frameLen, hop int, window WindowFunc) (int, error) {
	if frameLen <= 0 {
		return 0, errorf(ErrInvalidSize, "frame length %d", frameLen)
	}

	if hop <= 0 {
		return 0, errorf(ErrInvalidSize, "hop %d", hop)
	}

	if len(signals) == 0 {
		return 0, nil
	}

	n := len(signals[0])
	for b, sig := range signals {
		if len(sig) != n {
			return 0, errorf(ErrShapeMismatch, "signal %d has %d samples, signal 0 has %d", b, len(sig), n)
		}
	}

	frames := FrameCount(n, frameLen, hop)
	batch := len(signals)

	if len(dst) < frames*batch*frameLen {
		return 0, errorf(ErrLengthMismatch, "destination has %d samples, %d frames need %d",
			len(dst), frames, frames*batch*frameLen)
	}

	var weights []float64
	if window != nil {
		weights = make([]float64, frameLen)
		for i := range weights {
			weights[i] = 1
		}

		weights = window(weights)
		if len(weights) != frameLen {
			return 0, errorf(ErrInvalidSize, "window returned %d weights for frames of %d", len(weights), frameLen)
		}
	}

	for j := range frames {
		start := j * hop

		for i, sig := range signals {
			frame := dst[(j*batch+i)*frameLen:][:frameLen]
			copy(frame, sig[start:start+frameLen])

			if weights != nil {
				for s := range frame {
					frame[s] = F(float64(frame[s]) * weights[s])
				}
			}
		}
	}

	return frames, nil
}
