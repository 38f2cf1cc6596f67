package fftexec

// StreamOptions controls how kernels bound to a Stream execute.
type StreamOptions struct {
	// Workers bounds the number of concurrent single-window transforms run by
	// the STFT driver (<= 0 means 1, i.e. sequential).
	Workers int
}

// Stream binds kernel invocations to a backend. It is an opaque handle: it
// selects where a transform runs, never what it computes.
type Stream struct {
	backend Backend
	options StreamOptions
}

// NewStream returns a Stream executing on backend.
func NewStream(backend Backend, opts StreamOptions) (*Stream, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}

	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	return &Stream{backend: backend, options: opts}, nil
}

// Backend returns the backend the stream executes on.
func (s *Stream) Backend() Backend {
	if s == nil {
		return nil
	}

	return s.backend
}

// Workers returns the STFT worker count.
func (s *Stream) Workers() int {
	if s == nil {
		return 1
	}

	return s.options.Workers
}
