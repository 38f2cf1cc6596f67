// Package mock provides a recording fftexec backend for tests and development.
//
// The backend remembers every descriptor it is asked to plan and every buffer
// pair it executes on. Execution is forwarded to an optional delegate backend;
// without one, plans leave the output untouched.
package mock

import (
	"sync"

	"github.com/pkg/errors"

	fftexec "github.com/cwbudde/algo-fftexec"
)

// Name is the registry name of the backend.
const Name = "mock"

// Call is one recorded Execute.
type Call struct {
	Desc *fftexec.Descriptor
	In   any
	Out  any
}

// Backend is a recording fftexec backend. The zero value is ready to use and
// safe for concurrent plans.
type Backend struct {
	// Delegate, when set, performs the transforms.
	Delegate fftexec.Backend
	// PlanErr, when set, is returned by NewPlan.
	PlanErr error
	// ExecErr, when set, is returned by every Execute.
	ExecErr error
	// Panic, when set, makes Execute panic with this value.
	Panic any

	mu    sync.Mutex
	plans []*fftexec.Descriptor
	calls []Call
}

// New returns a recording backend forwarding to delegate, which may be nil.
func New(delegate fftexec.Backend) *Backend {
	return &Backend{Delegate: delegate}
}

// Info describes the backend.
func (b *Backend) Info() fftexec.BackendInfo {
	info := fftexec.BackendInfo{
		Name:        Name,
		Version:     "0.1",
		Description: "recording mock backend",
	}

	if b.Delegate != nil {
		info.Description += " over " + b.Delegate.Info().Name
	}

	return info
}

// NewPlan records desc and returns a recording plan.
func (b *Backend) NewPlan(desc *fftexec.Descriptor) (fftexec.Plan, error) {
	b.mu.Lock()
	b.plans = append(b.plans, desc)
	b.mu.Unlock()

	if b.PlanErr != nil {
		return nil, b.PlanErr
	}

	p := &plan{backend: b, desc: desc}

	if b.Delegate != nil {
		inner, err := b.Delegate.NewPlan(desc)
		if err != nil {
			return nil, errors.WithMessage(err, "mock delegate")
		}

		p.inner = inner
	}

	return p, nil
}

// Plans returns the descriptors passed to NewPlan, in order.
func (b *Backend) Plans() []*fftexec.Descriptor {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]*fftexec.Descriptor(nil), b.plans...)
}

// Calls returns the recorded executions. Concurrent plans append in
// completion order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]Call(nil), b.calls...)
}

// Reset forgets all recorded plans and calls.
func (b *Backend) Reset() {
	b.mu.Lock()
	b.plans = nil
	b.calls = nil
	b.mu.Unlock()
}

type plan struct {
	backend *Backend
	desc    *fftexec.Descriptor
	inner   fftexec.Plan
}

func (p *plan) Execute(in, out any) error {
	b := p.backend

	b.mu.Lock()
	b.calls = append(b.calls, Call{Desc: p.desc, In: in, Out: out})
	b.mu.Unlock()

	if b.Panic != nil {
		panic(b.Panic)
	}

	if b.ExecErr != nil {
		return b.ExecErr
	}

	if p.inner != nil {
		return p.inner.Execute(in, out)
	}

	return nil
}
