package fftexec

import (
	"sort"
	"sync"
)

// Backend is implemented by transform-computation libraries. It turns a
// Descriptor into a native plan; it never allocates or frees caller buffers.
type Backend interface {
	Info() BackendInfo
	// NewPlan validates desc against the backend's capabilities and converts it
	// into the backend's native representation.
	NewPlan(desc *Descriptor) (Plan, error)
}

// Plan executes one configured transform. Buffers are passed untyped so that
// backend-specific element handling does not leak into the interface; the
// adapter guarantees they match the descriptor's kind and precision:
//
//	C2C: []complex64 -> []complex64     or []complex128 -> []complex128
//	R2C: []float32   -> []complex64     or []float64    -> []complex128
//	C2R: []complex64 -> []float32       or []complex128 -> []float64
//
// The descriptor's Scale must be applied exactly once. Plans need not be safe
// for concurrent use.
type Plan interface {
	Execute(in, out any) error
}

// BackendInfo describes a backend implementation.
type BackendInfo struct {
	Name        string
	Version     string
	Description string
	// Features lists host CPU features the backend reports, if any.
	Features []string
}

// BackendFactory creates a ready-to-use backend.
type BackendFactory func() Backend

var (
	registryMu sync.RWMutex
	registry   = map[string]BackendFactory{}
)

// Register makes a backend available by name for configuration surfaces such
// as command-line tools. Kernels never consult the registry; they use the
// backend bound to their Stream. Registering a nil factory removes the name.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		delete(registry, name)
		return
	}

	registry[name] = factory
}

// Lookup creates the backend registered under name.
func Lookup(name string) (Backend, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, errorf(ErrNilBackend, "no backend registered as %q", name)
	}

	return factory(), nil
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
