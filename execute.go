package fftexec

import (
	"fmt"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Execute configures backend for desc once and runs the resulting plan on the
// given buffers. The descriptor and buffers are fully validated before the
// backend is touched; backend failures are returned as *BackendError.
func Execute(backend Backend, desc *Descriptor, in, out any) error {
	if err := checkBuffers(desc, in, out); err != nil {
		return err
	}

	plan, err := configure(backend, desc)
	if err != nil {
		return err
	}

	return run(backend, plan, desc, in, out)
}

// configure validates desc and converts it into a backend plan.
func configure(backend Backend, desc *Descriptor) (plan Plan, err error) {
	if backend == nil {
		return nil, ErrNilBackend
	}

	if desc == nil {
		return nil, errorf(ErrInvalidArgument, "nil descriptor")
	}

	if err := desc.Validate(); err != nil {
		return nil, err
	}

	name := backend.Info().Name

	defer func() {
		if r := recover(); r != nil {
			plan, err = nil, &BackendError{Backend: name, Op: "plan", Err: panicError(r)}
		}
	}()

	plan, err = backend.NewPlan(desc)
	if err != nil {
		return nil, &BackendError{Backend: name, Op: "plan", Err: err}
	}

	if plan == nil {
		return nil, &BackendError{Backend: name, Op: "plan", Err: errors.New("backend returned no plan")}
	}

	klog.V(2).Infof("fftexec: %s configured plan %s", name, desc)

	return plan, nil
}

// run executes plan once.
func run(backend Backend, plan Plan, desc *Descriptor, in, out any) (err error) {
	name := backend.Info().Name

	defer func() {
		if r := recover(); r != nil {
			err = &BackendError{Backend: name, Op: "execute", Err: panicError(r)}
		}
	}()

	if err := plan.Execute(in, out); err != nil {
		return &BackendError{Backend: name, Op: "execute", Err: err}
	}

	klog.V(3).Infof("fftexec: %s executed %s", name, desc.Kind)

	return nil
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return errors.WithStack(err)
	}

	return errors.New(fmt.Sprint(r))
}

// checkBuffers verifies element types against the descriptor's kind and
// precision, and lengths against its layouts.
func checkBuffers(desc *Descriptor, in, out any) error {
	if desc == nil {
		return errorf(ErrInvalidArgument, "nil descriptor")
	}

	inLen, err := bufferLen(in, desc.Kind.inputIsComplex(), desc.Precision)
	if err != nil {
		return errors.WithMessage(err, "input")
	}

	outLen, err := bufferLen(out, desc.Kind.outputIsComplex(), desc.Precision)
	if err != nil {
		return errors.WithMessage(err, "output")
	}

	if err := desc.Validate(); err != nil {
		return err
	}

	need, err := RequiredLen(desc.In)
	if err != nil {
		return err
	}

	if inLen < need {
		return errorf(ErrLengthMismatch, "input has %d elements, layout needs %d", inLen, need)
	}

	need, err = RequiredLen(desc.Out)
	if err != nil {
		return err
	}

	if outLen < need {
		return errorf(ErrLengthMismatch, "output has %d elements, layout needs %d", outLen, need)
	}

	return nil
}

func bufferLen(buf any, isComplex bool, precision Precision) (int, error) {
	switch b := buf.(type) {
	case []float32:
		if !isComplex && precision == Single {
			return len(b), nil
		}
	case []float64:
		if !isComplex && precision == Double {
			return len(b), nil
		}
	case []complex64:
		if isComplex && precision == Single {
			return len(b), nil
		}
	case []complex128:
		if isComplex && precision == Double {
			return len(b), nil
		}
	}

	kind := "real"
	if isComplex {
		kind = "complex"
	}

	return 0, errorf(ErrBufferType, "got %T, want %s %s", buf, precision, kind)
}
