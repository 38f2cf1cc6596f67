package mock

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fftexec "github.com/cwbudde/algo-fftexec"
)

func descriptor(t *testing.T) *fftexec.Descriptor {
	t.Helper()

	l := fftexec.ContiguousLayout(fftexec.Shape{8})
	desc, err := fftexec.NewDescriptor[float32](fftexec.KindC2C, l, l, fftexec.Axes{0}, true, fftexec.NormNone)
	require.NoError(t, err)

	return desc
}

func TestRecordsPlansAndCalls(t *testing.T) {
	t.Parallel()

	b := New(nil)
	desc := descriptor(t)

	p, err := b.NewPlan(desc)
	require.NoError(t, err)

	in := make([]complex64, 8)
	out := make([]complex64, 8)
	require.NoError(t, p.Execute(in, out))

	require.Len(t, b.Plans(), 1)
	assert.Same(t, desc, b.Plans()[0])

	calls := b.Calls()
	require.Len(t, calls, 1)
	assert.Same(t, desc, calls[0].Desc)
	assert.Same(t, &in[0], &calls[0].In.([]complex64)[0])

	b.Reset()
	assert.Empty(t, b.Calls())
}

func TestInjectedErrors(t *testing.T) {
	t.Parallel()

	planErr := errors.New("no plan")
	b := &Backend{PlanErr: planErr}

	_, err := b.NewPlan(descriptor(t))
	assert.ErrorIs(t, err, planErr)
	assert.Len(t, b.Plans(), 1, "failed plans are still recorded")

	execErr := errors.New("no execute")
	b = &Backend{ExecErr: execErr}

	p, err := b.NewPlan(descriptor(t))
	require.NoError(t, err)
	assert.ErrorIs(t, p.Execute(nil, nil), execErr)

	b.Panic = "boom"
	assert.PanicsWithValue(t, "boom", func() { _ = p.Execute(nil, nil) })
}

func TestConcurrentExecute(t *testing.T) {
	t.Parallel()

	b := New(nil)
	desc := descriptor(t)

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			p, err := b.NewPlan(desc)
			if err != nil {
				return
			}

			for range 10 {
				_ = p.Execute(nil, nil)
			}
		}()
	}

	wg.Wait()

	assert.Len(t, b.Plans(), 8)
	assert.Len(t, b.Calls(), 80)
}
