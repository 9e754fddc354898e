package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/circuitlab/internal/validate"
)

func TestWorkerPool_RejectsWhenFull(t *testing.T) {
	// No workers: nothing drains the queue.
	p := newWorkerPool[int, int](context.Background(), 0, 2, func(_ context.Context, n int) (int, error) {
		return n, nil
	})
	assert.True(t, p.Submit(1, nil))
	assert.True(t, p.Submit(2, nil))
	assert.False(t, p.Submit(3, nil))
	assert.Equal(t, 2, p.QueueLen())
	assert.Equal(t, 2, p.QueueCap())
}

func TestWorkerPool_SubmitWaitHonoursContext(t *testing.T) {
	p := newWorkerPool[int, int](context.Background(), 0, 1, func(_ context.Context, n int) (int, error) {
		return n, nil
	})
	require.True(t, p.Submit(1, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.SubmitWait(ctx, 2, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWorkerPool_DrainRunsQueuedJobs(t *testing.T) {
	var sum atomic.Int64
	p := newWorkerPool[int, int](context.Background(), 2, 16, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})
	for i := 1; i <= 10; i++ {
		require.True(t, p.Submit(i, func(r int, err error) {
			sum.Add(int64(r))
		}))
	}
	p.Drain()
	assert.Equal(t, int64(110), sum.Load())

	assert.False(t, p.Submit(1, nil), "closed pool accepts nothing")
	assert.ErrorIs(t, p.SubmitWait(context.Background(), 1, nil), errPoolClosed)
	p.Drain()
}

func TestMemo_EvictsOldest(t *testing.T) {
	m := newMemo(2)
	m.put([]byte("a"), Outcome{Variant: validate.VariantLED})
	m.put([]byte("b"), Outcome{Variant: validate.VariantVehicle})
	m.put([]byte("a"), Outcome{Variant: validate.VariantVehicle}) // refresh, no eviction
	require.Equal(t, 2, m.count())

	m.put([]byte("c"), Outcome{})
	assert.Equal(t, 2, m.count())
	_, ok := m.get([]byte("a"))
	assert.False(t, ok, "oldest entry evicted")
	o, ok := m.get([]byte("b"))
	assert.True(t, ok)
	assert.Equal(t, validate.VariantVehicle, o.Variant)
}

func TestMemo_DisabledWhenSizeZero(t *testing.T) {
	m := newMemo(0)
	assert.Nil(t, m)
	m.put([]byte("a"), Outcome{})
	_, ok := m.get([]byte("a"))
	assert.False(t, ok)
	assert.Equal(t, 0, m.count())
}
