package sched

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunnerFiresUntilStop(t *testing.T) {
	var r Runner
	var ticks atomic.Int64
	r.Start(context.Background(), time.Millisecond, func(context.Context) { ticks.Add(1) })
	assert.True(t, r.Running())

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	r.Stop()
	assert.False(t, r.Running())
	settled := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, ticks.Load(), settled+1)
}

func TestRunnerStartWhileRunningIsNoop(t *testing.T) {
	var r Runner
	var first, second atomic.Int64
	r.Start(context.Background(), time.Millisecond, func(context.Context) { first.Add(1) })
	defer r.Stop()
	r.Start(context.Background(), time.Millisecond, func(context.Context) { second.Add(1) })

	assert.Eventually(t, func() bool { return first.Load() >= 2 }, time.Second, time.Millisecond)
	assert.Zero(t, second.Load())
}

func TestRunnerParentContextCancelStopsTicks(t *testing.T) {
	var r Runner
	var ticks atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx, time.Millisecond, func(context.Context) { ticks.Add(1) })
	cancel()

	time.Sleep(5 * time.Millisecond)
	settled := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, settled, ticks.Load())

	// The runner still thinks it owns an interval until Stop; Stop resets it.
	r.Stop()
	assert.False(t, r.Running())
}

func TestRunnerRestartDoesNotOverlap(t *testing.T) {
	var r Runner
	var active, maxActive atomic.Int32
	fn := func(context.Context) {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(3 * time.Millisecond)
		active.Add(-1)
	}

	for range 5 {
		r.Start(context.Background(), time.Millisecond, fn)
		time.Sleep(5 * time.Millisecond)
		r.Stop()
	}
	time.Sleep(20 * time.Millisecond)

	assert.LessOrEqual(t, maxActive.Load(), int32(1))
}

func TestRunnerStopFromInsideTick(t *testing.T) {
	var r Runner
	var ticks atomic.Int32
	r.Start(context.Background(), time.Millisecond, func(context.Context) {
		ticks.Add(1)
		r.Stop()
	})

	assert.Eventually(t, func() bool { return !r.Running() }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.EqualValues(t, 1, ticks.Load())
}

func TestRunnerStopIdempotent(t *testing.T) {
	var r Runner
	r.Start(context.Background(), time.Millisecond, func(context.Context) {})
	r.Stop()
	r.Stop()
	assert.False(t, r.Running())
}
