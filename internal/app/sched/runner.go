// Package sched provides interval runners whose goroutine lifetime is bound
// to the owning component: stopping the owner structurally stops the timer,
// instead of scattered clear-interval checks.
package sched

import (
	"context"
	"sync"
	"time"
)

// Runner drives fn on a fixed interval between Start and Stop.
// Start while running is a no-op; Stop is idempotent and safe to call from
// inside fn. A restart never overlaps the outgoing goroutine: the new one
// waits for the old one to drain before its first tick.
type Runner struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (r *Runner) Start(ctx context.Context, every time.Duration, fn func(ctx context.Context)) {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return
	}
	prev := r.done
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
}

func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Running reports whether the runner currently owns a live interval.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}
