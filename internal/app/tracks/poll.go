package tracks

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/app/sched"
	"github.com/dkeye/Atrium/internal/core"
)

// Poller covers the known race where the provider's current-participant
// snapshot lags its track-start events: a bounded number of short polls copy
// any track the snapshot knows about into the local set. It stops as soon as
// all expected kinds are present, or when the attempt budget runs out, and
// never later, so no timer outlives the session.
type Poller struct {
	interval time.Duration
	budget   int

	mu       sync.Mutex
	attempts int
	runner   sched.Runner
}

func NewPoller(interval time.Duration, budget int) *Poller {
	return &Poller{interval: interval, budget: budget}
}

// Start begins polling session snapshots into local. expected yields the
// kinds the user's current toggle state demands; it is re-read every attempt
// so toggles mid-poll are honored.
func (p *Poller) Start(ctx context.Context, session core.ProviderSession, local *LocalSet, expected func() []core.TrackKind) {
	p.mu.Lock()
	p.attempts = 0
	p.mu.Unlock()

	p.runner.Start(ctx, p.interval, func(ctx context.Context) {
		p.mu.Lock()
		p.attempts++
		n := p.attempts
		p.mu.Unlock()

		want := expected()
		if p.reconcile(session, local, want) || n >= p.budget {
			if n >= p.budget {
				log.Debug().Str("module", "tracks").Int("attempts", n).Msg("track poll budget exhausted")
			}
			p.runner.Stop()
		}
	})
}

// Stop cancels the poll. Idempotent.
func (p *Poller) Stop() { p.runner.Stop() }

// Running reports whether a poll is in flight.
func (p *Poller) Running() bool { return p.runner.Running() }

// reconcile copies missing expected tracks from the provider snapshot and
// reports whether every expected kind is now present.
func (p *Poller) reconcile(session core.ProviderSession, local *LocalSet, want []core.TrackKind) bool {
	snap := session.Snapshot()
	for _, t := range snap.Local {
		if t.Ended || local.Has(t.Kind) {
			continue
		}
		for _, kind := range want {
			if t.Kind == kind {
				local.Started(t)
				break
			}
		}
	}
	for _, kind := range want {
		if !local.Has(kind) {
			return false
		}
	}
	return true
}
