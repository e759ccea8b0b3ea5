// Package proximity decides, on a fixed tick, which peers' audio and video
// should be carried over the session based on 2D distance, and drives the
// continuous spatial volume applied to each peer's audio sink.
package proximity

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/app/identity"
	"github.com/dkeye/Atrium/internal/app/sched"
	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

// Intent is the desired subscription pair for one participant.
type Intent struct {
	Audio bool
	Video bool
}

// Config holds the spatial thresholds. AudioRangeMultiplier > 1 gives the
// hysteresis gap: audio fades in before video turns on and survives brief
// border-crossing jitter without flapping.
type Config struct {
	VideoRange           float64
	AudioRangeMultiplier float64
	DifferentRoomDamping float64
	Tick                 time.Duration
}

func (c Config) audioRange() float64 { return c.VideoRange * c.AudioRangeMultiplier }

// SinkSource gives the engine access to per-participant audio sinks.
type SinkSource interface {
	Sink(sid domain.SessionID) (core.AudioSink, bool)
}

// LocalState reports the local user's current position and room.
type LocalState func() (domain.Position, string)

type Engine struct {
	cfg      Config
	presence core.PresenceSource
	ids      *identity.Resolver
	sinks    SinkSource
	local    LocalState

	mu      sync.Mutex
	last    map[domain.SessionID]Intent
	session core.ProviderSession
	runner  sched.Runner
}

func NewEngine(cfg Config, presence core.PresenceSource, ids *identity.Resolver, sinks SinkSource, local LocalState) *Engine {
	return &Engine{
		cfg:      cfg,
		presence: presence,
		ids:      ids,
		sinks:    sinks,
		local:    local,
		last:     make(map[domain.SessionID]Intent),
	}
}

// Start begins ticking against a joined session. The tick runs only while
// the session stays joined; Stop tears the timer down with it.
func (e *Engine) Start(ctx context.Context, session core.ProviderSession) {
	e.mu.Lock()
	e.session = session
	e.mu.Unlock()
	e.runner.Start(ctx, e.cfg.Tick, e.tick)
	log.Info().Str("module", "proximity").Dur("tick", e.cfg.Tick).Msg("engine started")
}

// Stop cancels the tick and clears the session handle. Last-applied intents
// are reset so a later rejoin starts from a clean slate.
func (e *Engine) Stop() {
	e.runner.Stop()
	e.mu.Lock()
	e.session = nil
	e.last = make(map[domain.SessionID]Intent)
	e.mu.Unlock()
	log.Info().Str("module", "proximity").Msg("engine stopped")
}

// Running reports whether the tick is live.
func (e *Engine) Running() bool { return e.runner.Running() }

// Forget drops the last-applied intent for a departed participant.
func (e *Engine) Forget(sid domain.SessionID) {
	e.mu.Lock()
	delete(e.last, sid)
	e.mu.Unlock()
}

func (e *Engine) tick(ctx context.Context) {
	e.mu.Lock()
	session := e.session
	e.mu.Unlock()
	if session == nil {
		return
	}

	localPos, localRoom := e.local()
	for _, peer := range e.presence.Snapshot() {
		sid, ok := e.ids.SessionOf(peer.PeerID)
		if !ok {
			continue
		}
		d := localPos.DistanceTo(peer.Position)

		want := Intent{
			Audio: d <= e.cfg.audioRange(),
			Video: d <= e.cfg.VideoRange,
		}
		e.apply(ctx, session, sid, want)

		// Volume is a local, no-network operation, deliberately separate
		// from the discrete subscribe decision.
		if sink, ok := e.sinks.Sink(sid); ok {
			sink.SetVolume(Volume(d, e.cfg.audioRange(), e.cfg.DifferentRoomDamping, peer.RoomID == localRoom))
		}
	}
}

// apply diffs want against the last-applied intent and issues an update only
// on change, so stationary peers produce zero provider calls after the first
// tick. A failed update is not recorded as applied and retries next tick.
func (e *Engine) apply(ctx context.Context, session core.ProviderSession, sid domain.SessionID, want Intent) {
	e.mu.Lock()
	last, seen := e.last[sid]
	e.mu.Unlock()
	if seen && last == want {
		return
	}
	if err := session.UpdateSubscription(ctx, sid, want.Audio, want.Video); err != nil {
		log.Error().Err(err).Str("module", "proximity").Str("sid", string(sid)).Msg("subscription update failed")
		return
	}
	e.mu.Lock()
	e.last[sid] = want
	e.mu.Unlock()
	log.Debug().Str("module", "proximity").Str("sid", string(sid)).Bool("audio", want.Audio).Bool("video", want.Video).Msg("subscription updated")
}

// Volume is the continuous spatial volume: linear falloff from 1.0 at
// distance 0 to 0 at or beyond the audio range boundary, damped when the
// peer is in a different room.
func Volume(distance, audioRange, damping float64, sameRoom bool) float64 {
	if audioRange <= 0 || distance >= audioRange {
		return 0
	}
	v := 1 - distance/audioRange
	if v < 0 {
		v = 0
	}
	if !sameRoom {
		v *= damping
	}
	return v
}
