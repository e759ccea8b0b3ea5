// Package sink owns per-participant audio playback elements, the client-side
// stand-in for the DOM audio nodes the renderer attaches. One element per
// stable key, created on first audio track, removed when its owner drops it.
package sink

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/core"
)

// Element is a single participant's playback sink.
type Element struct {
	key string
	reg *Registry

	mu     sync.Mutex
	track  core.RemoteTrack
	volume float64
	closed bool
}

func (e *Element) Play(t core.RemoteTrack) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return core.ErrSinkClosed
	}
	e.track = t
	log.Debug().Str("module", "sink").Str("key", e.key).Str("track_id", t.ID).Msg("playing track")
	return nil
}

// SetVolume applies spatial volume, clamped to [0,1].
func (e *Element) SetVolume(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	e.mu.Lock()
	e.volume = v
	e.mu.Unlock()
}

// Volume reports the last applied volume.
func (e *Element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *Element) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.track = core.RemoteTrack{}
	e.mu.Unlock()
	e.reg.remove(e.key)
	log.Debug().Str("module", "sink").Str("key", e.key).Msg("sink closed")
}

// Registry implements core.SinkFactory.
type Registry struct {
	mu    sync.Mutex
	byKey map[string]*Element
}

func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*Element)}
}

// NewSink returns the element for key, creating it on first use. Reuse keeps
// one playback element per participant across track replacements.
func (r *Registry) NewSink(key string) core.AudioSink {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.byKey[key]; ok {
		return e
	}
	e := &Element{key: key, reg: r, volume: 1}
	r.byKey[key] = e
	return e
}

func (r *Registry) remove(key string) {
	r.mu.Lock()
	delete(r.byKey, key)
	r.mu.Unlock()
}

// Count reports live elements; zero after a full teardown.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}
