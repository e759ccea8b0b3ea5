// Package tracks merges per-kind media tracks, delivered asynchronously and
// out of order, into canonical streams: one assembled outgoing stream for the
// local user, and per-participant slots for remote tracks.
package tracks

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/core"
)

// LocalSet owns the kind→track map for the local user and the derived
// assembled outgoing stream, recomputed on every mutation. Consumers must
// only ever see live tracks, never stale ones.
type LocalSet struct {
	mu        sync.RWMutex
	streamID  string
	byKind    map[core.TrackKind]core.LocalTrack
	assembled core.Stream
	onChange  func(core.Stream)
}

func NewLocalSet(onChange func(core.Stream)) *LocalSet {
	s := &LocalSet{
		streamID: "local-" + uuid.NewString(),
		byKind:   make(map[core.TrackKind]core.LocalTrack),
		onChange: onChange,
	}
	s.assembled = core.Stream{ID: s.streamID}
	return s
}

// Started inserts or replaces the slot for the track's kind. Tracks that
// already ended are ignored.
func (s *LocalSet) Started(t core.LocalTrack) {
	if t.Ended {
		log.Debug().Str("module", "tracks").Str("kind", string(t.Kind)).Str("track_id", t.ID).Msg("ignoring ended local track")
		return
	}
	s.mu.Lock()
	s.byKind[t.Kind] = t
	stream := s.assembleLocked()
	s.mu.Unlock()
	s.publish(stream)
}

// Stopped removes the slot for kind. When trackID is set and a newer track
// already replaced the slot, the out-of-order stop is ignored.
func (s *LocalSet) Stopped(kind core.TrackKind, trackID string) {
	s.mu.Lock()
	cur, ok := s.byKind[kind]
	if !ok || (trackID != "" && cur.ID != trackID) {
		s.mu.Unlock()
		return
	}
	delete(s.byKind, kind)
	stream := s.assembleLocked()
	s.mu.Unlock()
	s.publish(stream)
}

// Has reports whether a live track of kind is present.
func (s *LocalSet) Has(kind core.TrackKind) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byKind[kind]
	return ok
}

// Stream returns the current assembled outgoing stream.
func (s *LocalSet) Stream() core.Stream {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assembled
}

// Clear empties the set. Called on leave and teardown.
func (s *LocalSet) Clear() {
	s.mu.Lock()
	s.byKind = make(map[core.TrackKind]core.LocalTrack)
	stream := s.assembleLocked()
	s.mu.Unlock()
	s.publish(stream)
}

// assembleLocked recomputes the stream as exactly the currently-live tracks,
// one per kind, in a fixed kind order.
func (s *LocalSet) assembleLocked() core.Stream {
	stream := core.Stream{ID: s.streamID}
	for _, kind := range []core.TrackKind{core.TrackAudio, core.TrackVideo, core.TrackScreen} {
		if t, ok := s.byKind[kind]; ok {
			stream.Tracks = append(stream.Tracks, t)
		}
	}
	s.assembled = stream
	return stream
}

func (s *LocalSet) publish(stream core.Stream) {
	if s.onChange != nil {
		s.onChange(stream)
	}
}
