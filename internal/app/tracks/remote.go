package tracks

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

// ParticipantView is the read-only rendering surface per participant.
// Stream is the camera video track, nil until one arrives; screen shares are
// a separate list and never overwrite the camera slot.
type ParticipantView struct {
	Session      domain.SessionID
	Name         string
	AudioEnabled bool
	VideoEnabled bool
	Stream       *core.RemoteTrack
	Screens      []core.RemoteTrack
}

// record holds one remote participant's per-kind slots and owned resources.
type record struct {
	session      domain.SessionID
	name         string
	audioEnabled bool
	videoEnabled bool
	audio        *core.RemoteTrack
	video        *core.RemoteTrack
	screens      []core.RemoteTrack
	sink         core.AudioSink
}

// RemoteSet applies the same slot logic as LocalSet per participant record.
type RemoteSet struct {
	mu      sync.RWMutex
	records map[domain.SessionID]*record
	sinks   core.SinkFactory
	keyFor  func(domain.SessionID) string
}

// NewRemoteSet builds the set. keyFor maps a transient id to the participant's
// stable key for sink addressing.
func NewRemoteSet(sinks core.SinkFactory, keyFor func(domain.SessionID) string) *RemoteSet {
	return &RemoteSet{
		records: make(map[domain.SessionID]*record),
		sinks:   sinks,
		keyFor:  keyFor,
	}
}

// Upsert creates or refreshes a record from a participant joined/updated event.
func (s *RemoteSet) Upsert(info core.ParticipantInfo, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[info.Session]
	if !ok {
		r = &record{session: info.Session}
		s.records[info.Session] = r
		log.Info().Str("module", "tracks").Str("sid", string(info.Session)).Msg("participant record created")
	}
	r.name = name
	r.audioEnabled = info.AudioEnabled
	r.videoEnabled = info.VideoEnabled
}

// TrackStarted routes a remote track into the participant's slot for its
// kind. Audio tracks are attached to the participant's playback sink, created
// on first use and reused thereafter.
func (s *RemoteSet) TrackStarted(sid domain.SessionID, t core.RemoteTrack) {
	s.mu.Lock()
	r, ok := s.records[sid]
	if !ok {
		r = &record{session: sid}
		s.records[sid] = r
	}
	var sink core.AudioSink
	switch t.Kind {
	case core.TrackAudio:
		r.audio = &t
		if r.sink == nil && s.sinks != nil {
			r.sink = s.sinks.NewSink(s.keyFor(sid))
		}
		sink = r.sink
	case core.TrackVideo:
		r.video = &t
	case core.TrackScreen:
		replaced := false
		for i := range r.screens {
			if r.screens[i].ID == t.ID {
				r.screens[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			r.screens = append(r.screens, t)
		}
	}
	s.mu.Unlock()

	if sink != nil {
		if err := sink.Play(t); err != nil {
			log.Error().Err(err).Str("module", "tracks").Str("sid", string(sid)).Msg("sink play failed")
		}
	}
}

// TrackStopped clears the slot for kind, ignoring out-of-order stops for
// already-replaced tracks.
func (s *RemoteSet) TrackStopped(sid domain.SessionID, kind core.TrackKind, trackID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[sid]
	if !ok {
		return
	}
	switch kind {
	case core.TrackAudio:
		if r.audio != nil && (trackID == "" || r.audio.ID == trackID) {
			r.audio = nil
		}
	case core.TrackVideo:
		if r.video != nil && (trackID == "" || r.video.ID == trackID) {
			r.video = nil
		}
	case core.TrackScreen:
		out := r.screens[:0]
		for _, t := range r.screens {
			if trackID != "" && t.ID != trackID {
				out = append(out, t)
			}
		}
		r.screens = out
	}
}

// Sink returns the participant's audio sink, if one was ever created.
func (s *RemoteSet) Sink(sid domain.SessionID) (core.AudioSink, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[sid]
	if !ok || r.sink == nil {
		return nil, false
	}
	return r.sink, true
}

// Drop destroys a participant record and every resource it owns.
// Mandatory on participant-left.
func (s *RemoteSet) Drop(sid domain.SessionID) {
	s.mu.Lock()
	r, ok := s.records[sid]
	delete(s.records, sid)
	s.mu.Unlock()
	if !ok {
		return
	}
	if r.sink != nil {
		r.sink.Close()
	}
	log.Info().Str("module", "tracks").Str("sid", string(sid)).Msg("participant record dropped")
}

// Clear drops every record. Called on leave and teardown.
func (s *RemoteSet) Clear() {
	s.mu.Lock()
	records := s.records
	s.records = make(map[domain.SessionID]*record)
	s.mu.Unlock()
	for _, r := range records {
		if r.sink != nil {
			r.sink.Close()
		}
	}
}

// View returns the rendering surface for one participant.
func (s *RemoteSet) View(sid domain.SessionID) (ParticipantView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[sid]
	if !ok {
		return ParticipantView{}, false
	}
	return r.view(), true
}

// Views returns the rendering surfaces for all current participants.
func (s *RemoteSet) Views() []ParticipantView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ParticipantView, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.view())
	}
	return out
}

func (r *record) view() ParticipantView {
	v := ParticipantView{
		Session:      r.session,
		Name:         r.name,
		AudioEnabled: r.audioEnabled,
		VideoEnabled: r.videoEnabled,
	}
	if r.video != nil {
		t := *r.video
		v.Stream = &t
	}
	v.Screens = append(v.Screens, r.screens...)
	return v
}

// Count reports the number of live records.
func (s *RemoteSet) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
