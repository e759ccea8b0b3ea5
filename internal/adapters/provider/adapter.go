// Package provider normalizes the communication provider's loosely-typed
// event payloads into the closed core.Event set. The payload shape varies by
// event and by local/remote origin; all of that inspection lives here, at
// the boundary, so core logic only ever pattern-matches typed variants.
package provider

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

// Payload is the duck-typed event the provider SDK delivers.
type Payload struct {
	Action string
	Local  bool
	// Participant fields; present on participant and remote track events.
	SessionID    string
	ProviderID   string
	UserName     string
	Metadata     string
	AudioEnabled bool
	VideoEnabled bool
	// Track fields; present on track events.
	TrackID   string
	TrackKind string
	Ended     bool
	Message   string
}

// Binder feeds normalized events to a single handler.
type Binder struct {
	handler core.EventHandler
}

func NewBinder(h core.EventHandler) *Binder {
	return &Binder{handler: h}
}

// Handle translates one payload. Unknown actions are logged and dropped;
// they never reach core logic.
func (b *Binder) Handle(p Payload) {
	ev, ok := translate(p)
	if !ok {
		log.Warn().Str("module", "provider").Str("action", p.Action).Msg("unknown provider event")
		return
	}
	b.handler(ev)
}

func translate(p Payload) (core.Event, bool) {
	switch p.Action {
	case "track-started":
		kind := ParseKind(p.TrackKind)
		if p.Local {
			return core.LocalTrackStarted{Track: core.LocalTrack{
				ID:    p.TrackID,
				Kind:  kind,
				Ended: p.Ended,
			}}, true
		}
		return core.RemoteTrackStarted{
			Session: domain.SessionID(p.SessionID),
			Track:   core.RemoteTrack{ID: p.TrackID, Kind: kind},
		}, true
	case "track-stopped":
		kind := ParseKind(p.TrackKind)
		if p.Local {
			return core.LocalTrackStopped{Kind: kind, TrackID: p.TrackID}, true
		}
		return core.RemoteTrackStopped{
			Session: domain.SessionID(p.SessionID),
			Kind:    kind,
			TrackID: p.TrackID,
		}, true
	case "participant-joined":
		return core.ParticipantJoined{Info: participantInfo(p)}, true
	case "participant-updated":
		return core.ParticipantUpdated{Info: participantInfo(p)}, true
	case "participant-left":
		return core.ParticipantLeft{Session: domain.SessionID(p.SessionID)}, true
	case "error":
		return core.SessionError{Err: errors.New(p.Message)}, true
	default:
		return nil, false
	}
}

func participantInfo(p Payload) core.ParticipantInfo {
	return core.ParticipantInfo{
		Session:      domain.SessionID(p.SessionID),
		Provider:     domain.ProviderID(p.ProviderID),
		UserName:     p.UserName,
		Metadata:     p.Metadata,
		AudioEnabled: p.AudioEnabled,
		VideoEnabled: p.VideoEnabled,
	}
}

// ParseKind maps the provider's track kind strings onto ours. Screen share
// is distinguished from the camera video kind so it never lands in the
// camera slot.
func ParseKind(s string) core.TrackKind {
	switch s {
	case "audio", "screenAudio":
		return core.TrackAudio
	case "screenVideo", "screen":
		return core.TrackScreen
	default:
		return core.TrackVideo
	}
}
