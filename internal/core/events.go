package core

import "github.com/dkeye/Atrium/internal/domain"

// Event is the closed set of provider occurrences the coordinator reacts to.
// Only the provider adapter produces events; core logic switches over the
// concrete types instead of inspecting ad-hoc payload fields.
type Event interface{ isEvent() }

type LocalTrackStarted struct{ Track LocalTrack }

type LocalTrackStopped struct {
	Kind    TrackKind
	TrackID string
}

type RemoteTrackStarted struct {
	Session domain.SessionID
	Track   RemoteTrack
}

type RemoteTrackStopped struct {
	Session domain.SessionID
	Kind    TrackKind
	TrackID string
}

type ParticipantJoined struct{ Info ParticipantInfo }

type ParticipantUpdated struct{ Info ParticipantInfo }

type ParticipantLeft struct{ Session domain.SessionID }

type SessionError struct{ Err error }

func (LocalTrackStarted) isEvent()  {}
func (LocalTrackStopped) isEvent()  {}
func (RemoteTrackStarted) isEvent() {}
func (RemoteTrackStopped) isEvent() {}
func (ParticipantJoined) isEvent()  {}
func (ParticipantUpdated) isEvent() {}
func (ParticipantLeft) isEvent()    {}
func (SessionError) isEvent()       {}
