package core

import (
	"context"

	"github.com/dkeye/Atrium/internal/domain"
)

// JoinRequest carries everything the provider needs to admit the local user.
// UserName embeds the stable id out-of-band (domain.EncodeUserName); Metadata
// duplicates it because the field carrying it may differ by call.
type JoinRequest struct {
	URL      string
	UserName string
	Metadata string
}

// ParticipantInfo is the provider's view of one remote participant.
type ParticipantInfo struct {
	Session      domain.SessionID
	Provider     domain.ProviderID
	UserName     string
	Metadata     string
	AudioEnabled bool
	VideoEnabled bool
}

// SessionSnapshot is the provider's own "current state" view. It may lag the
// event stream; the track reconciliation poll exists for exactly that gap.
type SessionSnapshot struct {
	Local        []LocalTrack
	Participants []ParticipantInfo
}

// ProviderSession abstracts the real-time communication provider.
// Owned by the lifecycle controller; the controller must Destroy() it.
type ProviderSession interface {
	Join(ctx context.Context, req JoinRequest) error
	Leave(ctx context.Context) error
	// UpdateSubscription changes which of the participant's tracks are
	// carried over the session.
	UpdateSubscription(ctx context.Context, sid domain.SessionID, wantAudio, wantVideo bool) error
	Snapshot() SessionSnapshot
	// Destroy releases the session object. No events fire afterwards.
	Destroy()
}

// EventHandler receives adapter-produced events. Registered exactly once per
// session, at creation; re-registering handlers is a bug.
type EventHandler func(Event)

type SessionFactory interface {
	NewSession(providerDomain string, h EventHandler) (ProviderSession, error)
}
