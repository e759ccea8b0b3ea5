package core

import "github.com/dkeye/Atrium/internal/domain"

// PresencePeer is one record of the read-only presence feed.
type PresencePeer struct {
	PeerID       domain.UserID   `json:"peer_id"`
	Position     domain.Position `json:"position"`
	RoomID       string          `json:"room_id"`
	AudioEnabled bool            `json:"audio_enabled"`
	VideoEnabled bool            `json:"video_enabled"`
}

// PresenceSource exposes the latest known peer positions. The coordinator
// only reads presence, it never writes to it.
type PresenceSource interface {
	Snapshot() []PresencePeer
}
