package core

import (
	"context"

	"github.com/dkeye/Atrium/internal/domain"
)

// RoomInfo is the room-creation endpoint's success payload.
type RoomInfo struct {
	URL     string `json:"url"`
	Name    string `json:"name"`
	Created bool   `json:"created"`
}

// RoomEndpoint provisions provider rooms. The coordinator never constructs
// room URLs itself except via this endpoint.
type RoomEndpoint interface {
	CreateRoom(ctx context.Context, name domain.RoomName) (RoomInfo, error)
}
