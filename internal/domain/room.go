package domain

type RoomName string

const (
	// roomPrefix marks rooms provisioned for the office, so they are easy
	// to tell apart on the provider dashboard.
	roomPrefix = "co-"
	// MaxRoomNameLen is the provider's limit on room names.
	MaxRoomNameLen = 40

	idPrefixLen = 8
	lobbyName   = "lobby"
)

// RoomKey identifies a joinable room inside a space. An empty SubRoomID
// targets the space lobby.
type RoomKey struct {
	SpaceID   string
	SubRoomID string
}

// DeriveName builds the provider room name for this key. The derivation is
// deterministic: two users with the same key always land in the same room.
func (k RoomKey) DeriveName() RoomName {
	suffix := lobbyName
	if k.SubRoomID != "" {
		suffix = clampID(k.SubRoomID)
	}
	name := roomPrefix + clampID(k.SpaceID) + "-" + suffix
	if len(name) > MaxRoomNameLen {
		name = name[:MaxRoomNameLen]
	}
	return RoomName(name)
}

// IsLobby reports whether this key targets the space lobby.
func (k RoomKey) IsLobby() bool { return k.SubRoomID == "" }

func clampID(id string) string {
	if len(id) > idPrefixLen {
		return id[:idPrefixLen]
	}
	return id
}
