package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveNameLobby(t *testing.T) {
	key := RoomKey{SpaceID: "abcdef1234567890"}
	assert.Equal(t, RoomName("co-abcdef12-lobby"), key.DeriveName())
	assert.True(t, key.IsLobby())
}

func TestDeriveNameSubRoom(t *testing.T) {
	key := RoomKey{SpaceID: "abcdef1234567890", SubRoomID: "meeting-room-7"}
	assert.Equal(t, RoomName("co-abcdef12-meeting-"), key.DeriveName())
	assert.False(t, key.IsLobby())
}

func TestDeriveNameDeterministic(t *testing.T) {
	a := RoomKey{SpaceID: "space-one", SubRoomID: "desk"}
	b := RoomKey{SpaceID: "space-one", SubRoomID: "desk"}
	assert.Equal(t, a.DeriveName(), b.DeriveName())
}

func TestDeriveNameShortIDs(t *testing.T) {
	key := RoomKey{SpaceID: "ab", SubRoomID: "x"}
	assert.Equal(t, RoomName("co-ab-x"), key.DeriveName())
}

func TestDeriveNameRespectsMaxLen(t *testing.T) {
	key := RoomKey{SpaceID: "aaaaaaaaaaaaaaaaaaaa", SubRoomID: "bbbbbbbbbbbbbbbbbbbb"}
	assert.LessOrEqual(t, len(key.DeriveName()), MaxRoomNameLen)
}
