package presence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

// scriptedServer upgrades the first connection and writes each message in
// order, then holds the connection open until the test ends.
func scriptedServer(t *testing.T, messages ...string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func peerIDs(peers []core.PresencePeer) []domain.UserID {
	out := make([]domain.UserID, 0, len(peers))
	for _, p := range peers {
		out = append(out, p.PeerID)
	}
	return out
}

func TestFeedSnapshotReplacesState(t *testing.T) {
	url := scriptedServer(t,
		`{"type":"snapshot","peers":[{"peer_id":"stale"}]}`,
		`{"type":"snapshot","peers":[{"peer_id":"u1","position":{"x":10,"y":20},"room_id":"lobby"},{"peer_id":"u2"}]}`,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := NewFeed(url)
	require.NoError(t, f.Start(ctx))

	assert.Eventually(t, func() bool { return len(f.Snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	peers := f.Snapshot()
	assert.ElementsMatch(t, []domain.UserID{"u1", "u2"}, peerIDs(peers))
	for _, p := range peers {
		if p.PeerID == "u1" {
			assert.Equal(t, domain.Position{X: 10, Y: 20}, p.Position)
			assert.Equal(t, "lobby", p.RoomID)
		}
	}
}

func TestFeedUpdateAndLeave(t *testing.T) {
	url := scriptedServer(t,
		`{"type":"snapshot","peers":[{"peer_id":"u1"},{"peer_id":"u2"}]}`,
		`{"type":"update","peer":{"peer_id":"u1","position":{"x":5,"y":0}}}`,
		`{"type":"leave","peer_id":"u2"}`,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := NewFeed(url)
	require.NoError(t, f.Start(ctx))

	assert.Eventually(t, func() bool {
		peers := f.Snapshot()
		return len(peers) == 1 && peers[0].PeerID == "u1" && peers[0].Position.X == 5
	}, time.Second, 5*time.Millisecond)
}

func TestFeedIgnoresMalformedAndUnknownMessages(t *testing.T) {
	url := scriptedServer(t,
		`not json`,
		`{"type":"presence-ping"}`,
		`{"type":"update","peer":{"peer_id":"u1"}}`,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := NewFeed(url)
	require.NoError(t, f.Start(ctx))

	assert.Eventually(t, func() bool { return len(f.Snapshot()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestFeedDialFailure(t *testing.T) {
	f := NewFeed("ws://127.0.0.1:1/api/ws/presence")
	err := f.Start(context.Background())
	require.Error(t, err)
	assert.Empty(t, f.Snapshot())
}
