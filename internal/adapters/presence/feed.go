// Package presence consumes the read-only presence feed over a websocket
// and keeps the latest snapshot of peer positions for the proximity engine.
package presence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

const dialTimeout = 10 * time.Second

// Feed implements core.PresenceSource. The read pump lives between Start
// and ctx cancellation; the coordinator never writes to presence.
type Feed struct {
	url string

	mu    sync.RWMutex
	peers map[domain.UserID]core.PresencePeer
	conn  *websocket.Conn
}

func NewFeed(url string) *Feed {
	return &Feed{
		url:   url,
		peers: make(map[domain.UserID]core.PresencePeer),
	}
}

// Start dials the feed and runs the read pump until ctx is done.
func (f *Feed) Start(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()
	go f.readPump(ctx, conn)
	log.Info().Str("module", "presence").Str("url", f.url).Msg("feed connected")
	return nil
}

func (f *Feed) readPump(ctx context.Context, conn *websocket.Conn) {
	defer func() {
		log.Info().Str("module", "presence").Msg("readPump closing")
		_ = conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Error().Err(err).Str("module", "presence").Msg("readPump read error")
				return
			}
			f.handle(data)
		}
	}
}

func (f *Feed) handle(data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "presence").Msg("bad json")
		return
	}

	switch env.Type {
	case "snapshot":
		var msg struct {
			Peers []core.PresencePeer `json:"peers"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		f.mu.Lock()
		f.peers = make(map[domain.UserID]core.PresencePeer, len(msg.Peers))
		for _, p := range msg.Peers {
			f.peers[p.PeerID] = p
		}
		f.mu.Unlock()
	case "update":
		var msg struct {
			Peer core.PresencePeer `json:"peer"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		f.mu.Lock()
		f.peers[msg.Peer.PeerID] = msg.Peer
		f.mu.Unlock()
	case "leave":
		var msg struct {
			PeerID domain.UserID `json:"peer_id"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		f.mu.Lock()
		delete(f.peers, msg.PeerID)
		f.mu.Unlock()
	default:
		log.Warn().Str("module", "presence").Str("type", env.Type).Msg("unknown presence message")
	}
}

// Snapshot returns the latest known peers.
func (f *Feed) Snapshot() []core.PresencePeer {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.PresencePeer, 0, len(f.peers))
	for _, p := range f.peers {
		out = append(out, p)
	}
	return out
}
