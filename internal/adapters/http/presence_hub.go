package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeDeadline = 5 * time.Second

// PresenceHub fans the latest peer positions out to every connected client.
// Clients send their own presence record; the hub rebroadcasts a full
// snapshot on every change and a leave message when a client drops.
type PresenceHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]domain.UserID
	peers map[domain.UserID]core.PresencePeer
}

func NewPresenceHub() *PresenceHub {
	return &PresenceHub{
		conns: make(map[*websocket.Conn]domain.UserID),
		peers: make(map[domain.UserID]core.PresencePeer),
	}
}

func (h *PresenceHub) HandlePresence(ctx context.Context, c *gin.Context) {
	sid := c.GetString("client_token")
	log.Info().Str("module", "presencehub").Str("sid", sid).Msg("new presence connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}

	h.mu.Lock()
	h.conns[ws] = ""
	h.mu.Unlock()

	h.sendSnapshot(ws)
	go h.readPump(ctx, ws)
}

func (h *PresenceHub) readPump(ctx context.Context, ws *websocket.Conn) {
	defer func() {
		h.drop(ws)
		_ = ws.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			var peer core.PresencePeer
			if err := json.Unmarshal(data, &peer); err != nil || peer.PeerID == "" {
				log.Warn().Str("module", "presencehub").Msg("bad presence record")
				continue
			}
			h.mu.Lock()
			h.conns[ws] = peer.PeerID
			h.peers[peer.PeerID] = peer
			h.mu.Unlock()
			h.broadcastSnapshot()
		}
	}
}

func (h *PresenceHub) drop(ws *websocket.Conn) {
	h.mu.Lock()
	uid := h.conns[ws]
	delete(h.conns, ws)
	if uid != "" {
		delete(h.peers, uid)
	}
	h.mu.Unlock()
	if uid != "" {
		h.broadcast(map[string]any{"type": "leave", "peer_id": uid})
	}
	log.Info().Str("module", "presencehub").Str("peer", string(uid)).Msg("presence connection dropped")
}

func (h *PresenceHub) snapshotMsg() map[string]any {
	h.mu.Lock()
	peers := make([]core.PresencePeer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()
	return map[string]any{"type": "snapshot", "peers": peers}
}

func (h *PresenceHub) sendSnapshot(ws *websocket.Conn) {
	h.send(ws, h.snapshotMsg())
}

func (h *PresenceHub) broadcastSnapshot() {
	h.broadcast(h.snapshotMsg())
}

func (h *PresenceHub) broadcast(v any) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for ws := range h.conns {
		conns = append(conns, ws)
	}
	h.mu.Unlock()
	for _, ws := range conns {
		h.send(ws, v)
	}
}

func (h *PresenceHub) send(ws *websocket.Conn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "presencehub").Msg("marshal")
		return
	}
	_ = ws.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Error().Err(err).Str("module", "presencehub").Msg("write error")
	}
}
