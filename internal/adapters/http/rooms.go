package http

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

// RoomStore provisions dev room URLs, idempotent per name: the first request
// creates, later ones return the same URL with created=false, matching the
// endpoint contract the resolver expects.
type RoomStore struct {
	providerDomain string

	mu     sync.Mutex
	byName map[domain.RoomName]string
}

func NewRoomStore(providerDomain string) *RoomStore {
	return &RoomStore{
		providerDomain: providerDomain,
		byName:         make(map[domain.RoomName]string),
	}
}

type createRoomRequest struct {
	RoomName string `json:"roomName"`
}

func (s *RoomStore) HandleCreate(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RoomName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid roomName"})
		return
	}
	if len(req.RoomName) > domain.MaxRoomNameLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomName too long"})
		return
	}

	name := domain.RoomName(req.RoomName)
	s.mu.Lock()
	url, ok := s.byName[name]
	if !ok {
		url = "https://" + s.providerDomain + "/" + req.RoomName + "-" + uuid.NewString()[:8]
		s.byName[name] = url
	}
	s.mu.Unlock()

	log.Info().Str("module", "adapters.http").Str("room", req.RoomName).Bool("created", !ok).Msg("room provisioned")
	c.JSON(http.StatusOK, core.RoomInfo{URL: url, Name: req.RoomName, Created: !ok})
}
