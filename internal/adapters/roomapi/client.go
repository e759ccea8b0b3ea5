// Package roomapi is the HTTP client for the room-creation endpoint. The
// coordinator never constructs room URLs itself except via this endpoint.
package roomapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

const requestTimeout = 10 * time.Second

type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: requestTimeout},
	}
}

type createRequest struct {
	RoomName string `json:"roomName"`
}

// errorBody mirrors the endpoint's non-2xx payload: the message lives in
// either `error` or `details.info` depending on the failure.
type errorBody struct {
	Error   string `json:"error"`
	Details struct {
		Info string `json:"info"`
	} `json:"details"`
}

func (c *Client) CreateRoom(ctx context.Context, name domain.RoomName) (core.RoomInfo, error) {
	body, err := json.Marshal(createRequest{RoomName: string(name)})
	if err != nil {
		return core.RoomInfo{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/rooms", bytes.NewReader(body))
	if err != nil {
		return core.RoomInfo{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return core.RoomInfo{}, fmt.Errorf("room endpoint network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		msg := eb.Error
		if msg == "" {
			msg = eb.Details.Info
		}
		if msg == "" {
			msg = resp.Status
		}
		log.Error().Str("module", "roomapi").Str("room", string(name)).Int("status", resp.StatusCode).Str("msg", msg).Msg("create room failed")
		return core.RoomInfo{}, fmt.Errorf("room endpoint: %s", msg)
	}

	var info core.RoomInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return core.RoomInfo{}, fmt.Errorf("room endpoint bad response: %w", err)
	}
	return info, nil
}
