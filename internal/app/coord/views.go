package coord

import (
	"github.com/dkeye/Atrium/internal/app/callerr"
	"github.com/dkeye/Atrium/internal/app/tracks"
	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

// Views returns read-only rendering surfaces for all remote participants.
func (c *Controller) Views() []tracks.ParticipantView {
	return c.remote.Views()
}

// View returns the rendering surface for one participant.
func (c *Controller) View(sid domain.SessionID) (tracks.ParticipantView, bool) {
	return c.remote.View(sid)
}

// LocalStream returns the assembled outgoing stream.
func (c *Controller) LocalStream() core.Stream {
	return c.local.Stream()
}

// JoinedURL reports the current room URL, empty when not joined.
func (c *Controller) JoinedURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joinedURL
}

// CurrentError is the single current classified error, or nil.
func (c *Controller) CurrentError() *callerr.Classified {
	return c.errs.Get()
}

// ClearError dismisses the current error.
func (c *Controller) ClearError() {
	c.errs.Clear()
}
