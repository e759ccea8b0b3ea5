package callerr

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Current holds the single current error value shown to the user.
// Last write wins; Clear is the explicit dismiss operation.
type Current struct {
	mu  sync.RWMutex
	err *Classified
}

func NewCurrent() *Current { return &Current{} }

func (c *Current) Set(err error) {
	ce := Classify(err)
	if ce == nil {
		return
	}
	c.mu.Lock()
	c.err = ce
	c.mu.Unlock()
	log.Warn().Str("module", "callerr").Str("class", ce.Class.String()).Err(ce.Raw).Msg("current error set")
}

func (c *Current) Clear() {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
}

// Get returns the current error, or nil when there is none.
func (c *Current) Get() *Classified {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}
