// Package identity reconciles the provider's transient participant ids with
// the application's stable user ids. The two are learned at different times,
// so resolution supports late binding on participant updates.
package identity

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

type Resolver struct {
	mu         sync.RWMutex
	bySession  map[domain.SessionID]domain.UserID
	byProvider map[domain.ProviderID]domain.UserID
	byUser     map[domain.UserID]domain.SessionID
	pending    map[domain.SessionID]struct{}
}

func NewResolver() *Resolver {
	return &Resolver{
		bySession:  make(map[domain.SessionID]domain.UserID),
		byProvider: make(map[domain.ProviderID]domain.UserID),
		byUser:     make(map[domain.UserID]domain.SessionID),
		pending:    make(map[domain.SessionID]struct{}),
	}
}

// Observe attempts resolution from a join or update event: the name field
// first, then metadata. Once resolved, the stable id never changes; repeat
// observations return the registered mapping. Unresolved participants are
// marked pending so a later update retries.
func (r *Resolver) Observe(info core.ParticipantInfo) (domain.UserID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if uid, ok := r.bySession[info.Session]; ok {
		return uid, true
	}

	uid, ok := extractStableID(info)
	if !ok {
		r.pending[info.Session] = struct{}{}
		log.Debug().Str("module", "identity").Str("sid", string(info.Session)).Msg("stable id not yet resolvable, pending")
		return "", false
	}

	r.bySession[info.Session] = uid
	r.byUser[uid] = info.Session
	if info.Provider != "" {
		r.byProvider[info.Provider] = uid
	}
	delete(r.pending, info.Session)
	log.Info().Str("module", "identity").Str("sid", string(info.Session)).Str("user", string(uid)).Msg("identity resolved")
	return uid, true
}

func extractStableID(info core.ParticipantInfo) (domain.UserID, bool) {
	if _, uid, ok := domain.DecodeUserName(info.UserName); ok {
		return uid, true
	}
	if info.Metadata != "" {
		return domain.UserID(info.Metadata), true
	}
	return "", false
}

// DisplayName strips the encoded stable id off the provider's name field.
func DisplayName(info core.ParticipantInfo) string {
	name, _, _ := domain.DecodeUserName(info.UserName)
	return name
}

func (r *Resolver) BySession(sid domain.SessionID) (domain.UserID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uid, ok := r.bySession[sid]
	return uid, ok
}

func (r *Resolver) ByProvider(pid domain.ProviderID) (domain.UserID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uid, ok := r.byProvider[pid]
	return uid, ok
}

// SessionOf is the reverse lookup used by the proximity engine to turn a
// presence peer into a subscribable participant.
func (r *Resolver) SessionOf(uid domain.UserID) (domain.SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sid, ok := r.byUser[uid]
	return sid, ok
}

// Pending reports whether a participant joined without a resolvable id.
func (r *Resolver) Pending(sid domain.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pending[sid]
	return ok
}

// StableKey is the key used everywhere a participant must be addressed
// (sinks, rendering, subscription maps): the stable id when resolved,
// otherwise the transient id as a stand-in, so the system stays internally
// consistent without identity resolution.
func (r *Resolver) StableKey(sid domain.SessionID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if uid, ok := r.bySession[sid]; ok {
		return string(uid)
	}
	return string(sid)
}

// Purge removes every mapping for a departed participant. A stale mapping
// surviving a leave/rejoin cycle under a new transient id is a correctness
// bug.
func (r *Resolver) Purge(sid domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if uid, ok := r.bySession[sid]; ok {
		delete(r.byUser, uid)
		for pid, mapped := range r.byProvider {
			if mapped == uid {
				delete(r.byProvider, pid)
			}
		}
	}
	delete(r.bySession, sid)
	delete(r.pending, sid)
	log.Info().Str("module", "identity").Str("sid", string(sid)).Msg("identity purged")
}

// Reset clears every mapping. Used on session teardown.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySession = make(map[domain.SessionID]domain.UserID)
	r.byProvider = make(map[domain.ProviderID]domain.UserID)
	r.byUser = make(map[domain.UserID]domain.SessionID)
	r.pending = make(map[domain.SessionID]struct{})
}
