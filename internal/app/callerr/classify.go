// Package callerr maps provider and network failures into the small taxonomy
// the UI presents. Classified errors are published, never thrown across the
// session boundary into rendering code.
package callerr

import (
	"errors"
	"fmt"
	"strings"
)

type Class int

const (
	Unknown Class = iota
	NetworkUnreachable
	PaymentRequired
	CorruptedSession
	DuplicateSession
)

func (c Class) String() string {
	switch c {
	case NetworkUnreachable:
		return "network-unreachable"
	case PaymentRequired:
		return "payment-required"
	case CorruptedSession:
		return "corrupted-session"
	case DuplicateSession:
		return "duplicate-session"
	default:
		return "unknown"
	}
}

// userMessages are what the UI shows per class. Unknown keeps the raw
// provider message instead.
var userMessages = map[Class]string{
	NetworkUnreachable: "Network error: check your connection and try again.",
	PaymentRequired:    "The call service reported a billing problem. Audio and video are unavailable.",
	CorruptedSession:   "The call session is no longer valid. Reload the page to reconnect.",
	DuplicateSession:   "Another call session is already active for this user. Reload the page.",
}

// patterns are matched in order against the lowercased provider message.
// The first hit wins; anything unmatched becomes Unknown.
var patterns = []struct {
	class Class
	subs  []string
}{
	{DuplicateSession, []string{"duplicate", "already joined", "already in a session"}},
	{CorruptedSession, []string{"corrupt", "destroyed", "no longer available"}},
	{PaymentRequired, []string{"payment", "billing", "account suspended"}},
	{NetworkUnreachable, []string{"network", "unreachable", "connection refused", "no such host", "timeout", "timed out"}},
}

// Classified carries the class, the user-facing message and the raw cause.
type Classified struct {
	Class Class
	Raw   error
}

func (e *Classified) Error() string {
	return fmt.Sprintf("%s: %v", e.Class, e.Raw)
}

func (e *Classified) Unwrap() error { return e.Raw }

// UserMessage is the human-readable string the UI shows prominently.
func (e *Classified) UserMessage() string {
	if msg, ok := userMessages[e.Class]; ok {
		return msg
	}
	return e.Raw.Error()
}

// Fatal reports whether in-place recovery is pointless and the user should
// reload instead.
func (e *Classified) Fatal() bool {
	return e.Class == CorruptedSession || e.Class == DuplicateSession
}

// Classify pattern-matches err against known provider substrings. A nil err
// returns nil; an already classified err, wrapped or not, passes through
// unchanged.
func Classify(err error) *Classified {
	if err == nil {
		return nil
	}
	var ce *Classified
	if errors.As(err, &ce) {
		return ce
	}
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		for _, sub := range p.subs {
			if strings.Contains(msg, sub) {
				return &Classified{Class: p.class, Raw: err}
			}
		}
	}
	return &Classified{Class: Unknown, Raw: err}
}
