// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const (
	MaxUserIDLen      = 36
	MaxDisplayNameLen = 36

	// NameDelimiter separates display name and stable id in the
	// provider's user-name field (`name|stableId`).
	NameDelimiter = "|"
)

var (
	ErrNameTooLong = errors.New("display name too long")
	ErrNameEmpty   = errors.New("display name empty")
)

type (
	// UserID is the application's durable user identifier.
	UserID string
	// SessionID is the provider's transient participant id, valid for one join.
	SessionID string
	// ProviderID is the provider-assigned alternate user id.
	ProviderID string
)

// User is the local user's profile as the coordinator needs it.
type User struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id UserID, name string) (*User, error) {
	if len(name) == 0 {
		return nil, ErrNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return nil, ErrNameTooLong
	}
	return &User{ID: id, Name: name}, nil
}

// EncodeUserName packs the stable id into the display-name field so peers
// can recover it out-of-band.
func EncodeUserName(name string, id UserID) string {
	return name + NameDelimiter + string(id)
}

// DecodeUserName splits a `name|stableId` value. ok is false when the field
// carries a plain name with no embedded id.
func DecodeUserName(s string) (name string, id UserID, ok bool) {
	i := strings.LastIndex(s, NameDelimiter)
	if i < 0 || i == len(s)-1 {
		return s, "", false
	}
	return s[:i], UserID(s[i+1:]), true
}
