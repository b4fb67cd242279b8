package session

import (
	"errors"

	"campus-results/result-queue-server/pkg/result"
)

var (
	// Identity already holds a live session.
	ErrDuplicateSession = errors.New("active session exists for this roll number")
)

// Session is one authenticated, time bounded grant of access to the
// result endpoints. At most one live session per roll number.
type Session struct {
	RollNo string `json:"rollNo"`

	// The signed bearer credential. Self describing, but the record
	// keyed by it is the authoritative liveness check.
	Credential string `json:"token"`

	Selection result.Selection `json:"selection"`

	// Unix msec bounds. ExpiresAt = CreatedAt + session duration, and
	// the record ttl enforces it.
	CreatedAt int64 `json:"createdAt"`
	ExpiresAt int64 `json:"expiresAt"`
}
