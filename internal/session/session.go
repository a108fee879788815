package session

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a session is not found.
var ErrNotFound = errors.New("session not found")

// DefaultTTL applies when a caller asks for a non-positive lifetime.
const DefaultTTL = 24 * time.Hour

// Session is the server-side record behind an opaque token.
type Session struct {
	ID             string    `json:"id"`
	TokenHash      string    `json:"-"`
	UserID         string    `json:"user_id"`
	UserEmail      string    `json:"user_email"`
	IPAddress      string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
	DeviceInfo     string    `json:"device_info"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ValidAt reports whether the session may authenticate a request at now.
func (s Session) ValidAt(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}

// Metadata is advisory request information recorded with a session.
type Metadata struct {
	IPAddress  string
	UserAgent  string
	DeviceInfo string
}
