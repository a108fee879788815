package user

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an admin user is not found.
var ErrNotFound = errors.New("user not found")

// RoleAdmin is the only privilege tier.
const RoleAdmin = "admin"

// User is a back office account.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
