// Package smtpconfig stores the SMTP account edited from the back office and
// serves it to the notification SMTP driver.
package smtpconfig

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("smtp settings not found")

type Settings struct {
	ID        string    `json:"id"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	FromEmail string    `json:"from_email"`
	FromName  string    `json:"from_name"`
	UseTLS    bool      `json:"use_tls"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}
