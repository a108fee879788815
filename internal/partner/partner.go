package partner

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("partner not found")

// Partner is a lender or institution whose logo appears on the public site.
type Partner struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LogoURL     string    `json:"logo_url"`
	WebsiteURL  string    `json:"website_url,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
