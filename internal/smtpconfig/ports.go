package smtpconfig

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=smtpconfig

// Repository defines the contract for SMTP settings storage. At most one row is active.
type Repository interface {
	GetActive(ctx context.Context) (Settings, error)
	// Save inserts s when ID is empty, otherwise updates it, and makes it the only active row.
	Save(ctx context.Context, s *Settings) error
}
