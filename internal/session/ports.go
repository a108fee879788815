package session

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=session

// Repository persists session rows. Reads return rows regardless of validity;
// the service decides validity.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (Session, error)
	GetByID(ctx context.Context, id string) (Session, error)
	ListByUserID(ctx context.Context, userID string) ([]Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Deactivate(ctx context.Context, id string) error
	DeactivateAllForUser(ctx context.Context, userID string) (int64, error)
	// ExtendActive sets expires_at only while the row is still active and unexpired at now.
	ExtendActive(ctx context.Context, id string, expiresAt, now time.Time) (bool, error)
	DeleteInvalid(ctx context.Context, now time.Time) (int64, error)
}
