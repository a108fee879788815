package user

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NormalizeEmail is applied to every email before it reaches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

// EnsureAdmin creates the admin account or resets its name and password.
func (s *Service) EnsureAdmin(ctx context.Context, email, name, passwordHash string) (User, error) {
	u := &User{
		Email:        NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		Role:         RoleAdmin,
	}
	if err := s.repo.Upsert(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *Service) RecordLogin(ctx context.Context, id string, at time.Time) error {
	return s.repo.UpdateLastLogin(ctx, id, at)
}
