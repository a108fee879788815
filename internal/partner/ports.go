package partner

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=partner

// Repository defines the contract for partner storage.
type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]Partner, error)
	GetByID(ctx context.Context, id string) (Partner, error)
	Create(ctx context.Context, p *Partner) error
	Update(ctx context.Context, p *Partner) error
	Delete(ctx context.Context, id string) error
}
