package news

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=news

// Repository defines the contract for article storage.
type Repository interface {
	Create(ctx context.Context, a *Article) error
	GetByID(ctx context.Context, id string) (Article, error)
	GetBySlug(ctx context.Context, slug string) (Article, error)
	List(ctx context.Context, q ListQuery) ([]Article, int, error)
	Update(ctx context.Context, a *Article) error
	Delete(ctx context.Context, id string) error
}
