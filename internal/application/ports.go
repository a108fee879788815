package application

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=application

// Repository defines the contract for loan application storage.
type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	List(ctx context.Context, q Query) ([]Application, int, error)
	// UpdateStatus writes to only if the stored status still equals from.
	// It returns ErrConcurrentUpdate when it does not, ErrNotFound when the row is gone.
	UpdateStatus(ctx context.Context, id string, from string, to Status, notes *string) (Application, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}
