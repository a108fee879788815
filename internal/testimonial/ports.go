package testimonial

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=testimonial

// Repository defines the contract for testimonial storage.
type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]Testimonial, error)
	GetByID(ctx context.Context, id string) (Testimonial, error)
	Create(ctx context.Context, t *Testimonial) error
	Update(ctx context.Context, t *Testimonial) error
	Delete(ctx context.Context, id string) error
}
