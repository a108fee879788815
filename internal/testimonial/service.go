package testimonial

import (
	"context"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Name      string
	Role      string
	Company   string
	Content   string
	Rating    int
	AvatarURL string
	IsActive  bool
	SortOrder int
}

func (in Input) applyTo(t *Testimonial) {
	t.Name = strings.TrimSpace(in.Name)
	t.Role = strings.TrimSpace(in.Role)
	t.Company = strings.TrimSpace(in.Company)
	t.Content = strings.TrimSpace(in.Content)
	t.Rating = in.Rating
	t.AvatarURL = strings.TrimSpace(in.AvatarURL)
	t.IsActive = in.IsActive
	t.SortOrder = in.SortOrder
}

// ListActive returns what the public site shows, in display order.
func (s *Service) ListActive(ctx context.Context) ([]Testimonial, error) {
	return s.repo.List(ctx, true)
}

func (s *Service) ListAll(ctx context.Context) ([]Testimonial, error) {
	return s.repo.List(ctx, false)
}

func (s *Service) Get(ctx context.Context, id string) (Testimonial, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Testimonial, error) {
	var t Testimonial
	in.applyTo(&t)
	if err := s.repo.Create(ctx, &t); err != nil {
		return Testimonial{}, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Testimonial, error) {
	t := Testimonial{ID: id}
	in.applyTo(&t)
	if err := s.repo.Update(ctx, &t); err != nil {
		return Testimonial{}, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
