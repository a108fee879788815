package partner

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
	Name        string
	LogoURL     string
	WebsiteURL  string
	Description string
	IsActive    bool
	SortOrder   int
}

func (in Input) applyTo(p *Partner) {
	p.Name = strings.TrimSpace(in.Name)
	p.LogoURL = strings.TrimSpace(in.LogoURL)
	p.WebsiteURL = strings.TrimSpace(in.WebsiteURL)
	p.Description = strings.TrimSpace(in.Description)
	p.IsActive = in.IsActive
	p.SortOrder = in.SortOrder
}

func (s *Service) ListActive(ctx context.Context) ([]Partner, error) {
	return s.repo.List(ctx, true)
}

func (s *Service) ListAll(ctx context.Context) ([]Partner, error) {
	return s.repo.List(ctx, false)
}

func (s *Service) Get(ctx context.Context, id string) (Partner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Partner, error) {
	var p Partner
	in.applyTo(&p)
	if err := s.repo.Create(ctx, &p); err != nil {
		return Partner{}, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Partner, error) {
	p := Partner{ID: id}
	in.applyTo(&p)
	if err := s.repo.Update(ctx, &p); err != nil {
		return Partner{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
