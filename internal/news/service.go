package news

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrEmptySlug means neither the title nor the supplied slug yields a usable slug.
var ErrEmptySlug = errors.New("article slug is empty")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Input is the editable part of an article. An empty Slug is derived from Title.
type Input struct {
	Title           string
	Slug            string
	Excerpt         string
	ContentMarkdown string
	CoverImageURL   string
	Author          string
	IsPublished     bool
}

func (s *Service) apply(a *Article, in Input) error {
	a.Title = strings.TrimSpace(in.Title)
	a.Slug = strings.TrimSpace(in.Slug)
	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.Slug == "" {
		return ErrEmptySlug
	}
	a.Excerpt = strings.TrimSpace(in.Excerpt)
	a.ContentMarkdown = in.ContentMarkdown
	a.ContentHTML = RenderMarkdown(in.ContentMarkdown)
	a.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
	a.Author = strings.TrimSpace(in.Author)
	a.IsPublished = in.IsPublished
	if a.IsPublished && a.PublishedAt == nil {
		t := s.now().UTC()
		a.PublishedAt = &t
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (Article, error) {
	var a Article
	if err := s.apply(&a, in); err != nil {
		return Article{}, err
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		return Article{}, err
	}
	return a, nil
}

// Update replaces the article's content. PublishedAt is kept once set, including
// across unpublish and republish.
func (s *Service) Update(ctx context.Context, id string, in Input) (Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Article{}, err
	}
	if err := s.apply(&a, in); err != nil {
		return Article{}, err
	}
	if err := s.repo.Update(ctx, &a); err != nil {
		return Article{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Article, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPublished looks an article up by slug and hides drafts.
func (s *Service) GetPublished(ctx context.Context, slug string) (Article, error) {
	a, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return Article{}, err
	}
	if !a.IsPublished {
		return Article{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Article, int, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
