package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"lendingapi/internal/news"
	"lendingapi/internal/partner"
	"lendingapi/internal/testimonial"
)

// Content is the shape of the fixtures file.
type Content struct {
	News         []NewsFixture        `yaml:"news"`
	Testimonials []TestimonialFixture `yaml:"testimonials"`
	Partners     []PartnerFixture     `yaml:"partners"`
}

type NewsFixture struct {
	Title         string `yaml:"title"`
	Slug          string `yaml:"slug,omitempty"`
	Excerpt       string `yaml:"excerpt,omitempty"`
	Content       string `yaml:"content"`
	CoverImageURL string `yaml:"cover_image_url,omitempty"`
	Author        string `yaml:"author,omitempty"`
	Published     bool   `yaml:"published"`
}

type TestimonialFixture struct {
	Name      string `yaml:"name"`
	Role      string `yaml:"role,omitempty"`
	Company   string `yaml:"company,omitempty"`
	Content   string `yaml:"content"`
	Rating    int    `yaml:"rating"`
	AvatarURL string `yaml:"avatar_url,omitempty"`
	SortOrder int    `yaml:"sort_order,omitempty"`
}

type PartnerFixture struct {
	Name        string `yaml:"name"`
	LogoURL     string `yaml:"logo_url"`
	WebsiteURL  string `yaml:"website_url,omitempty"`
	Description string `yaml:"description,omitempty"`
	SortOrder   int    `yaml:"sort_order,omitempty"`
}

// LoadContent reads and validates a fixtures file. Unknown keys are rejected.
func LoadContent(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseContent(data)
}

func ParseContent(data []byte) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	return &c, nil
}

func (c *Content) validate() error {
	var errs []error
	for i, n := range c.News {
		if n.Title == "" {
			errs = append(errs, fmt.Errorf("news[%d]: title is required", i))
		}
	}
	for i, t := range c.Testimonials {
		if t.Name == "" || t.Content == "" {
			errs = append(errs, fmt.Errorf("testimonials[%d]: name and content are required", i))
		}
		if t.Rating < 1 || t.Rating > 5 {
			errs = append(errs, fmt.Errorf("testimonials[%d]: rating must be between 1 and 5", i))
		}
	}
	for i, p := range c.Partners {
		if p.Name == "" || p.LogoURL == "" {
			errs = append(errs, fmt.Errorf("partners[%d]: name and logo_url are required", i))
		}
	}
	return errors.Join(errs...)
}

type newsCreator interface {
	Create(ctx context.Context, in news.Input) (news.Article, error)
}

type testimonialCreator interface {
	Create(ctx context.Context, in testimonial.Input) (testimonial.Testimonial, error)
}

type partnerCreator interface {
	Create(ctx context.Context, in partner.Input) (partner.Partner, error)
}

type contentSeeder struct {
	news         newsCreator
	testimonials testimonialCreator
	partners     partnerCreator
}

// seed creates every fixture and returns how many records were written.
// Articles whose slug already exists are skipped so the command can be rerun.
func (s contentSeeder) seed(ctx context.Context, c *Content) (int, error) {
	n := 0
	for _, f := range c.News {
		_, err := s.news.Create(ctx, news.Input{
			Title:           f.Title,
			Slug:            f.Slug,
			Excerpt:         f.Excerpt,
			ContentMarkdown: f.Content,
			CoverImageURL:   f.CoverImageURL,
			Author:          f.Author,
			IsPublished:     f.Published,
		})
		if errors.Is(err, news.ErrSlugTaken) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("news %q: %w", f.Title, err)
		}
		n++
	}
	for _, f := range c.Testimonials {
		if _, err := s.testimonials.Create(ctx, testimonial.Input{
			Name:      f.Name,
			Role:      f.Role,
			Company:   f.Company,
			Content:   f.Content,
			Rating:    f.Rating,
			AvatarURL: f.AvatarURL,
			IsActive:  true,
			SortOrder: f.SortOrder,
		}); err != nil {
			return n, fmt.Errorf("testimonial %q: %w", f.Name, err)
		}
		n++
	}
	for _, f := range c.Partners {
		if _, err := s.partners.Create(ctx, partner.Input{
			Name:        f.Name,
			LogoURL:     f.LogoURL,
			WebsiteURL:  f.WebsiteURL,
			Description: f.Description,
			IsActive:    true,
			SortOrder:   f.SortOrder,
		}); err != nil {
			return n, fmt.Errorf("partner %q: %w", f.Name, err)
		}
		n++
	}
	return n, nil
}
