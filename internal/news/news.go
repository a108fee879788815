// Package news manages the articles shown on the public site.
package news

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("article not found")
	ErrSlugTaken = errors.New("article slug already in use")
)

type Article struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         string     `json:"excerpt"`
	ContentMarkdown string     `json:"content_markdown"`
	ContentHTML     string     `json:"content_html"`
	CoverImageURL   string     `json:"cover_image_url,omitempty"`
	Author          string     `json:"author"`
	IsPublished     bool       `json:"is_published"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ListQuery struct {
	PublishedOnly bool
	Limit         int
	Offset        int
}
