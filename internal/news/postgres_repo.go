package news

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectColumns = `id, title, slug, excerpt, content_markdown, content_html, cover_image_url, author,
	is_published, published_at, created_at, updated_at`

func scanArticle(row pgx.Row, a *Article) error {
	return row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.ContentMarkdown, &a.ContentHTML, &a.CoverImageURL, &a.Author,
		&a.IsPublished, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrSlugTaken
	}
	return err
}

func (r *PostgresRepo) Create(ctx context.Context, a *Article) error {
	const query = `
	INSERT INTO news_articles (title, slug, excerpt, content_markdown, content_html, cover_image_url, author, is_published, published_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		a.Title, a.Slug, a.Excerpt, a.ContentMarkdown, a.ContentHTML, a.CoverImageURL, a.Author, a.IsPublished, a.PublishedAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapWriteError(err)
}

func (r *PostgresRepo) getOne(ctx context.Context, where string, arg any) (Article, error) {
	query := `SELECT ` + selectColumns + ` FROM news_articles WHERE ` + where + ` LIMIT 1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var a Article
	if err := scanArticle(r.db.QueryRow(timeoutCtx, query, arg), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Article{}, ErrNotFound
		}
		return Article{}, err
	}
	return a, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Article, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *PostgresRepo) GetBySlug(ctx context.Context, slug string) (Article, error) {
	return r.getOne(ctx, "slug = $1", slug)
}

func (r *PostgresRepo) List(ctx context.Context, q ListQuery) ([]Article, int, error) {
	where := ""
	order := "created_at DESC"
	if q.PublishedOnly {
		where = "WHERE is_published"
		order = "published_at DESC"
	}

	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM news_articles `+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + selectColumns + ` FROM news_articles ` + where + ` ORDER BY ` + order + `, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(timeoutCtx, query, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Article{}
	for rows.Next() {
		var a Article
		if err := scanArticle(rows, &a); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, a *Article) error {
	const query = `
	UPDATE news_articles
	SET title = $2, slug = $3, excerpt = $4, content_markdown = $5, content_html = $6, cover_image_url = $7,
	    author = $8, is_published = $9, published_at = $10, updated_at = now()
	WHERE id = $1
	RETURNING updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		a.ID, a.Title, a.Slug, a.Excerpt, a.ContentMarkdown, a.ContentHTML, a.CoverImageURL, a.Author, a.IsPublished, a.PublishedAt,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteError(err)
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM news_articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
