package testimonial

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

const selectColumns = `id, name, role, company, content, rating, avatar_url, is_active, sort_order, created_at, updated_at`

func scanTestimonial(row pgx.Row, t *Testimonial) error {
	return row.Scan(&t.ID, &t.Name, &t.Role, &t.Company, &t.Content, &t.Rating, &t.AvatarURL,
		&t.IsActive, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
}

func (r *PostgresRepo) List(ctx context.Context, activeOnly bool) ([]Testimonial, error) {
	query := `SELECT ` + selectColumns + ` FROM testimonials`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sort_order, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Testimonial{}
	for rows.Next() {
		var t Testimonial
		if err := scanTestimonial(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Testimonial, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var t Testimonial
	err := scanTestimonial(r.db.QueryRow(timeoutCtx, `SELECT `+selectColumns+` FROM testimonials WHERE id = $1`, id), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Testimonial{}, ErrNotFound
		}
		return Testimonial{}, err
	}
	return t, nil
}

func (r *PostgresRepo) Create(ctx context.Context, t *Testimonial) error {
	const query = `
	INSERT INTO testimonials (name, role, company, content, rating, avatar_url, is_active, sort_order)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, t.Name, t.Role, t.Company, t.Content, t.Rating, t.AvatarURL, t.IsActive, t.SortOrder).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *PostgresRepo) Update(ctx context.Context, t *Testimonial) error {
	const query = `
	UPDATE testimonials
	SET name = $2, role = $3, company = $4, content = $5, rating = $6, avatar_url = $7,
	    is_active = $8, sort_order = $9, updated_at = now()
	WHERE id = $1
	RETURNING created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, t.ID, t.Name, t.Role, t.Company, t.Content, t.Rating, t.AvatarURL, t.IsActive, t.SortOrder).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
