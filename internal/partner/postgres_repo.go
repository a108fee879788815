package partner

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

const selectColumns = `id, name, logo_url, website_url, description, is_active, sort_order, created_at, updated_at`

func scanPartner(row pgx.Row, p *Partner) error {
	return row.Scan(&p.ID, &p.Name, &p.LogoURL, &p.WebsiteURL, &p.Description, &p.IsActive, &p.SortOrder,
		&p.CreatedAt, &p.UpdatedAt)
}

func (r *PostgresRepo) List(ctx context.Context, activeOnly bool) ([]Partner, error) {
	query := `SELECT ` + selectColumns + ` FROM partners`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sort_order, name`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Partner{}
	for rows.Next() {
		var p Partner
		if err := scanPartner(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Partner, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var p Partner
	err := scanPartner(r.db.QueryRow(timeoutCtx, `SELECT `+selectColumns+` FROM partners WHERE id = $1`, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Partner{}, ErrNotFound
		}
		return Partner{}, err
	}
	return p, nil
}

func (r *PostgresRepo) Create(ctx context.Context, p *Partner) error {
	const query = `
	INSERT INTO partners (name, logo_url, website_url, description, is_active, sort_order)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, p.Name, p.LogoURL, p.WebsiteURL, p.Description, p.IsActive, p.SortOrder).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostgresRepo) Update(ctx context.Context, p *Partner) error {
	const query = `
	UPDATE partners
	SET name = $2, logo_url = $3, website_url = $4, description = $5, is_active = $6, sort_order = $7, updated_at = now()
	WHERE id = $1
	RETURNING created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, p.ID, p.Name, p.LogoURL, p.WebsiteURL, p.Description, p.IsActive, p.SortOrder).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
