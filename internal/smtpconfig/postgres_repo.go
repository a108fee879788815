package smtpconfig

import (
	"context"
	"errors"
	"fmt"
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

func (r *PostgresRepo) GetActive(ctx context.Context) (Settings, error) {
	const query = `
	SELECT id, host, port, username, password, from_email, from_name, use_tls, is_active, updated_at
	FROM smtp_settings
	WHERE is_active
	ORDER BY updated_at DESC
	LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var s Settings
	err := r.db.QueryRow(timeoutCtx, query).Scan(
		&s.ID, &s.Host, &s.Port, &s.Username, &s.Password, &s.FromEmail, &s.FromName, &s.UseTLS, &s.IsActive, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settings{}, ErrNotFound
		}
		return Settings{}, err
	}
	return s, nil
}

func (r *PostgresRepo) Save(ctx context.Context, s *Settings) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	if s.ID == "" {
		const insertSQL = `
		INSERT INTO smtp_settings (host, port, username, password, from_email, from_name, use_tls, is_active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, now())
		RETURNING id, updated_at`
		err = tx.QueryRow(timeoutCtx, insertSQL, s.Host, s.Port, s.Username, s.Password, s.FromEmail, s.FromName, s.UseTLS).
			Scan(&s.ID, &s.UpdatedAt)
	} else {
		const updateSQL = `
		UPDATE smtp_settings
		SET host = $2, port = $3, username = $4, password = $5, from_email = $6, from_name = $7, use_tls = $8,
		    is_active = true, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
		err = tx.QueryRow(timeoutCtx, updateSQL, s.ID, s.Host, s.Port, s.Username, s.Password, s.FromEmail, s.FromName, s.UseTLS).
			Scan(&s.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
	}
	if err != nil {
		return fmt.Errorf("save smtp settings: %w", err)
	}

	if _, err := tx.Exec(timeoutCtx, `UPDATE smtp_settings SET is_active = false WHERE id <> $1 AND is_active`, s.ID); err != nil {
		return fmt.Errorf("deactivate previous smtp settings: %w", err)
	}
	s.IsActive = true

	return tx.Commit(timeoutCtx)
}
