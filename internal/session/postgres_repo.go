package session

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

const selectColumns = `id, token_hash, user_id, user_email, ip_address, user_agent, device_info,
	is_active, created_at, last_accessed_at, expires_at`

func scanSession(row pgx.Row, s *Session) error {
	return row.Scan(
		&s.ID,
		&s.TokenHash,
		&s.UserID,
		&s.UserEmail,
		&s.IPAddress,
		&s.UserAgent,
		&s.DeviceInfo,
		&s.IsActive,
		&s.CreatedAt,
		&s.LastAccessedAt,
		&s.ExpiresAt,
	)
}

func (r *PostgresRepo) Create(ctx context.Context, s *Session) error {
	const query = `
	INSERT INTO sessions (id, token_hash, user_id, user_email, ip_address, user_agent, device_info, is_active, created_at, last_accessed_at, expires_at)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $8, $9)
	RETURNING id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		s.TokenHash,
		s.UserID,
		s.UserEmail,
		s.IPAddress,
		s.UserAgent,
		s.DeviceInfo,
		s.IsActive,
		s.CreatedAt,
		s.ExpiresAt,
	).Scan(&s.ID)
}

func (r *PostgresRepo) getOne(ctx context.Context, where string, arg any) (Session, error) {
	query := `SELECT ` + selectColumns + ` FROM sessions WHERE ` + where + ` LIMIT 1`
	var s Session
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := scanSession(r.db.QueryRow(timeoutCtx, query, arg), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return s, nil
}

func (r *PostgresRepo) GetByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	return r.getOne(ctx, "token_hash = $1", tokenHash)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Session, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *PostgresRepo) ListByUserID(ctx context.Context, userID string) ([]Session, error) {
	query := `SELECT ` + selectColumns + ` FROM sessions WHERE user_id = $1 AND is_active ORDER BY last_accessed_at DESC`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := scanSession(rows, &s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *PostgresRepo) Touch(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE sessions SET last_accessed_at = $2 WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, id, at)
	return err
}

func (r *PostgresRepo) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE sessions SET is_active = false WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, id)
	return err
}

func (r *PostgresRepo) DeactivateAllForUser(ctx context.Context, userID string) (int64, error) {
	const query = `UPDATE sessions SET is_active = false WHERE user_id = $1 AND is_active`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	result, err := r.db.Exec(timeoutCtx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (r *PostgresRepo) ExtendActive(ctx context.Context, id string, expiresAt, now time.Time) (bool, error) {
	const query = `UPDATE sessions SET expires_at = $2 WHERE id = $1 AND is_active AND expires_at > $3`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	result, err := r.db.Exec(timeoutCtx, query, id, expiresAt, now)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *PostgresRepo) DeleteInvalid(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < $1 OR is_active = false`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	result, err := r.db.Exec(timeoutCtx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
