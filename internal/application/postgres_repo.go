package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

const selectColumns = `id, full_name, email, phone, company_name, loan_type, loan_amount, tenor_months,
	purpose, status, admin_notes, created_at, updated_at`

func scanApplication(row pgx.Row, a *Application) error {
	return row.Scan(
		&a.ID, &a.FullName, &a.Email, &a.Phone, &a.CompanyName, &a.LoanType, &a.LoanAmount, &a.TenorMonths,
		&a.Purpose, &a.Status, &a.AdminNotes, &a.CreatedAt, &a.UpdatedAt,
	)
}

func (r *PostgresRepo) Create(ctx context.Context, a *Application) error {
	const query = `
	INSERT INTO loan_applications (full_name, email, phone, company_name, loan_type, loan_amount, tenor_months, purpose, status, admin_notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, '')
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		a.FullName, a.Email, a.Phone, a.CompanyName, a.LoanType, a.LoanAmount, a.TenorMonths, a.Purpose, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Application, error) {
	query := `SELECT ` + selectColumns + ` FROM loan_applications WHERE id = $1 LIMIT 1`
	var a Application
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := scanApplication(r.db.QueryRow(timeoutCtx, query, id), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return a, nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Application, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", argn))
		args = append(args, statuses)
		argn++
	}

	if q.Q != "" {
		clauses = append(clauses, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d OR company_name ILIKE $%d)", argn, argn, argn))
		args = append(args, "%"+q.Q+"%")
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM loan_applications "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`SELECT %s FROM loan_applications %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		selectColumns, where, argn, argn+1)
	argsWithPage := append(append([]any{}, args...), q.Limit, q.Offset)

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		var a Application
		if err := scanApplication(rows, &a); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id string, from string, to Status, notes *string) (Application, error) {
	query := `
	UPDATE loan_applications
	SET status = $3, admin_notes = COALESCE($4, admin_notes), updated_at = NOW()
	WHERE id = $1 AND status = $2
	RETURNING ` + selectColumns
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a Application
	err := scanApplication(r.db.QueryRow(timeoutCtx, query, id, from, to, notes), &a)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Application{}, err
	}

	var exists bool
	if err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS(SELECT 1 FROM loan_applications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return Application{}, err
	}
	if !exists {
		return Application{}, ErrNotFound
	}
	return Application{}, ErrConcurrentUpdate
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM loan_applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT status, COUNT(*) FROM loan_applications GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
