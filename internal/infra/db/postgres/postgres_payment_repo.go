// File: internal/infra/db/postgres/postgres_payment_repo.go
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"online-course-platform/internal/domain"
	"online-course-platform/internal/domain/model"
	"online-course-platform/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

const paymentColumns = `session_id, user_id, course_id, customer_id, amount, currency, status, created_at, completed_at, failed_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	var status string
	err := row.Scan(
		&p.SessionID, &p.UserID, &p.CourseID, &p.CustomerID,
		&p.Amount, &p.Currency, &status, &p.CreatedAt, &p.CompletedAt, &p.FailedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Status = model.PaymentStatus(status)
	return &p, nil
}

func (r *PaymentRepo) Save(ctx context.Context, qx any, p *model.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id) DO NOTHING`
	_, err := execSQL(ctx, r.pool, qx, query,
		p.SessionID, p.UserID, p.CourseID, p.CustomerID,
		p.Amount, p.Currency, string(p.Status), p.CreatedAt, p.CompletedAt, p.FailedAt,
	)
	return err
}

func (r *PaymentRepo) FindBySessionID(ctx context.Context, qx any, sessionID string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE session_id = $1`
	row, err := pickRow(ctx, r.pool, qx, query, sessionID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

// UpdateStatusIfPending performs the single allowed lifecycle transition.
// The WHERE clause is the guard: a terminal payment matches no row and the
// call reports false without error.
func (r *PaymentRepo) UpdateStatusIfPending(ctx context.Context, qx any, sessionID string, status model.PaymentStatus, at time.Time) (bool, error) {
	var query string
	switch status {
	case model.PaymentStatusCompleted:
		query = `UPDATE payments SET status = $2, completed_at = $3 WHERE session_id = $1 AND status = 'pending'`
	case model.PaymentStatusFailed:
		query = `UPDATE payments SET status = $2, failed_at = $3 WHERE session_id = $1 AND status = 'pending'`
	default:
		return false, domain.ErrInvalidArgument
	}
	tag, err := execSQL(ctx, r.pool, qx, query, sessionID, string(status), at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PaymentRepo) FindCompletedByUserAndCourse(ctx context.Context, qx any, userID, courseID string) (*model.Payment, error) {
	query := `
		SELECT ` + paymentColumns + ` FROM payments
		WHERE user_id = $1 AND course_id = $2 AND status = 'completed'
		ORDER BY completed_at DESC
		LIMIT 1`
	row, err := pickRow(ctx, r.pool, qx, query, userID, courseID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *PaymentRepo) ListPendingOlderThan(ctx context.Context, qx any, cutoff time.Time, limit int) ([]*model.Payment, error) {
	query := `
		SELECT ` + paymentColumns + ` FROM payments
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at
		LIMIT $2`
	rows, err := queryRows(ctx, r.pool, qx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, errors.Join(domain.ErrReadDatabaseRow, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PaymentRepo) MarkPendingFailedByUser(ctx context.Context, qx any, userID string, at time.Time) (int64, error) {
	query := `UPDATE payments SET status = 'failed', failed_at = $2 WHERE user_id = $1 AND status = 'pending'`
	tag, err := execSQL(ctx, r.pool, qx, query, userID, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
