// File: internal/infra/db/postgres/postgres_enrollment_repo.go
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

var (
	_ repository.EnrollmentRepository = (*EnrollmentRepo)(nil)
	_ repository.ProgressRepository   = (*ProgressRepo)(nil)
)

type EnrollmentRepo struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepo(pool *pgxpool.Pool) *EnrollmentRepo {
	return &EnrollmentRepo{pool: pool}
}

const enrollmentColumns = `id, user_id, course_id, payment_session_id, status, completed_lessons, total_lessons, enrolled_at, last_accessed_at`

func scanEnrollment(row pgx.Row) (*model.Enrollment, error) {
	var e model.Enrollment
	var status string
	err := row.Scan(
		&e.ID, &e.UserID, &e.CourseID, &e.PaymentSessionID, &status,
		&e.CompletedLessons, &e.TotalLessons, &e.EnrolledAt, &e.LastAccessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.Status = model.EnrollmentStatus(status)
	return &e, nil
}

// Insert creates the enrollment unless one already exists for the key. The
// ON CONFLICT DO NOTHING makes the duplicate path a silent no-op; the
// returned flag tells the caller which path this delivery took. Both the
// primary key and the (user_id, course_id) constraint guard the row, so even
// an enrollment written with a different id cannot be duplicated.
func (r *EnrollmentRepo) Insert(ctx context.Context, qx any, e *model.Enrollment) (bool, error) {
	query := `
		INSERT INTO enrollments (` + enrollmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT DO NOTHING`
	tag, err := execSQL(ctx, r.pool, qx, query,
		e.ID, e.UserID, e.CourseID, e.PaymentSessionID, string(e.Status),
		e.CompletedLessons, e.TotalLessons, e.EnrolledAt, e.LastAccessedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *EnrollmentRepo) FindByKey(ctx context.Context, qx any, key string) (*model.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	row, err := pickRow(ctx, r.pool, qx, query, key)
	if err != nil {
		return nil, err
	}
	return scanEnrollment(row)
}

func (r *EnrollmentRepo) ListByUser(ctx context.Context, qx any, userID string) ([]*model.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = $1 ORDER BY enrolled_at DESC`
	rows, err := queryRows(ctx, r.pool, qx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, errors.Join(domain.ErrReadDatabaseRow, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EnrollmentRepo) TouchLastAccessed(ctx context.Context, qx any, key string, at time.Time) error {
	query := `UPDATE enrollments SET last_accessed_at = $2 WHERE id = $1`
	tag, err := execSQL(ctx, r.pool, qx, query, key, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type ProgressRepo struct {
	pool *pgxpool.Pool
}

func NewProgressRepo(pool *pgxpool.Pool) *ProgressRepo {
	return &ProgressRepo{pool: pool}
}

func (r *ProgressRepo) Init(ctx context.Context, qx any, p *model.CourseProgress) (bool, error) {
	query := `
		INSERT INTO course_progress (id, user_id, course_id, enrollment_id, progress_percent, completed_lessons, status, started_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`
	tag, err := execSQL(ctx, r.pool, qx, query,
		p.ID, p.UserID, p.CourseID, p.EnrollmentID,
		p.ProgressPercent, p.CompletedLessons, string(p.Status), p.StartedAt, p.LastActivityAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ProgressRepo) FindByKey(ctx context.Context, qx any, key string) (*model.CourseProgress, error) {
	query := `
		SELECT id, user_id, course_id, enrollment_id, progress_percent, completed_lessons, status, started_at, last_activity_at
		FROM course_progress WHERE id = $1`
	row, err := pickRow(ctx, r.pool, qx, query, key)
	if err != nil {
		return nil, err
	}
	var p model.CourseProgress
	var status string
	err = row.Scan(
		&p.ID, &p.UserID, &p.CourseID, &p.EnrollmentID,
		&p.ProgressPercent, &p.CompletedLessons, &status, &p.StartedAt, &p.LastActivityAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Status = model.ProgressStatus(status)
	return &p, nil
}
