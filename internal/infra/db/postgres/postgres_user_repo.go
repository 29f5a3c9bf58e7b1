// File: internal/infra/db/postgres/postgres_user_repo.go
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

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Save(ctx context.Context, qx any, u *model.User) error {
	query := `
		INSERT INTO users (id, email, name, customer_id, course_access, enrolled_courses, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			customer_id = EXCLUDED.customer_id,
			course_access = EXCLUDED.course_access,
			enrolled_courses = EXCLUDED.enrolled_courses,
			updated_at = EXCLUDED.updated_at`
	_, err := execSQL(ctx, r.pool, qx, query,
		u.ID, u.Email, u.Name, u.CustomerID, u.CourseAccess, u.EnrolledCourses, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, qx any, id string) (*model.User, error) {
	query := `
		SELECT id, email, name, customer_id, course_access, enrolled_courses, created_at, updated_at
		FROM users WHERE id = $1`
	row, err := pickRow(ctx, r.pool, qx, query, id)
	if err != nil {
		return nil, err
	}
	var u model.User
	err = row.Scan(&u.ID, &u.Email, &u.Name, &u.CustomerID, &u.CourseAccess, &u.EnrolledCourses, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GrantCourseAccess sets the coarse access flag and appends the course to the
// enrolled set. array_append under array_position keeps the append
// idempotent, so replays of the same grant leave one entry.
func (r *UserRepo) GrantCourseAccess(ctx context.Context, qx any, userID, courseID string, at time.Time) error {
	query := `
		UPDATE users SET
			course_access = TRUE,
			enrolled_courses = CASE
				WHEN array_position(enrolled_courses, $2) IS NULL
				THEN array_append(enrolled_courses, $2)
				ELSE enrolled_courses
			END,
			updated_at = $3
		WHERE id = $1`
	tag, err := execSQL(ctx, r.pool, qx, query, userID, courseID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetCustomerID(ctx context.Context, qx any, userID, customerID string) error {
	query := `UPDATE users SET customer_id = $2, updated_at = now() WHERE id = $1`
	tag, err := execSQL(ctx, r.pool, qx, query, userID, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
