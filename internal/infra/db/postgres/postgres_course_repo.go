// File: internal/infra/db/postgres/postgres_course_repo.go
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"online-course-platform/internal/domain"
	"online-course-platform/internal/domain/model"
	"online-course-platform/internal/domain/ports/repository"
)

var _ repository.CourseRepository = (*CourseRepo)(nil)

type CourseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

func (r *CourseRepo) Save(ctx context.Context, qx any, c *model.Course) error {
	query := `
		INSERT INTO courses (id, title, price, currency, gateway_price_id, total_lessons)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			gateway_price_id = EXCLUDED.gateway_price_id,
			total_lessons = EXCLUDED.total_lessons`
	_, err := execSQL(ctx, r.pool, qx, query, c.ID, c.Title, c.Price, c.Currency, c.GatewayPriceID, c.TotalLessons)
	return err
}

func (r *CourseRepo) FindByID(ctx context.Context, qx any, id string) (*model.Course, error) {
	query := `SELECT id, title, price, currency, gateway_price_id, total_lessons FROM courses WHERE id = $1`
	row, err := pickRow(ctx, r.pool, qx, query, id)
	if err != nil {
		return nil, err
	}
	var c model.Course
	err = row.Scan(&c.ID, &c.Title, &c.Price, &c.Currency, &c.GatewayPriceID, &c.TotalLessons)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
