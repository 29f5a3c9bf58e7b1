// File: internal/infra/db/postgres/postgres_activity_repo.go
package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"online-course-platform/internal/domain/model"
	"online-course-platform/internal/domain/ports/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

func (r *ActivityRepo) Save(ctx context.Context, qx any, a *model.Activity) error {
	query := `
		INSERT INTO activities (id, user_id, action, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`
	_, err := execSQL(ctx, r.pool, qx, query, a.ID, a.UserID, a.Action, a.Kind, a.CreatedAt)
	return err
}
