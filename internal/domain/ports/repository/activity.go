package repository

import (
	"context"

	"online-course-platform/internal/domain/model"
)

type ActivityRepository interface {
	Save(ctx context.Context, qx any, a *model.Activity) error
}
