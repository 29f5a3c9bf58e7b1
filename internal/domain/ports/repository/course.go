package repository

import (
	"context"

	"online-course-platform/internal/domain/model"
)

type CourseRepository interface {
	Save(ctx context.Context, qx any, c *model.Course) error
	FindByID(ctx context.Context, qx any, id string) (*model.Course, error)
}
