package repository

import (
	"context"
	"time"

	"online-course-platform/internal/domain/model"
)

type EnrollmentRepository interface {
	// Insert creates the enrollment under its deterministic key. It reports
	// created=false, with no error, when a record already exists for the
	// same (user, course) pair. This is the idempotency gate for the whole
	// reconciliation: a second delivery of the same event stops here.
	Insert(ctx context.Context, qx any, e *model.Enrollment) (created bool, err error)
	FindByKey(ctx context.Context, qx any, key string) (*model.Enrollment, error)
	ListByUser(ctx context.Context, qx any, userID string) ([]*model.Enrollment, error)
	TouchLastAccessed(ctx context.Context, qx any, key string, at time.Time) error
}

type ProgressRepository interface {
	// Init creates the progress record if absent; created=false when it
	// already exists.
	Init(ctx context.Context, qx any, p *model.CourseProgress) (created bool, err error)
	FindByKey(ctx context.Context, qx any, key string) (*model.CourseProgress, error)
}
