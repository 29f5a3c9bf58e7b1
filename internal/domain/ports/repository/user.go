package repository

import (
	"context"
	"time"

	"online-course-platform/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, qx any, u *model.User) error
	FindByID(ctx context.Context, qx any, id string) (*model.User, error)
	// GrantCourseAccess sets the legacy entitlement flag and adds the course
	// to the enrolled set. Idempotent: granting an already-granted course is
	// a no-op.
	GrantCourseAccess(ctx context.Context, qx any, userID, courseID string, at time.Time) error
	SetCustomerID(ctx context.Context, qx any, userID, customerID string) error
}
