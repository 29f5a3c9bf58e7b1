package model

import (
	"time"

	"online-course-platform/internal/domain"

	"github.com/google/uuid"
)

// User is a platform account. CourseAccess is the legacy single-course
// entitlement flag kept for users who predate per-course enrollments;
// EnrolledCourses is the modern per-course entitlement set. Both are set
// by the enrollment reconciler and never cleared by this subsystem.
type User struct {
	ID              string
	Email           string
	Name            string
	CustomerID      string // gateway billing-customer id, set on first checkout
	CourseAccess    bool
	EnrolledCourses []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewUser(id, email, name string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:        id,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

func (u *User) IsEnrolled(courseID string) bool {
	for _, c := range u.EnrolledCourses {
		if c == courseID {
			return true
		}
	}
	return false
}
