package model

import (
	"time"

	"online-course-platform/internal/domain"
)

type EnrollmentStatus string

const (
	EnrollmentStatusActive EnrollmentStatus = "active"
)

// EnrollmentKey derives the deterministic identity of an enrollment from the
// (user, course) pair. Using this as the record key makes re-creation a
// natural no-op: a second delivery of the same checkout event maps to the
// same record instead of creating a sibling.
func EnrollmentKey(userID, courseID string) string {
	return userID + "_" + courseID
}

// Enrollment is the durable fact that a user purchased access to a course.
// At most one enrollment exists per (user, course) pair.
type Enrollment struct {
	ID               string // EnrollmentKey(UserID, CourseID)
	UserID           string
	CourseID         string
	PaymentSessionID string // back-reference to the checkout session that produced it
	Status           EnrollmentStatus
	CompletedLessons int
	TotalLessons     int
	EnrolledAt       time.Time
	LastAccessedAt   *time.Time // nil until the course is first opened
}

func NewEnrollment(userID, courseID, paymentSessionID string, totalLessons int) (*Enrollment, error) {
	if userID == "" || courseID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if totalLessons < 0 {
		totalLessons = 0
	}
	return &Enrollment{
		ID:               EnrollmentKey(userID, courseID),
		UserID:           userID,
		CourseID:         courseID,
		PaymentSessionID: paymentSessionID,
		Status:           EnrollmentStatusActive,
		TotalLessons:     totalLessons,
		EnrolledAt:       time.Now(),
	}, nil
}
