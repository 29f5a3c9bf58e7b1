package model

import (
	"time"

	"online-course-platform/internal/domain"
)

type ProgressStatus string

const (
	ProgressStatusInProgress ProgressStatus = "in-progress"
	ProgressStatusCompleted  ProgressStatus = "completed"
)

// CourseProgress tracks a user's advancement through a course. It is created
// alongside the enrollment and thereafter mutated by lesson-completion flows
// outside this pipeline's scope.
type CourseProgress struct {
	ID               string // EnrollmentKey(UserID, CourseID)
	UserID           string
	CourseID         string
	EnrollmentID     string
	ProgressPercent  int
	CompletedLessons int
	Status           ProgressStatus
	StartedAt        time.Time
	LastActivityAt   time.Time
}

func NewCourseProgress(userID, courseID, enrollmentID string) (*CourseProgress, error) {
	if userID == "" || courseID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &CourseProgress{
		ID:             EnrollmentKey(userID, courseID),
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentID:   enrollmentID,
		Status:         ProgressStatusInProgress,
		StartedAt:      now,
		LastActivityAt: now,
	}, nil
}
