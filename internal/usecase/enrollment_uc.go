// File: internal/usecase/enrollment_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"online-course-platform/internal/domain"
	"online-course-platform/internal/domain/model"
	"online-course-platform/internal/domain/ports/adapter"
	"online-course-platform/internal/domain/ports/repository"
	"online-course-platform/internal/infra/metrics"
)

var _ EnrollmentUseCase = (*enrollmentUC)(nil)

// CompletionInput carries everything a paid checkout session tells us.
// UserID and CourseID come from the session metadata; callers that cannot
// recover them must not call CompleteCheckout at all.
type CompletionInput struct {
	SessionID string
	UserID    string
	CourseID  string
	Amount    int64
	Currency  string
}

type EnrollmentUseCase interface {
	// CompleteCheckout is the single reconciliation path for a paid session.
	// It is idempotent: calling it N times for the same session leaves the
	// same state as calling it once. Returns true when this call created the
	// enrollment, false when it already existed.
	CompleteCheckout(ctx context.Context, in CompletionInput) (bool, error)
	// FailCheckout marks the session's payment failed if it is still pending.
	FailCheckout(ctx context.Context, sessionID string) error
	// FailPendingForUser marks every pending payment of the user failed; used
	// when the gateway reports a failure correlated only by customer.
	FailPendingForUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Enrollment, error)
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
}

type enrollmentUC struct {
	payments    repository.PaymentRepository
	users       repository.UserRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	progress    repository.ProgressRepository
	activities  repository.ActivityRepository
	notifier    adapter.Notifier
	log         *zerolog.Logger
}

func NewEnrollmentUseCase(
	payments repository.PaymentRepository,
	users repository.UserRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	progress repository.ProgressRepository,
	activities repository.ActivityRepository,
	notifier adapter.Notifier,
	logger *zerolog.Logger,
) *enrollmentUC {
	return &enrollmentUC{
		payments:    payments,
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		progress:    progress,
		activities:  activities,
		notifier:    notifier,
		log:         logger,
	}
}

func (u *enrollmentUC) CompleteCheckout(ctx context.Context, in CompletionInput) (bool, error) {
	if in.SessionID == "" || in.UserID == "" || in.CourseID == "" {
		return false, domain.ErrInvalidArgument
	}
	log := u.log.With().
		Str("session_id", in.SessionID).
		Str("user_id", in.UserID).
		Str("course_id", in.CourseID).
		Logger()
	now := time.Now()

	// Each step below is idempotent on its own, so a crash between steps is
	// healed by the next delivery of the same session.
	moved, err := u.payments.UpdateStatusIfPending(ctx, nil, in.SessionID, model.PaymentStatusCompleted, now)
	if err != nil {
		return false, fmt.Errorf("complete payment %s: %w", in.SessionID, err)
	}
	if moved {
		metrics.IncPayment(string(model.PaymentStatusCompleted))
		if in.Amount > 0 {
			metrics.AddPaymentRevenue(in.Currency, in.Amount)
		}
	}

	if err := u.users.GrantCourseAccess(ctx, nil, in.UserID, in.CourseID, now); err != nil {
		return false, fmt.Errorf("grant access to %s: %w", in.UserID, err)
	}

	totalLessons := 0
	if course, err := u.courses.FindByID(ctx, nil, in.CourseID); err == nil {
		totalLessons = course.TotalLessons
	}

	enr, err := model.NewEnrollment(in.UserID, in.CourseID, in.SessionID, totalLessons)
	if err != nil {
		return false, err
	}
	enr.EnrolledAt = now
	created, err := u.enrollments.Insert(ctx, nil, enr)
	if err != nil {
		return false, fmt.Errorf("insert enrollment %s: %w", enr.ID, err)
	}
	if !created {
		// Redelivery. Payment and access were re-affirmed above; nothing
		// else to do, and side effects must not repeat.
		metrics.IncEnrollment("duplicate")
		log.Debug().Msg("enrollment already exists, redelivery acknowledged")
		return false, nil
	}
	metrics.IncEnrollment("created")

	if prog, err := model.NewCourseProgress(in.UserID, in.CourseID, enr.ID); err == nil {
		if _, err := u.progress.Init(ctx, nil, prog); err != nil {
			log.Error().Err(err).Msg("init course progress failed")
		}
	}

	act := model.NewActivity(in.UserID, "Enrolled in course "+in.CourseID, model.ActivityKindAchievement)
	if err := u.activities.Save(ctx, nil, act); err != nil {
		log.Error().Err(err).Msg("record enrollment activity failed")
	}

	// Notification failures never fail the enrollment.
	if err := u.notifier.EnrollmentCompleted(ctx, in.UserID, in.CourseID); err != nil {
		log.Warn().Err(err).Msg("enrollment notification failed")
	}

	log.Info().Str("enrollment_id", enr.ID).Msg("enrollment completed")
	return true, nil
}

func (u *enrollmentUC) FailCheckout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrInvalidArgument
	}
	moved, err := u.payments.UpdateStatusIfPending(ctx, nil, sessionID, model.PaymentStatusFailed, time.Now())
	if err != nil {
		return err
	}
	if moved {
		metrics.IncPayment(string(model.PaymentStatusFailed))
		u.log.Info().Str("session_id", sessionID).Msg("payment marked failed")
	}
	return nil
}

func (u *enrollmentUC) FailPendingForUser(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, domain.ErrInvalidArgument
	}
	n, err := u.payments.MarkPendingFailedByUser(ctx, nil, userID, time.Now())
	if err != nil {
		return 0, err
	}
	for i := int64(0); i < n; i++ {
		metrics.IncPayment(string(model.PaymentStatusFailed))
	}
	if n > 0 {
		u.log.Info().Str("user_id", userID).Int64("count", n).Msg("pending payments marked failed")
	}
	return n, nil
}

func (u *enrollmentUC) ListByUser(ctx context.Context, userID string) ([]*model.Enrollment, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.enrollments.ListByUser(ctx, nil, userID)
}

func (u *enrollmentUC) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	if userID == "" || courseID == "" {
		return false, domain.ErrInvalidArgument
	}
	_, err := u.enrollments.FindByKey(ctx, nil, model.EnrollmentKey(userID, courseID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
