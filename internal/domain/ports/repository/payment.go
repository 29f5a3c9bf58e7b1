package repository

import (
	"context"
	"time"

	"online-course-platform/internal/domain/model"
)

// -----------------------------
// Payments
// -----------------------------

// PaymentRepository persists checkout payment records. The Initiator writes
// pending rows only; the Reconciler owns the pending->terminal transition.
// The `qx any` parameter optionally carries a pgx executor (tx/conn); nil
// means the pool.
type PaymentRepository interface {
	Save(ctx context.Context, qx any, p *model.Payment) error
	FindBySessionID(ctx context.Context, qx any, sessionID string) (*model.Payment, error)
	// UpdateStatusIfPending atomically moves a payment to a terminal status
	// only when it is still pending. Returns false when the row was already
	// terminal (or absent), which makes redeliveries harmless.
	UpdateStatusIfPending(ctx context.Context, qx any, sessionID string, status model.PaymentStatus, at time.Time) (bool, error)
	FindCompletedByUserAndCourse(ctx context.Context, qx any, userID, courseID string) (*model.Payment, error)
	ListPendingOlderThan(ctx context.Context, qx any, olderThan time.Time, limit int) ([]*model.Payment, error)
	// MarkPendingFailedByUser fails every pending payment of a user; used for
	// payment_intent failure events that carry no session reference.
	MarkPendingFailedByUser(ctx context.Context, qx any, userID string, at time.Time) (int64, error)
}
