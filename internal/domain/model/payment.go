package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // session opened; awaiting the gateway's confirmation
	PaymentStatusCompleted PaymentStatus = "completed" // verified completed checkout
	PaymentStatusFailed    PaymentStatus = "failed"    // gateway reported the payment failed
)

// Payment records one purchase attempt against the external gateway.
// It is keyed by the checkout session id, which is the correlation key
// between the initiating request and the asynchronous confirmation.
// A payment row is created exactly once, before the user is redirected,
// and moves to exactly one terminal status. Rows are never deleted.
type Payment struct {
	SessionID   string // gateway checkout session id; primary key
	UserID      string
	CourseID    string
	CustomerID  string // gateway billing-customer id
	Amount      int64  // minor units, to avoid float errors
	Currency    string
	Status      PaymentStatus
	CreatedAt   time.Time
	CompletedAt *time.Time // set when completed
	FailedAt    *time.Time // set when failed
}

func (p *Payment) Terminal() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusFailed
}
