package adapter

import "context"

// Notifier delivers non-critical post-enrollment notifications (confirmation
// email and the like). Delivery is an external collaborator: implementations
// may do nothing, and callers must never fail an entitlement grant because a
// notification could not be sent.
type Notifier interface {
	EnrollmentCompleted(ctx context.Context, userID, courseID string) error
}
