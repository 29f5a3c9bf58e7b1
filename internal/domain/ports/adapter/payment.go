package adapter

import "context"

// CheckoutSession is the provider-agnostic view of a gateway checkout
// session. UserID and CourseID come from the metadata embedded at creation
// time; that metadata is the only way the asynchronous confirmation can be
// correlated back to a user and a course.
type CheckoutSession struct {
	ID          string
	URL         string // redirect URL for the buyer
	Paid        bool
	AmountTotal int64 // minor units
	Currency    string
	UserID      string
	CourseID    string
}

type CheckoutSessionRequest struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
	UserID     string
	CourseID   string
}

// CheckoutGateway is the hex port for the payment provider.
type CheckoutGateway interface {
	Name() string

	// EnsureCustomer resolves the billing-customer identity for an email,
	// creating one when none exists. Search-then-create: the provider has no
	// native upsert.
	EnsureCustomer(ctx context.Context, email, name string) (customerID string, err error)
	// CreateCheckoutSession opens a payment session with user/course metadata
	// attached and returns it with the buyer redirect URL populated.
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
	// RetrieveSession fetches the current provider-side state of a session.
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
