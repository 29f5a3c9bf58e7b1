// File: internal/infra/adapters/payment/stripe_gateway.go
package payment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"online-course-platform/internal/domain"
	"online-course-platform/internal/domain/ports/adapter"
)

var _ adapter.CheckoutGateway = (*StripeGateway)(nil)

// Metadata keys carried on every checkout session. The webhook handler reads
// them back to correlate the event with a user and a course.
const (
	metadataUserID   = "userId"
	metadataCourseID = "courseId"
)

type StripeGateway struct {
	sc  *client.API
	log *zerolog.Logger
}

func NewStripeGateway(secretKey string, logger *zerolog.Logger) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{sc: sc, log: logger}
}

func (g *StripeGateway) Name() string { return "stripe" }

// EnsureCustomer finds the customer by email or creates one. Reuse keeps the
// gateway dashboard clean and lets repeat buyers share a payment history.
func (g *StripeGateway) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	search := &stripe.CustomerSearchParams{
		SearchParams: stripe.SearchParams{
			Query: fmt.Sprintf("email:%q", email),
		},
	}
	search.Context = ctx
	iter := g.sc.Customers.Search(search)
	if iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", gatewayErr("search customer", err)
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	if name != "" {
		params.Name = stripe.String(name)
	}
	c, err := g.sc.Customers.New(params)
	if err != nil {
		return "", gatewayErr("create customer", err)
	}
	g.log.Debug().Str("customer_id", c.ID).Msg("stripe customer created")
	return c.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req adapter.CheckoutSessionRequest) (*adapter.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(req.CustomerID),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataUserID, req.UserID)
	params.AddMetadata(metadataCourseID, req.CourseID)

	s, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, gatewayErr("create checkout session", err)
	}
	return fromStripeSession(s), nil
}

func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := g.sc.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, gatewayErr("retrieve checkout session", err)
	}
	return fromStripeSession(s), nil
}

func fromStripeSession(s *stripe.CheckoutSession) *adapter.CheckoutSession {
	out := &adapter.CheckoutSession{
		ID:          s.ID,
		URL:         s.URL,
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal: s.AmountTotal,
		Currency:    string(s.Currency),
	}
	if s.Metadata != nil {
		out.UserID = s.Metadata[metadataUserID]
		out.CourseID = s.Metadata[metadataCourseID]
	}
	return out
}

func gatewayErr(op string, err error) error {
	return fmt.Errorf("%w: stripe %s: %v", domain.ErrGatewayUnavailable, op, err)
}
