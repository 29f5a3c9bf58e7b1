// File: internal/infra/adapters/payment/noop_payment.go
package payment

import (
	"context"
	"fmt"
	"sync"

	"online-course-platform/internal/domain"
	"online-course-platform/internal/domain/ports/adapter"
)

var _ adapter.CheckoutGateway = (*NoopGateway)(nil)

// NoopGateway fakes a checkout provider for development runs. Sessions live
// in memory and are marked paid through MarkPaid, typically from a dev-only
// endpoint or a test.
type NoopGateway struct {
	mu       sync.Mutex
	sessions map[string]*adapter.CheckoutSession
	seq      int
}

func NewNoopGateway() *NoopGateway {
	return &NoopGateway{sessions: make(map[string]*adapter.CheckoutSession)}
}

func (g *NoopGateway) Name() string { return "noop" }

func (g *NoopGateway) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	return "cus_noop_" + email, nil
}

func (g *NoopGateway) CreateCheckoutSession(ctx context.Context, req adapter.CheckoutSessionRequest) (*adapter.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	s := &adapter.CheckoutSession{
		ID:       fmt.Sprintf("cs_noop_%d", g.seq),
		URL:      "https://checkout.invalid/" + req.UserID,
		UserID:   req.UserID,
		CourseID: req.CourseID,
	}
	g.sessions[s.ID] = s
	return s, nil
}

func (g *NoopGateway) RetrieveSession(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// MarkPaid flips a session to paid so the sweeper can pick it up.
func (g *NoopGateway) MarkPaid(sessionID string, amount int64, currency string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[sessionID]; ok {
		s.Paid = true
		s.AmountTotal = amount
		s.Currency = currency
	}
}
