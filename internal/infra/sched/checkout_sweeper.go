// File: internal/infra/sched/checkout_sweeper.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"online-course-platform/internal/domain/ports/adapter"
	"online-course-platform/internal/domain/ports/repository"
	"online-course-platform/internal/usecase"
)

// CheckoutSweeper re-checks stale pending payments against the gateway.
// Webhook deliveries get lost; the sweeper is the second pair of hands that
// funnels a paid session through the same reconciliation the webhook uses,
// so a session completed by both leaves one enrollment.
type CheckoutSweeper struct {
	payments   repository.PaymentRepository
	gateway    adapter.CheckoutGateway
	enrollment usecase.EnrollmentUseCase

	interval   time.Duration
	staleAfter time.Duration
	batchSize  int
	log        *zerolog.Logger
}

func NewCheckoutSweeper(
	payments repository.PaymentRepository,
	gateway adapter.CheckoutGateway,
	enrollment usecase.EnrollmentUseCase,
	interval, staleAfter time.Duration,
	logger *zerolog.Logger,
) *CheckoutSweeper {
	return &CheckoutSweeper{
		payments:   payments,
		gateway:    gateway,
		enrollment: enrollment,
		interval:   interval,
		staleAfter: staleAfter,
		batchSize:  100,
		log:        logger,
	}
}

func (s *CheckoutSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *CheckoutSweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.staleAfter)
	pending, err := s.payments.ListPendingOlderThan(ctx, nil, cutoff, s.batchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("sweeper list pending failed")
		return
	}
	for _, p := range pending {
		if ctx.Err() != nil {
			return
		}
		s.reconcile(ctx, p.SessionID)
	}
}

func (s *CheckoutSweeper) reconcile(ctx context.Context, sessionID string) {
	sess, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		// Transient gateway trouble; the next tick retries.
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("sweeper retrieve session failed")
		return
	}
	if !sess.Paid {
		// Still open gateway-side. Expiry arrives as a webhook, so leave it.
		return
	}
	if sess.UserID == "" || sess.CourseID == "" {
		s.log.Error().Str("session_id", sessionID).Msg("paid session without correlation metadata")
		return
	}
	created, err := s.enrollment.CompleteCheckout(ctx, usecase.CompletionInput{
		SessionID: sessionID,
		UserID:    sess.UserID,
		CourseID:  sess.CourseID,
		Amount:    sess.AmountTotal,
		Currency:  sess.Currency,
	})
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("sweeper reconciliation failed")
		return
	}
	if created {
		s.log.Info().Str("session_id", sessionID).Msg("sweeper recovered a lost payment confirmation")
	}
}
