// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"online-course-platform/internal/domain"
	"online-course-platform/internal/domain/model"
	"online-course-platform/internal/domain/ports/adapter"
	"online-course-platform/internal/domain/ports/repository"
	"online-course-platform/internal/infra/metrics"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CreateSessionInput struct {
	UserID     string
	Email      string
	SuccessURL string
	CancelURL  string
	CourseID   string // empty means the platform default course
	PriceID    string // caller-supplied override; rarely set
}

type CheckoutUseCase interface {
	// CreateSession opens a checkout session with the gateway and persists a
	// pending payment record keyed by the session id. Returns the payment
	// and the redirect URL for the buyer.
	CreateSession(ctx context.Context, in CreateSessionInput) (*model.Payment, string, error)
	// SessionStatus reports the current lifecycle status of a checkout
	// session; polled by the client after the gateway redirect.
	SessionStatus(ctx context.Context, sessionID string) (*model.Payment, error)
}

type checkoutUC struct {
	payments repository.PaymentRepository
	users    repository.UserRepository
	courses  repository.CourseRepository
	gateway  adapter.CheckoutGateway

	defaultCourseID string
	defaultPriceID  string
	defaultAmount   int64
	defaultCurrency string

	log *zerolog.Logger
}

type CheckoutDefaults struct {
	CourseID string
	PriceID  string
	Amount   int64
	Currency string
}

func NewCheckoutUseCase(
	payments repository.PaymentRepository,
	users repository.UserRepository,
	courses repository.CourseRepository,
	gateway adapter.CheckoutGateway,
	defaults CheckoutDefaults,
	logger *zerolog.Logger,
) *checkoutUC {
	return &checkoutUC{
		payments:        payments,
		users:           users,
		courses:         courses,
		gateway:         gateway,
		defaultCourseID: defaults.CourseID,
		defaultPriceID:  defaults.PriceID,
		defaultAmount:   defaults.Amount,
		defaultCurrency: defaults.Currency,
		log:             logger,
	}
}

func (u *checkoutUC) CreateSession(ctx context.Context, in CreateSessionInput) (*model.Payment, string, error) {
	if in.UserID == "" || in.Email == "" || in.SuccessURL == "" || in.CancelURL == "" {
		return nil, "", domain.ErrInvalidArgument
	}
	courseID := in.CourseID
	if courseID == "" {
		courseID = u.defaultCourseID
	}
	if courseID == "" {
		return nil, "", domain.ErrInvalidArgument
	}

	user, err := u.users.FindByID(ctx, nil, in.UserID)
	if err != nil {
		return nil, "", err
	}

	// Reject before any gateway call: an entitled user must not be able to
	// open a duplicate session, and no payment record may be created for one.
	if user.IsEnrolled(courseID) || (user.CourseAccess && courseID == u.defaultCourseID) {
		return nil, "", domain.ErrAlreadyEnrolled
	}

	customerID := user.CustomerID
	if customerID == "" {
		customerID, err = u.gateway.EnsureCustomer(ctx, in.Email, user.Name)
		if err != nil {
			return nil, "", err
		}
		if err := u.users.SetCustomerID(ctx, nil, user.ID, customerID); err != nil {
			// The customer exists gateway-side; the next checkout re-finds it
			// by email. Not worth failing the purchase over.
			u.log.Warn().Err(err).Str("user_id", user.ID).Msg("persist customer id failed")
		}
	}

	amount := u.defaultAmount
	currency := u.defaultCurrency
	priceID := in.PriceID
	course, err := u.courses.FindByID(ctx, nil, courseID)
	if err == nil {
		if course.Price > 0 {
			amount = course.Price
		}
		if course.Currency != "" {
			currency = course.Currency
		}
		if priceID == "" {
			priceID = course.GatewayPriceID
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}
	if priceID == "" {
		priceID = u.defaultPriceID
	}

	sess, err := u.gateway.CreateCheckoutSession(ctx, adapter.CheckoutSessionRequest{
		CustomerID: customerID,
		PriceID:    priceID,
		SuccessURL: in.SuccessURL,
		CancelURL:  in.CancelURL,
		UserID:     user.ID,
		CourseID:   courseID,
	})
	if err != nil {
		return nil, "", err
	}

	p := &model.Payment{
		SessionID:  sess.ID,
		UserID:     user.ID,
		CourseID:   courseID,
		CustomerID: customerID,
		Amount:     amount,
		Currency:   currency,
		Status:     model.PaymentStatusPending,
		CreatedAt:  time.Now(),
	}
	if err := u.payments.Save(ctx, nil, p); err != nil {
		return nil, "", err
	}
	metrics.IncPayment(string(model.PaymentStatusPending))

	u.log.Info().
		Str("session_id", sess.ID).
		Str("user_id", user.ID).
		Str("course_id", courseID).
		Int64("amount", amount).
		Msg("checkout session created")

	return p, sess.URL, nil
}

func (u *checkoutUC) SessionStatus(ctx context.Context, sessionID string) (*model.Payment, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.payments.FindBySessionID(ctx, nil, sessionID)
}
