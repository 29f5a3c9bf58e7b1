// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"online-course-platform/internal/domain"
	"online-course-platform/internal/domain/model"
	"online-course-platform/internal/domain/ports/repository"
	"online-course-platform/internal/infra/adapters/payment"
	"online-course-platform/internal/infra/logging"
	"online-course-platform/internal/infra/metrics"
	"online-course-platform/internal/usecase"
)

const maxWebhookBody = 1 << 20 // 1 MiB

type Handlers struct {
	checkout      usecase.CheckoutUseCase
	enrollment    usecase.EnrollmentUseCase
	access        usecase.AccessUseCase
	progress      repository.ProgressRepository
	webhookSecret string
	log           *zerolog.Logger
}

func NewHandlers(
	checkout usecase.CheckoutUseCase,
	enrollment usecase.EnrollmentUseCase,
	access usecase.AccessUseCase,
	progress repository.ProgressRepository,
	webhookSecret string,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		checkout:      checkout,
		enrollment:    enrollment,
		access:        access,
		progress:      progress,
		webhookSecret: webhookSecret,
		log:           logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, domain.ErrAlreadyEnrolled):
		writeError(w, http.StatusConflict, "already enrolled")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrNoCourseAccess), errors.Is(err, domain.ErrCourseNotPurchased):
		writeError(w, http.StatusForbidden, "course access denied")
	case errors.Is(err, domain.ErrGatewayUnavailable):
		writeError(w, http.StatusServiceUnavailable, "payment provider unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

type createSessionRequest struct {
	Email      string `json:"email"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
	CourseID   string `json:"courseId,omitempty"`
	PriceID    string `json:"priceId,omitempty"`
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

func (h *Handlers) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, url, err := h.checkout.CreateSession(r.Context(), usecase.CreateSessionInput{
		UserID:     logging.UserID(r.Context()),
		Email:      req.Email,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		CourseID:   req.CourseID,
		PriceID:    req.PriceID,
	})
	if err != nil {
		logging.With(r.Context(), h.log).Warn().Err(err).Msg("create checkout session failed")
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createSessionResponse{SessionID: p.SessionID, URL: url})
}

type sessionStatusResponse struct {
	SessionID   string     `json:"sessionId"`
	Status      string     `json:"status"`
	CourseID    string     `json:"courseId"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (h *Handlers) SessionStatus(w http.ResponseWriter, r *http.Request) {
	p, err := h.checkout.SessionStatus(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// Callers may only poll their own sessions.
	if p.UserID != logging.UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, sessionStatusResponse{
		SessionID:   p.SessionID,
		Status:      string(p.Status),
		CourseID:    p.CourseID,
		CompletedAt: p.CompletedAt,
	})
}

// Webhook event envelope. Only the fields the reconciliation needs are
// decoded; everything else in the payload is ignored.
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSessionObject struct {
	ID            string            `json:"id"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

type paymentIntentObject struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// HandleWebhook verifies the delivery and reconciles it. The contract with
// the sender is strict: an unverifiable delivery gets a 400 and changes
// nothing; a verified one is acknowledged with 200 even when processing
// fails, because the sender retrying cannot fix our store and the sweeper
// will catch the session later.
func (h *Handlers) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	sig := r.Header.Get("X-Webhook-Signature")
	if sig == "" {
		sig = r.Header.Get("Stripe-Signature")
	}
	if !payment.VerifySignature(h.webhookSecret, sig, body) {
		metrics.IncWebhookSignatureFailure()
		logging.With(r.Context(), h.log).Warn().Msg("webhook signature verification failed")
		writeError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, http.StatusBadRequest, "malformed event")
		return
	}

	log := logging.With(r.Context(), h.log).With().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Logger()

	switch event.Type {
	case "checkout.session.completed":
		h.handleSessionCompleted(r, &log, event)
	case "checkout.session.expired":
		h.handleSessionExpired(r, &log, event)
	case "payment_intent.payment_failed":
		h.handlePaymentFailed(r, &log, event)
	default:
		metrics.IncWebhookEvent(event.Type, "ignored")
		log.Debug().Msg("webhook event type ignored")
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handlers) handleSessionCompleted(r *http.Request, log *zerolog.Logger, event webhookEvent) {
	var obj checkoutSessionObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		metrics.IncWebhookEvent(event.Type, "error")
		log.Error().Err(err).Msg("decode checkout session object failed")
		return
	}
	if obj.PaymentStatus != "" && obj.PaymentStatus != "paid" {
		metrics.IncWebhookEvent(event.Type, "ignored")
		log.Info().Str("payment_status", obj.PaymentStatus).Msg("session completed but not paid")
		return
	}
	userID := obj.Metadata["userId"]
	courseID := obj.Metadata["courseId"]
	if userID == "" || courseID == "" {
		// Nothing to correlate against. Acknowledge so the sender stops
		// retrying a delivery that can never succeed.
		metrics.IncWebhookUnreconcilable()
		log.Error().Str("session_id", obj.ID).Msg("session metadata missing user or course")
		return
	}

	_, err := h.enrollment.CompleteCheckout(r.Context(), usecase.CompletionInput{
		SessionID: obj.ID,
		UserID:    userID,
		CourseID:  courseID,
		Amount:    obj.AmountTotal,
		Currency:  obj.Currency,
	})
	if err != nil {
		metrics.IncWebhookEvent(event.Type, "error")
		log.Error().Err(err).Str("session_id", obj.ID).Msg("checkout completion failed")
		return
	}
	metrics.IncWebhookEvent(event.Type, "processed")
}

func (h *Handlers) handleSessionExpired(r *http.Request, log *zerolog.Logger, event webhookEvent) {
	var obj checkoutSessionObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		metrics.IncWebhookEvent(event.Type, "error")
		log.Error().Err(err).Msg("decode checkout session object failed")
		return
	}
	if err := h.enrollment.FailCheckout(r.Context(), obj.ID); err != nil {
		metrics.IncWebhookEvent(event.Type, "error")
		log.Error().Err(err).Str("session_id", obj.ID).Msg("fail checkout failed")
		return
	}
	metrics.IncWebhookEvent(event.Type, "processed")
}

func (h *Handlers) handlePaymentFailed(r *http.Request, log *zerolog.Logger, event webhookEvent) {
	var obj paymentIntentObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		metrics.IncWebhookEvent(event.Type, "error")
		log.Error().Err(err).Msg("decode payment intent object failed")
		return
	}
	userID := obj.Metadata["userId"]
	if userID == "" {
		metrics.IncWebhookUnreconcilable()
		log.Warn().Str("payment_intent", obj.ID).Msg("payment failure without user metadata")
		return
	}
	if _, err := h.enrollment.FailPendingForUser(r.Context(), userID); err != nil {
		metrics.IncWebhookEvent(event.Type, "error")
		log.Error().Err(err).Str("user_id", userID).Msg("mark pending failed")
		return
	}
	metrics.IncWebhookEvent(event.Type, "processed")
}

type enrollmentResponse struct {
	CourseID         string     `json:"courseId"`
	Status           string     `json:"status"`
	CompletedLessons int        `json:"completedLessons"`
	TotalLessons     int        `json:"totalLessons"`
	EnrolledAt       time.Time  `json:"enrolledAt"`
	LastAccessedAt   *time.Time `json:"lastAccessedAt,omitempty"`
}

func (h *Handlers) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	list, err := h.enrollment.ListByUser(r.Context(), logging.UserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]enrollmentResponse, 0, len(list))
	for _, e := range list {
		out = append(out, enrollmentResponse{
			CourseID:         e.CourseID,
			Status:           string(e.Status),
			CompletedLessons: e.CompletedLessons,
			TotalLessons:     e.TotalLessons,
			EnrolledAt:       e.EnrolledAt,
			LastAccessedAt:   e.LastAccessedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"enrollments": out})
}

func (h *Handlers) CheckEnrollment(w http.ResponseWriter, r *http.Request) {
	enrolled, err := h.enrollment.IsEnrolled(r.Context(), logging.UserID(r.Context()), chi.URLParam(r, "courseID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enrolled": enrolled})
}

type progressResponse struct {
	CourseID         string    `json:"courseId"`
	ProgressPercent  int       `json:"progressPercent"`
	CompletedLessons int       `json:"completedLessons"`
	Status           string    `json:"status"`
	StartedAt        time.Time `json:"startedAt"`
}

// CourseProgress sits behind RequireCourseAccess; reaching it means the
// caller is entitled to the course.
func (h *Handlers) CourseProgress(w http.ResponseWriter, r *http.Request) {
	userID := logging.UserID(r.Context())
	courseID := chi.URLParam(r, "courseID")
	h.access.Touch(r.Context(), userID, courseID)

	p, err := h.progress.FindByKey(r.Context(), nil, model.EnrollmentKey(userID, courseID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Entitled through the legacy flag, before progress records
			// existed. Report a fresh start instead of a 404.
			writeJSON(w, http.StatusOK, progressResponse{CourseID: courseID, Status: string(model.ProgressStatusInProgress)})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{
		CourseID:         p.CourseID,
		ProgressPercent:  p.ProgressPercent,
		CompletedLessons: p.CompletedLessons,
		Status:           string(p.Status),
		StartedAt:        p.StartedAt,
	})
}
