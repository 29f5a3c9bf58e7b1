// File: internal/infra/web/server.go
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"online-course-platform/internal/usecase"
)

// NewRouter wires the public API. The webhook route stays outside the auth
// group: the sender authenticates with its signature, not a bearer token.
func NewRouter(h *Handlers, am *AuthManager, access usecase.AccessUseCase, logger *zerolog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(TraceID)
	r.Use(RequestLog(logger))
	r.Use(Recover(logger))
	r.Use(Timeout(30 * time.Second))

	r.Post("/webhooks/payment", h.HandleWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(am))

			r.Post("/payments/checkout-session", h.CreateCheckoutSession)
			r.Get("/payments/sessions/{sessionID}", h.SessionStatus)

			r.Get("/enrollments", h.ListEnrollments)
			r.Get("/enrollments/{courseID}/check", h.CheckEnrollment)

			r.Group(func(r chi.Router) {
				r.Use(RequireCourseAccess(access))
				r.Get("/courses/{courseID}/progress", h.CourseProgress)
			})
		})
	})

	return r
}

func NewServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewAdminRouter serves liveness and metrics on the internal port.
func NewAdminRouter(pool *pgxpool.Pool) chi.Router {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
