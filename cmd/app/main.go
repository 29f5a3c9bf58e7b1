// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"online-course-platform/internal/config"
	"online-course-platform/internal/domain/ports/adapter"
	"online-course-platform/internal/domain/ports/repository"
	"online-course-platform/internal/infra/adapters/notify"
	"online-course-platform/internal/infra/adapters/payment"
	"online-course-platform/internal/infra/db/postgres"
	"online-course-platform/internal/infra/logging"
	"online-course-platform/internal/infra/metrics"
	redisinfra "online-course-platform/internal/infra/redis"
	"online-course-platform/internal/infra/sched"
	"online-course-platform/internal/infra/web"
	"online-course-platform/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dev := flag.Bool("dev", false, "development mode: console logs, noop payment gateway")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath, *dev)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(ctx, cfg.Database.URL); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	paymentRepo := postgres.NewPaymentRepo(pool)
	courseRepo := postgres.NewCourseRepo(pool)
	enrollmentRepo := postgres.NewEnrollmentRepo(pool)
	progressRepo := postgres.NewProgressRepo(pool)
	activityRepo := postgres.NewActivityRepo(pool)

	var userRepo repository.UserRepository = postgres.NewUserRepo(pool)
	if cfg.Redis.URL != "" {
		rdb, err := redisinfra.NewClient(ctx, cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()
		userRepo = postgres.NewCachedUserRepo(userRepo, rdb, cfg.Redis.TTL)
		log.Info().Msg("user cache enabled")
	}

	var gateway adapter.CheckoutGateway
	if cfg.Runtime.Dev && cfg.Payment.Stripe.SecretKey == "" {
		gateway = payment.NewNoopGateway()
	} else {
		gateway = payment.NewStripeGateway(cfg.Payment.Stripe.SecretKey, log)
	}
	log.Info().Str("gateway", gateway.Name()).Msg("payment gateway configured")

	notifier := notify.NewLogNotifier(log)

	checkoutUC := usecase.NewCheckoutUseCase(paymentRepo, userRepo, courseRepo, gateway, usecase.CheckoutDefaults{
		CourseID: cfg.Course.DefaultID,
		PriceID:  cfg.Payment.Stripe.DefaultPriceID,
		Amount:   cfg.Payment.DefaultAmount,
		Currency: cfg.Payment.DefaultCurrency,
	}, log)
	enrollmentUC := usecase.NewEnrollmentUseCase(
		paymentRepo, userRepo, courseRepo, enrollmentRepo, progressRepo, activityRepo, notifier, log,
	)
	accessUC := usecase.NewAccessUseCase(userRepo, paymentRepo, enrollmentRepo, cfg.Course.DefaultID, log)

	sweeper := sched.NewCheckoutSweeper(
		paymentRepo, gateway, enrollmentUC, cfg.Sweeper.Interval, cfg.Sweeper.StaleAfter, log,
	)
	go sweeper.Run(ctx)

	am := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TTL)
	handlers := web.NewHandlers(checkoutUC, enrollmentUC, accessUC, progressRepo, cfg.Payment.Stripe.WebhookSecret, log)

	apiServer := web.NewServer(cfg.Server.Port, web.NewRouter(handlers, am, accessUC, log))
	adminServer := web.NewServer(cfg.Server.AdminPort, web.NewAdminRouter(pool))

	errCh := make(chan error, 2)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("api server listening")
		errCh <- apiServer.ListenAndServe()
	}()
	go func() {
		log.Info().Int("port", cfg.Server.AdminPort).Msg("admin server listening")
		errCh <- adminServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("api server shutdown failed")
	}
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("admin server shutdown failed")
	}
	log.Info().Msg("stopped")
}
