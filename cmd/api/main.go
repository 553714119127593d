// @title Natours API
// @version 1.0
// @description Natours tour booking API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	_ "github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/docs" // This is required for swagger
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/auth"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/email"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/handlers"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/logging"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/middleware"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/objstore"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/payment"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/ratelimit"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/repository"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/routes"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store/driver"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	db, err := driver.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	users := repository.NewUsers(db)
	tours := repository.NewTours(db)
	reviews := repository.NewReviews(db, tours, users, logger)
	bookings := repository.NewBookings(db)

	mailer, err := email.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	tokens := auth.NewTokens(cfg.JWT)
	authSvc := auth.NewService(users, tokens, mailer, cfg.JWT.ResetTokenTTL, logger)

	bucket, err := objstore.New(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("object storage: %w", err)
	}
	payments := payment.New(cfg.Stripe, logger)
	if !payments.Configured() {
		logger.Warn("STRIPE_SECRET_KEY not set, checkout is disabled")
	}

	renderer, err := views.New()
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := routes.Options{
		Guard:          middleware.NewGuard(tokens, users, logger),
		IPs:            middleware.NewIPResolver(cfg.RateLimit.TrustedProxies),
		Metrics:        middleware.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Log:            logger,
	}
	if cfg.RateLimit.Enabled {
		limiter, closeLimiter, err := ratelimit.New(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		defer func() { _ = closeLimiter() }()
		opts.Limiter = limiter
	}

	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authSvc, cfg, logger),
		Health:   handlers.NewHealthHandler(db),
		Users:    handlers.NewUserHandler(users, bucket, logger),
		Tours:    handlers.NewTourHandler(tours, reviews, users, bucket, logger),
		Reviews:  handlers.NewReviewHandler(reviews, tours, logger),
		Bookings: handlers.NewBookingHandler(bookings, tours, users, payments, logger),
		Images:   handlers.NewImageHandler(bucket, logger),
		Views:    handlers.NewViewHandler(renderer, tours, reviews, users, bookings, logger),
	}
	if cfg.IsGoogleOAuthConfigured() {
		h.Google = handlers.NewGoogleAuthHandler(authSvc, cfg, logger)
	} else {
		logger.Info("Google OAuth not configured, /api/v1/auth/google routes disabled")
	}

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(routes.SetupRoutes(h, opts)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
