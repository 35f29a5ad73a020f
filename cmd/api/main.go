package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "cfp-engine/docs" // This is for Swagger
	"cfp-engine/internal/analytics"
	"cfp-engine/internal/auth"
	"cfp-engine/internal/config"
	"cfp-engine/internal/database"
	"cfp-engine/internal/handlers"
	"cfp-engine/internal/logger"
	"cfp-engine/internal/middleware"
	"cfp-engine/internal/service"
	"cfp-engine/internal/vault"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title CFP Engine API
// @version 1.0
// @description Call for papers submission, review and decision API

// @contact.name CFP Engine maintainers

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Setup(logger.Config{Level: cfg.Log.Level})
	slog.Info("Starting CFP engine", "version", cfg.App.Version, "env", cfg.App.Env)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	slog.Info("Database connection established")

	// Run database migrations
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	applied, err := database.NewMigrationExecutor(db.DB).RunMigrations(ctx, cfg.Database.MigrationsPath)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database migrations completed", "applied", len(applied))

	sealer, err := newSealer(cfg)
	if err != nil {
		return err
	}

	// Initialize services
	tokens := auth.NewService(&cfg.JWT)
	sink := analytics.New(cfg.Analytics.Enabled, slog.Default())
	speakerSvc := service.NewSpeakerService(db.DB, cfg.CFP.MaxSubmissionsPerSpeaker)
	submissionSvc := service.NewSubmissionService(db.DB, sink, cfg.CFP.MaxSubmissionsPerSpeaker)
	tagSvc := service.NewTagService(db.DB)
	reviewerSvc := service.NewReviewerService(db.DB, tokens, cfg.CFP.ReviewerActivationURL)
	reviewSvc := service.NewReviewService(db.DB, sealer, cfg.CFP.ReviewScoreMax)
	decisionSvc := service.NewDecisionService(db.DB, sink, cfg.App.ConferenceURL)
	notificationSvc := service.NewNotificationService(db.DB)
	auditSvc := service.NewAuditService(db.DB)

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(tokens, speakerSvc, reviewerSvc)
	auditMw := middleware.NewAuditMiddleware(auditSvc)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)
	defer rateLimiter.Close()

	// Setup router
	router := &handlers.Router{
		Auth:          authMw,
		Audit:         auditMw,
		Health:        db,
		Version:       cfg.App.Version,
		Config:        handlers.NewConfigHandler(cfg),
		Speakers:      handlers.NewSpeakerHandler(speakerSvc),
		Submissions:   handlers.NewSubmissionHandler(submissionSvc),
		Tags:          handlers.NewTagHandler(tagSvc),
		Reviews:       handlers.NewReviewHandler(reviewSvc),
		Reviewers:     handlers.NewReviewerHandler(reviewerSvc),
		Admin:         handlers.NewAdminHandler(submissionSvc, reviewSvc, decisionSvc),
		Notifications: handlers.NewNotificationHandler(notificationSvc),
		AuditLogs:     handlers.NewAuditHandler(auditSvc),
	}
	mux := http.NewServeMux()
	router.Register(mux)

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		slog.Info("Server shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

// newSealer returns the Vault transit sealer when Vault is enabled
func newSealer(cfg *config.Config) (vault.Sealer, error) {
	if !cfg.Vault.Enabled {
		slog.Warn("Vault disabled, private review notes are stored unencrypted")
		return vault.PlainSealer{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sealer, err := vault.NewTransitSealer(ctx, &vault.Config{
		Address:      cfg.Vault.Address,
		Token:        cfg.Vault.Token,
		TransitMount: cfg.Vault.TransitMount,
		KeyName:      cfg.Vault.NotesKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vault: %w", err)
	}
	slog.Info("Vault transit sealer ready", "mount", cfg.Vault.TransitMount, "key", cfg.Vault.NotesKey)
	return sealer, nil
}
