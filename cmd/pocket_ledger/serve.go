package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/core/services"
	"github.com/SscSPs/pocket_ledger_app/internal/events"
	"github.com/SscSPs/pocket_ledger_app/internal/handlers"
	"github.com/SscSPs/pocket_ledger_app/internal/llm"
	"github.com/SscSPs/pocket_ledger_app/internal/middleware"
	"github.com/SscSPs/pocket_ledger_app/internal/ocr"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/config"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/database"
	"github.com/SscSPs/pocket_ledger_app/internal/repositories/database/sqlstore"
	"github.com/SscSPs/pocket_ledger_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const (
	sessionPruneInterval = time.Hour
	shutdownTimeout      = 10 * time.Second
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg.LogLevel)

	// --- Run Database Migrations ---
	dialect, dsn, err := database.Target(cfg)
	if err != nil {
		return err
	}
	logger.Info("Running database migrations...", slog.String("dialect", string(dialect)))
	if err := database.RunMigrations(dialect, dsn, logger); err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close(db)

	publisher, err := events.New(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		// Events are best effort; the API keeps working without a broker.
		logger.Warn("Event broker unavailable, events will be dropped", slog.String("error", err.Error()))
		publisher = events.NoopPublisher{}
	}
	defer publisher.Close()

	collab := services.Collaborators{Publisher: publisher}
	if cfg.LLMAPIKey != "" {
		collab.Completer = llm.NewClient(llm.Config{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		})
	}
	if cfg.OCREndpoint != "" {
		collab.Extractor = ocr.NewHTTPExtractor(cfg.OCREndpoint, cfg.OCRTimeout)
	} else {
		logger.Warn("OCR_ENDPOINT not set. Receipt image scanning is disabled.")
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	container := services.NewServiceContainer(cfg, sqlstore.NewRepositoryProvider(db), collab)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	if err := handlers.RegisterRoutes(r, cfg, container, posthogClient); err != nil {
		return err
	}

	go pruneSessions(ctx, container.Session, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to run: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// pruneSessions deletes expired and revoked sessions until ctx is done.
func pruneSessions(ctx context.Context, sessions portssvc.SessionSvcFacade, logger *slog.Logger) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PruneExpiredSessions(ctx)
			if err != nil {
				logger.Error("Failed to prune sessions", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Info("Pruned sessions", slog.Int64("count", n))
			}
		}
	}
}
