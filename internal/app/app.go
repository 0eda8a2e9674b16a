package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"ArticleTutor/internal/api"
	"ArticleTutor/internal/config"
	"ArticleTutor/internal/infrastructure/extractor"
	"ArticleTutor/internal/infrastructure/llm"
	"ArticleTutor/internal/infrastructure/storage"
	"ArticleTutor/internal/logging"
	"ArticleTutor/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration to the HTTP server and its dependencies.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sql.DB
	server *http.Server
}

// New builds a runnable application instance. The database schema is
// created on startup if it does not exist yet.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := storage.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	service := usecase.NewService(usecase.Deps{
		Fetcher:    extractor.New(nil),
		Analyzer:   llm.NewClient(cfg.OpenAI, baseLogger.With("component", "llm")),
		Repository: storage.NewPostgresRepository(db),
		Logger:     baseLogger.With("component", "service"),
	})

	handler := api.NewHandler(service, baseLogger.With("component", "api"))
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewRouter(handler),
	}

	return &Application{cfg: cfg, logger: baseLogger, db: db, server: server}, nil
}

// Run serves HTTP until ctx is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests before returning.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.db.Close()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
