package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	specpkg "github.com/daap14/billing/api"
	"github.com/daap14/billing/internal/api"
	"github.com/daap14/billing/internal/auth"
	"github.com/daap14/billing/internal/config"
	"github.com/daap14/billing/internal/database"
	"github.com/daap14/billing/internal/ledger"
	"github.com/daap14/billing/internal/observability"
	"github.com/daap14/billing/internal/plan"
	"github.com/daap14/billing/internal/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.New(context.Background(), cfg.DatabaseURL, database.WithMaxConns(cfg.DBMaxConns))
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	pool := db.Pool()
	userRepo := auth.NewRepository(pool)
	authService := auth.NewService(userRepo, cfg.BcryptCost)
	gate := auth.NewGate(userRepo)
	catalog := plan.NewCatalog(plan.NewPostgresRepository(pool), plan.WithMetrics(metrics), plan.WithLogger(slog.Default()))

	if _, err := authService.BootstrapAdmin(context.Background(), cfg.AdminEmail); err != nil {
		slog.Error("failed to bootstrap admin", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterDeps{
		DBPinger:      db,
		Version:       cfg.Version,
		Catalog:       catalog,
		Authenticator: authService,
		Gate:          gate,
		Users:         authService,
		TeamRepo:      team.NewRepository(pool),
		LedgerRepo:    ledger.NewPostgresRepository(pool),
		Metrics:       metrics,
		Gatherer:      registry,
		OpenAPISpec:   specpkg.OpenAPISpec,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting billing server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
