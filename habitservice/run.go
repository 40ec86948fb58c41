// Package habitservice boots the habit service HTTP server.
package habitservice

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitloop/habitloop/internal/api"
	"github.com/habitloop/habitloop/internal/config"
	"github.com/habitloop/habitloop/internal/health"
	"github.com/habitloop/habitloop/internal/logger"
	"github.com/habitloop/habitloop/internal/services"
	"github.com/habitloop/habitloop/internal/store"
	"github.com/habitloop/habitloop/internal/store/postgres"
	"github.com/habitloop/habitloop/internal/store/sqlite"
)

// Run starts the habit service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("habit-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("time_zone", cfg.TimeZone).
		Msg("Habit service starting")

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := newServerContext()
	defer stop()

	st, err := newStore(cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Health checkers and startup gate.
	storeChecker := store.NewStoreHealthChecker(st, log, 2*time.Second)
	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go storeChecker.Start(ctx, 15*time.Second)
	go svcHealth.Start(ctx, time.Second)

	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	router := api.NewRouter(
		services.NewHabitService(st, loc),
		services.NewDashboardService(st, loc),
		svcHealth,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// newStore selects the store adapter from config.
func newStore(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewWithDB(db), nil
	case "sqlite":
		log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite store")
		return sqlite.New(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}

// waitUntilHealthy blocks startup until dependencies report healthy,
// bounded by the configured timeout.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, h *health.ServiceHealthChecker) error {
	deadline := time.Now().Add(cfg.StartupHealthTimeout)
	for {
		if h.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("dependencies unhealthy after %s", cfg.StartupHealthTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}
