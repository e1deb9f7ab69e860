// Package main is the entry point for the retail insights service.
// It loads the trained demand regressor, the historical sales dataset and the
// precomputed elasticity table, then serves predictions, forecasts and price
// scenarios over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/retail-insights/internal/config"
	"github.com/aristath/retail-insights/internal/di"
	"github.com/aristath/retail-insights/internal/scheduler"
	"github.com/aristath/retail-insights/internal/server"
	"github.com/aristath/retail-insights/pkg/logger"
)

// main orchestrates startup:
// 1. Loads configuration from environment variables (.env supported)
// 2. Initializes logging
// 3. Wires dependencies (analytics.db, model, dataset, elasticity, services, jobs)
// 4. Starts the HTTP server and the job scheduler
// 5. Waits for a shutdown signal and stops both gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "retail-insights",
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting retail insights service")

	sched := scheduler.New(log)

	// Startup loading gets a bounded window; artifacts may come from object storage
	wireCtx, wireCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	container, jobs, err := di.Wire(wireCtx, cfg, sched, log)
	wireCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	sched.Start()
	if jobs.DatasetRefresh != nil {
		log.Info().Str("schedule", cfg.DatasetRefreshSchedule).Msg("Dataset refresh scheduled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()
	log.Info().Msg("Scheduler stopped")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Final checkpoint so analytics.db is self-contained on disk
	if err := jobs.WALCheckpoint.Run(); err != nil {
		log.Warn().Err(err).Msg("Final WAL checkpoint failed")
	}

	log.Info().Msg("Server stopped")
}
