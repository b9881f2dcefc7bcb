package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/api"
	"github.com/seoyeonhwng/snoop/internal/api/handlers"
	collectHandlers "github.com/seoyeonhwng/snoop/internal/api/handlers/collect"
	"github.com/seoyeonhwng/snoop/internal/api/handlers/metasync"
	signalsHandlers "github.com/seoyeonhwng/snoop/internal/api/handlers/signals"
	"github.com/seoyeonhwng/snoop/internal/api/routes"
	"github.com/seoyeonhwng/snoop/internal/app"
	"github.com/seoyeonhwng/snoop/internal/pkg/config"
)

const (
	serviceName    = "snoop-api"
	serviceVersion = "1.0.0"
)

func main() {
	// Set timezone to Asia/Seoul (KST)
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load timezone")
	}
	time.Local = loc

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	if err := app.InitLogger(cfg, serviceName, serviceVersion); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("version", serviceVersion).
		Msg("🚀 Starting Snoop API Server...")

	// Context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	log.Info().Msg("✅ Database connected")

	handler := api.NewRouter(cfg, routes.Handlers{
		Health:  handlers.NewHealthHandler(a.Pool, serviceVersion),
		Signals: signalsHandlers.NewHandler(a.Signals),
		Collect: collectHandlers.NewHandler(a.Collector, a.FetchLogs),
		Sync:    metasync.NewHandler(a.CorpSync),
	})

	log.Info().Msg("✅ All routes registered (Health, Signals, Collect, Sync)")

	// Create HTTP server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", addr).
			Msg("🎯 API Server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("🛑 Shutdown signal received, stopping server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	cancel()
	a.Close(shutdownCtx)

	log.Info().Msg("👋 Snoop API Server stopped")
}
