package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/seoyeonhwng/snoop/internal/app"
	"github.com/seoyeonhwng/snoop/internal/pkg/config"
	"github.com/seoyeonhwng/snoop/internal/service/scheduler"
)

const (
	serviceName    = "snoop-runtime"
	serviceVersion = "1.0.0"
)

func main() {
	runOnce := flag.Bool("once", false, "run the daily job once and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	if err := app.InitLogger(cfg, serviceName, serviceVersion); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Scheduler.Timezone).Msg("Failed to load timezone")
	}
	time.Local = loc

	log.Info().
		Str("version", serviceVersion).
		Msg("🚀 Starting Snoop Runtime (daily collector)...")

	// Context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	log.Info().Msg("✅ Database connected")

	sched := scheduler.New(a.Collector, a.Signals, a.Notifier, loc)

	// ========================================
	// One-shot mode
	// ========================================
	if *runOnce || !cfg.Scheduler.Enabled {
		_, runErr := sched.RunDaily(ctx)
		closeApp(a, cfg)
		if runErr != nil {
			log.Error().Err(runErr).Msg("Daily job failed")
			os.Exit(1)
		}
		return
	}

	// ========================================
	// Scheduled mode
	// ========================================
	if err := sched.Start(ctx, cfg.Scheduler.CronSpec); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	log.Info().Msg("🎯 Daily scheduler is running")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info().Msg("🛑 Shutdown signal received, stopping scheduler...")

	sched.Stop()
	cancel()
	closeApp(a, cfg)

	log.Info().Msg("👋 Snoop Runtime stopped")
}

func closeApp(a *app.App, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	a.Close(ctx)
}
