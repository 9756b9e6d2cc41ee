package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/giygas/posologie-api/config"
	"github.com/giygas/posologie-api/data"
	"github.com/giygas/posologie-api/formularyparser"
	"github.com/giygas/posologie-api/logging"
	"github.com/giygas/posologie-api/scheduler"
	"github.com/giygas/posologie-api/server"
)

func main() {
	// .env is optional; environment variables win either way
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithOptions("logs", cfg.LogLevel, cfg.LogRetentionWeeks, cfg.MaxLogFileSize)

	// Formulary store with atomic swaps for zero-downtime refreshes
	store := data.NewFormularyContainer()
	store.SetServerStartTime(time.Now())

	parser := formularyparser.NewFormularyParser(cfg.FormularyPath, cfg.FormularyURL)

	sched := scheduler.NewFormularyScheduler(store, parser)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start the formulary scheduler", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(cfg, store)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown failed", "error", err)
	}

	sched.Stop()
}
