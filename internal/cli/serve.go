package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/bundlebuilder/internal/api"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/logging"
)

// RunServe builds once, then runs the API server until SIGINT or SIGTERM.
func RunServe(flags *ServeFlags) error {
	cfg := LoadConfig(flags.CommonFlags)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "api")

	// Initialize storage
	store, err := NewStore(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := NewService(cfg, store, logger)
	if _, err := svc.Rebuild(ctx); err != nil {
		// The API stays up so a later POST /api/rebuild can recover.
		logger.Error("initial build failed", slog.Any("error", err))
	}
	if flags.Watch > 0 {
		go svc.Watch(ctx, flags.Watch)
	}

	apiCfg := api.ConfigFrom(cfg.API)
	if flags.Port > 0 {
		apiCfg.Port = flags.Port
	}
	server := api.NewServer(apiCfg, svc, logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
