package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/bundlebuilder/internal/dashboard"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/config"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/logging"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Configuration file path")
	port := flag.Int("port", 0, "Port to listen on (0 = api.dashboard_port from config)")
	flag.Parse()

	cfg := config.LoadOrEnv_WithPath(*configPath)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "dashboard")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	gin.SetMode(gin.ReleaseMode)
	router := dashboard.NewServer(store, logger).Router(cfg.API.AllowedOrigins)

	listen := cfg.API.DashboardPort
	if *port > 0 {
		listen = *port
	}
	logger.Info("Starting dashboard server", "port", listen)
	if err := router.Run(fmt.Sprintf(":%d", listen)); err != nil {
		logger.Error("Failed to start server", slog.Any("error", err))
		os.Exit(1)
	}
}
