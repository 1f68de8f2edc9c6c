package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/eshaffer321/bundlebuilder/internal/api/handlers"
	"github.com/eshaffer321/bundlebuilder/internal/api/middleware"
	"github.com/eshaffer321/bundlebuilder/internal/application/service"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/config"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8085,
		AllowedOrigins: middleware.DefaultCORSConfig().AllowedOrigins,
	}
}

// ConfigFrom derives the server config from the application config.
func ConfigFrom(c config.APIConfig) Config {
	cfg := DefaultConfig()
	if c.Port > 0 {
		cfg.Port = c.Port
	}
	if len(c.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = c.AllowedOrigins
	}
	return cfg
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	svc        *service.BundleService
}

// NewServer creates a new API server.
func NewServer(cfg Config, svc *service.BundleService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
		svc:    svc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.Recoverer)

	// CORS
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	// Request logging
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler(s.svc)
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		// Themed collections and the pool
		bundles := handlers.NewBundlesHandler(s.svc)
		r.Get("/bundles", bundles.List)
		r.Get("/bundles/{id}", bundles.Get)
		r.Post("/bundles/{id}/items", bundles.AddItem)
		r.Delete("/bundles/{id}/items/{itemID}", bundles.RemoveItem)
		r.Post("/bundles/{id}/swap", bundles.Swap)
		r.Post("/bundles/{id}/rebalance", bundles.Rebalance)
		r.Post("/transfer", bundles.Transfer)
		r.Get("/pool", bundles.Pool)

		// Custom collection
		custom := handlers.NewCustomHandler(s.svc)
		r.Get("/custom", custom.Get)
		r.Post("/custom/items", custom.AddItem)
		r.Delete("/custom/items", custom.Clear)
		r.Delete("/custom/items/{itemID}", custom.RemoveItem)
		r.Get("/custom/items/{itemID}/check", custom.Check)
		r.Put("/custom/budget", custom.SetBudget)
		r.Put("/custom/see-all", custom.SetSeeAll)

		// Item picker
		cat := handlers.NewCatalogHandler(s.svc)
		r.Get("/items", cat.Items)
		r.Get("/categories", cat.Categories)

		// Builds and audit log
		builds := handlers.NewBuildsHandler(s.svc)
		r.Post("/rebuild", builds.Rebuild)
		r.Get("/builds", builds.List)
		r.Get("/builds/current", builds.Current)
		r.Get("/mutations", builds.Mutations)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
