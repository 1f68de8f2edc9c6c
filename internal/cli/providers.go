package cli

import (
	"log/slog"

	"github.com/eshaffer321/bundlebuilder/internal/adapters/source"
	"github.com/eshaffer321/bundlebuilder/internal/application/service"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/config"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/storage"
)

// LoadConfig loads the config file (falling back to env) and applies flag overrides
func LoadConfig(flags CommonFlags) *config.Config {
	cfg := config.LoadOrEnv_WithPath(flags.ConfigPath)
	if flags.Products != "" {
		cfg.Catalog.ProductsPath = flags.Products
	}
	if flags.Brands != "" {
		cfg.Catalog.BrandsPath = flags.Brands
	}
	if flags.Database != "" {
		cfg.Storage.DatabasePath = flags.Database
	}
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	return cfg
}

// NewSource creates the catalog file source
func NewSource(cfg *config.Config) *source.FileSource {
	return source.NewFileSource(cfg.Catalog.ProductsPath, cfg.Catalog.BrandsPath)
}

// NewStore opens the sqlite store. Dry runs get no store.
func NewStore(cfg *config.Config, dryRun bool) (storage.Repository, error) {
	if dryRun {
		return nil, nil
	}
	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewService wires the bundle service
func NewService(cfg *config.Config, store storage.Repository, logger *slog.Logger) *service.BundleService {
	return service.NewBundleService(cfg, NewSource(cfg), store, logger)
}
