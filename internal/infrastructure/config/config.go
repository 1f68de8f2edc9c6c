// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback), optionally seeded from a .env file
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	window := cfg.Engine.Window()
//	dbPath := cfg.Storage.DatabasePath
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
	"github.com/eshaffer321/bundlebuilder/internal/domain/engine"
	"github.com/eshaffer321/bundlebuilder/internal/domain/selector"
	"github.com/eshaffer321/bundlebuilder/internal/domain/solver"
	"github.com/eshaffer321/bundlebuilder/internal/domain/themes"
)

// Config represents the entire application configuration
type Config struct {
	Engine        EngineConfig        `yaml:"engine"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Storage       StorageConfig       `yaml:"storage"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// EngineConfig holds the price window and search limits. Prices are dollars.
type EngineConfig struct {
	Min          decimal.Decimal `yaml:"min"`
	Max          decimal.Decimal `yaml:"max"`
	Target       decimal.Decimal `yaml:"target"`
	MinItems     int             `yaml:"min_items"`
	MaxItems     int             `yaml:"max_items"`
	SlotCap      int             `yaml:"slot_cap"`
	RebalanceCap int             `yaml:"rebalance_cap"`
	RemovalCap   int             `yaml:"removal_cap"`
	// Themes lists theme ids in allocation order. Empty means all themes.
	Themes []string `yaml:"themes"`
}

// CatalogConfig holds catalog file locations and offer eligibility.
type CatalogConfig struct {
	ProductsPath   string          `yaml:"products_path"`
	BrandsPath     string          `yaml:"brands_path"`
	FreeShipOver   decimal.Decimal `yaml:"free_ship_over"`
	PreferredStore string          `yaml:"preferred_store"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// APIConfig holds HTTP server settings
type APIConfig struct {
	Port           int      `yaml:"port"`
	DashboardPort  int      `yaml:"dashboard_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the production configuration.
func Default() *Config {
	w := bundle.DefaultWindow()
	opts := catalog.DefaultNormalizerOptions()
	return &Config{
		Engine: EngineConfig{
			Min:          w.Min.Decimal(),
			Max:          w.Max.Decimal(),
			MinItems:     w.MinItems,
			MaxItems:     w.MaxItems,
			SlotCap:      solver.DefaultSlotCap,
			RebalanceCap: selector.RebalanceCap,
			RemovalCap:   selector.RemovalCap,
		},
		Catalog: CatalogConfig{
			ProductsPath:   "data/products.json",
			BrandsPath:     "data/intl-brands.json",
			FreeShipOver:   opts.FreeShipOver.Decimal(),
			PreferredStore: opts.PreferredStore,
		},
		Storage: StorageConfig{
			DatabasePath: "bundles.db",
		},
		API: APIConfig{
			Port:          8085,
			DashboardPort: 8086,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// Window converts the configured dollars into a normalized bundle.Window.
func (e EngineConfig) Window() bundle.Window {
	return bundle.Window{
		Min:      catalog.FromDecimal(e.Min),
		Max:      catalog.FromDecimal(e.Max),
		Target:   catalog.FromDecimal(e.Target),
		MinItems: e.MinItems,
		MaxItems: e.MaxItems,
	}.Normalize()
}

// Options returns the engine configuration.
func (e EngineConfig) Options() engine.Config {
	return engine.Config{
		Window:       e.Window(),
		RebalanceCap: e.RebalanceCap,
		RemovalCap:   e.RemovalCap,
	}
}

// ThemeList resolves the configured theme order.
func (e EngineConfig) ThemeList() ([]themes.Theme, error) {
	return themes.Lookup(e.Themes)
}

// NormalizerOptions returns the offer eligibility settings.
func (c CatalogConfig) NormalizerOptions() catalog.NormalizerOptions {
	return catalog.NormalizerOptions{
		FreeShipOver:   catalog.FromDecimal(c.FreeShipOver),
		PreferredStore: c.PreferredStore,
	}
}

// Load reads and parses the config file. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${BUNDLES_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment. A missing file
// is not an error; variables already set win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := Default()

	cfg.Engine.Min = getEnvDecimal("BUNDLES_MIN", cfg.Engine.Min)
	cfg.Engine.Max = getEnvDecimal("BUNDLES_MAX", cfg.Engine.Max)
	cfg.Engine.Target = getEnvDecimal("BUNDLES_TARGET", cfg.Engine.Target)
	cfg.Engine.MinItems = getEnvInt("BUNDLES_MIN_ITEMS", cfg.Engine.MinItems)
	cfg.Engine.MaxItems = getEnvInt("BUNDLES_MAX_ITEMS", cfg.Engine.MaxItems)
	cfg.Engine.SlotCap = getEnvInt("BUNDLES_SLOT_CAP", cfg.Engine.SlotCap)
	cfg.Engine.RebalanceCap = getEnvInt("BUNDLES_REBALANCE_CAP", cfg.Engine.RebalanceCap)
	cfg.Engine.RemovalCap = getEnvInt("BUNDLES_REMOVAL_CAP", cfg.Engine.RemovalCap)
	cfg.Engine.Themes = getEnvList("BUNDLES_THEMES", cfg.Engine.Themes)

	cfg.Catalog.ProductsPath = getEnv("BUNDLES_PRODUCTS_PATH", cfg.Catalog.ProductsPath)
	cfg.Catalog.BrandsPath = getEnv("BUNDLES_BRANDS_PATH", cfg.Catalog.BrandsPath)
	cfg.Catalog.FreeShipOver = getEnvDecimal("BUNDLES_FREE_SHIP_OVER", cfg.Catalog.FreeShipOver)
	cfg.Catalog.PreferredStore = getEnv("BUNDLES_PREFERRED_STORE", cfg.Catalog.PreferredStore)

	cfg.Storage.DatabasePath = getEnv("BUNDLES_DB_PATH", cfg.Storage.DatabasePath)

	cfg.API.Port = getEnvInt("BUNDLES_API_PORT", cfg.API.Port)
	cfg.API.DashboardPort = getEnvInt("BUNDLES_DASHBOARD_PORT", cfg.API.DashboardPort)
	cfg.API.AllowedOrigins = getEnvList("BUNDLES_ALLOWED_ORIGINS", cfg.API.AllowedOrigins)

	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)

	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnv_WithPath("config.yaml")
}

// LoadOrEnv_WithPath tries to load from specified path, falls back to environment variables.
// A .env file in the working directory is loaded first so both paths can use it.
func LoadOrEnv_WithPath(path string) *Config {
	_ = LoadDotEnv(".env")
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.Atoi(val); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvDecimal retrieves a dollar amount with a fallback default
func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if val := os.Getenv(key); val != "" {
		if d, err := decimal.NewFromString(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList retrieves a comma separated list with a fallback default
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
