package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

func TestDefault_MatchesDefaultWindow(t *testing.T) {
	cfg := Default()

	assert.Equal(t, bundle.DefaultWindow(), cfg.Engine.Window())
	assert.Equal(t, catalog.DefaultNormalizerOptions(), cfg.Catalog.NormalizerOptions())
	assert.Equal(t, "bundles.db", cfg.Storage.DatabasePath)

	ths, err := cfg.Engine.ThemeList()
	require.NoError(t, err)
	assert.Len(t, ths, 9)
}

func TestLoadFromYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
engine:
  min: 40
  max: 60.50
  min_items: 2
  themes: [face, hair]
storage:
  database_path: "test.db"
observability:
  logging:
    level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	w := cfg.Engine.Window()
	assert.Equal(t, catalog.Cents(4000), w.Min)
	assert.Equal(t, catalog.Cents(6050), w.Max)
	assert.Equal(t, catalog.Cents(5025), w.Target)
	assert.Equal(t, 2, w.MinItems)
	assert.Equal(t, 25, w.MaxItems, "unset values keep defaults")
	assert.Equal(t, "test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)

	ths, err := cfg.Engine.ThemeList()
	require.NoError(t, err)
	require.Len(t, ths, 2)
	assert.Equal(t, "face", ths[0].ID)
}

func TestLoad_InvertedWindowIsNormalized(t *testing.T) {
	cfg := Default()
	cfg.Engine.Min, cfg.Engine.Max = cfg.Engine.Max, cfg.Engine.Min

	w := cfg.Engine.Window()
	assert.Equal(t, catalog.Cents(4900), w.Min)
	assert.Equal(t, catalog.Cents(6500), w.Max)
}

func TestLoad_UnknownTheme(t *testing.T) {
	cfg := Default()
	cfg.Engine.Themes = []string{"hair", "garden"}

	_, err := cfg.Engine.ThemeList()
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BUNDLES_DB_PATH", "env.db")
	t.Setenv("BUNDLES_MAX", "70")
	t.Setenv("BUNDLES_THEMES", "men, nails")
	t.Setenv("BUNDLES_API_PORT", "9000")

	cfg := LoadFromEnv()
	assert.Equal(t, "env.db", cfg.Storage.DatabasePath)
	assert.Equal(t, catalog.Cents(7000), cfg.Engine.Window().Max)
	assert.Equal(t, []string{"men", "nails"}, cfg.Engine.Themes)
	assert.Equal(t, 9000, cfg.API.Port)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("BUNDLES_DB_PATH", "")
	t.Setenv("BUNDLES_MIN_ITEMS", "not-a-number")

	cfg := LoadFromEnv()
	assert.Equal(t, "bundles.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 3, cfg.Engine.MinItems)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoadOrEnv_FallbackToEnv(t *testing.T) {
	t.Setenv("BUNDLES_DB_PATH", "fallback.db")

	cfg := LoadOrEnv_WithPath("nonexistent.yaml")
	assert.NotNil(t, cfg)
	assert.Equal(t, "fallback.db", cfg.Storage.DatabasePath)
}

func TestEnvVarExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
storage:
  database_path: "${TEST_DB_PATH}"
catalog:
  products_path: "${TEST_DATA}/products.json"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	t.Setenv("TEST_DB_PATH", "expanded.db")
	t.Setenv("TEST_DATA", "/srv/data")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "/srv/data/products.json", cfg.Catalog.ProductsPath)
}

func TestLoadDotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("BUNDLES_TEST_DOTENV=from-file\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("BUNDLES_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(envPath))
	assert.Equal(t, "from-file", os.Getenv("BUNDLES_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(tmpDir, "missing.env")))
}
