package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/bundlebuilder/internal/application/service"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
	"github.com/eshaffer321/bundlebuilder/internal/domain/engine"
)

const productsJSON = `[
  {"id": "cl", "brand": "Bloom", "name": "Gentle Face Cleanser", "categories": ["face"], "offers": [{"store": "amazon-us", "url": "https://shop.test/cl", "priceUSD": 16, "freeShipOver": 49}]},
  {"id": "se", "brand": "Bloom", "name": "Vitamin C Face Serum", "categories": ["face"], "offers": [{"store": "amazon-us", "url": "https://shop.test/se", "priceUSD": 22, "freeShipOver": 49}]},
  {"id": "mo", "brand": "Bloom", "name": "Daily Face Moisturizer", "categories": ["face"], "offers": [{"store": "amazon-us", "url": "https://shop.test/mo", "priceUSD": 19, "freeShipOver": 49}]}
]`

func TestParseBuildFlags(t *testing.T) {
	flags, err := ParseBuildFlags([]string{"-dry-run", "-products", "p.json", "-db", "x.db"})
	require.NoError(t, err)
	assert.True(t, flags.DryRun)
	assert.False(t, flags.JSON)
	assert.Equal(t, "p.json", flags.Products)
	assert.Equal(t, "x.db", flags.Database)
	assert.Equal(t, "config.yaml", flags.ConfigPath)

	_, err = ParseBuildFlags([]string{"-nope"})
	assert.Error(t, err)
}

func TestParseServeFlags(t *testing.T) {
	flags, err := ParseServeFlags([]string{"-port", "9001", "-watch", "30s", "-verbose"})
	require.NoError(t, err)
	assert.Equal(t, 9001, flags.Port)
	assert.Equal(t, 30*time.Second, flags.Watch)
	assert.True(t, flags.Verbose)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg := LoadConfig(CommonFlags{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Products:   "a.json",
		Brands:     "b.json",
		Database:   "c.db",
		Verbose:    true,
	})
	assert.Equal(t, "a.json", cfg.Catalog.ProductsPath)
	assert.Equal(t, "b.json", cfg.Catalog.BrandsPath)
	assert.Equal(t, "c.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

func TestPrintBuildSummary(t *testing.T) {
	var buf bytes.Buffer
	summary := &service.BuildSummary{ID: "b-1", Products: 4, Eligible: 3, Skipped: 1, Collections: 1, SkippedThemes: []string{"men"}}
	snap := engine.Snapshot{
		Window: engine.WindowView{Min: 4900, Max: 6500, Target: 5700, MinItems: 3, MaxItems: 25},
		Collections: []engine.CollectionView{
			{ID: "bundle-face", Count: 3, Total: catalog.Cents(5700), InWindow: true},
		},
		Deviations: []string{"bundle-face below minimum"},
	}

	PrintBuildSummary(&buf, summary, snap)

	out := buf.String()
	assert.Contains(t, out, "Build b-1: Products=4 Eligible=3 Skipped=1")
	assert.Contains(t, out, "Window: $49.00 - $65.00 (target $57.00, 3-25 items)")
	assert.Regexp(t, `bundle-face\s+3\s+\$57\.00\s+yes`, out)
	assert.Contains(t, out, "Skipped themes: men")
	assert.Contains(t, out, "  - bundle-face below minimum")
	assert.NotContains(t, out, "custom")
}

func TestPrintHeader(t *testing.T) {
	var buf bytes.Buffer
	PrintHeader(&buf, "build", true)
	assert.Equal(t, "bundler: build (DRY-RUN mode)\n", buf.String())
}

func TestRunBuild_DryRunJSON(t *testing.T) {
	dir := t.TempDir()
	pp := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(pp, []byte(productsJSON), 0644))

	flags := &BuildFlags{
		CommonFlags: CommonFlags{
			ConfigPath: filepath.Join(dir, "missing.yaml"),
			Products:   pp,
			Brands:     filepath.Join(dir, "none.json"),
			Database:   filepath.Join(dir, "never.db"),
		},
		DryRun: true,
		JSON:   true,
	}
	var buf bytes.Buffer
	require.NoError(t, RunBuild(context.Background(), flags, &buf))

	var snap engine.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	require.Len(t, snap.Collections, 1)
	assert.Equal(t, "bundle-face", snap.Collections[0].ID)
	assert.Equal(t, catalog.Cents(5700), snap.Collections[0].Total)

	_, err := os.Stat(flags.Database)
	assert.True(t, os.IsNotExist(err), "dry run must not create the database")
}

func TestRunBuild_Persists(t *testing.T) {
	dir := t.TempDir()
	pp := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(pp, []byte(productsJSON), 0644))

	flags := &BuildFlags{CommonFlags: CommonFlags{
		ConfigPath: filepath.Join(dir, "missing.yaml"),
		Products:   pp,
		Database:   filepath.Join(dir, "bundles.db"),
	}}
	var buf bytes.Buffer
	require.NoError(t, RunBuild(context.Background(), flags, &buf))

	assert.Contains(t, buf.String(), "bundler: build (PERSIST mode)")
	assert.Contains(t, buf.String(), "bundle-face")
	_, err := os.Stat(flags.Database)
	assert.NoError(t, err)
}
