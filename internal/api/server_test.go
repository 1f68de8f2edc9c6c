package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/bundlebuilder/internal/adapters/source"
	"github.com/eshaffer321/bundlebuilder/internal/api"
	"github.com/eshaffer321/bundlebuilder/internal/api/dto"
	"github.com/eshaffer321/bundlebuilder/internal/application/service"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/config"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/logging"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/storage"
)

const productsJSON = `[
  {"id": "sh1", "brand": "Acme", "name": "Argan Shampoo", "offers": [{"store": "amazon-us", "url": "https://shop.test/sh1", "priceUSD": 14, "freeShipOver": 49}]},
  {"id": "sh2", "brand": "Acme", "name": "Volume Shampoo", "offers": [{"store": "amazon-us", "url": "https://shop.test/sh2", "priceUSD": 16, "freeShipOver": 49}]},
  {"id": "co1", "brand": "Acme", "name": "Silk Conditioner", "offers": [{"store": "amazon-us", "url": "https://shop.test/co1", "priceUSD": 15, "freeShipOver": 49}]},
  {"id": "co2", "brand": "Acme", "name": "Repair Conditioner", "offers": [{"store": "amazon-us", "url": "https://shop.test/co2", "priceUSD": 17, "freeShipOver": 49}]},
  {"id": "hm1", "brand": "Acme", "name": "Deep Conditioning Hair Mask", "offers": [{"store": "amazon-us", "url": "https://shop.test/hm1", "priceUSD": 19, "freeShipOver": 49}]},
  {"id": "oil", "brand": "Acme", "name": "Hair Oil", "offers": [{"store": "amazon-us", "url": "https://shop.test/oil", "priceUSD": 11, "freeShipOver": 49}]},
  {"id": "cl", "brand": "Bloom", "name": "Gentle Face Cleanser", "categories": ["face"], "offers": [{"store": "amazon-us", "url": "https://shop.test/cl", "priceUSD": 16, "freeShipOver": 49}]},
  {"id": "se", "brand": "Bloom", "name": "Vitamin C Face Serum", "categories": ["face"], "offers": [{"store": "amazon-us", "url": "https://shop.test/se", "priceUSD": 22, "freeShipOver": 49}]},
  {"id": "mo", "brand": "Bloom", "name": "Daily Face Moisturizer", "categories": ["face"], "offers": [{"store": "amazon-us", "url": "https://shop.test/mo", "priceUSD": 19, "freeShipOver": 49}]},
  {"id": "x1", "brand": "Noir", "name": "Eau de Parfum", "categories": ["fragrance"], "offers": [{"store": "amazon-us", "url": "https://shop.test/x1", "priceUSD": 80, "freeShipOver": 49}]}
]`

func newTestServer(t *testing.T) (*api.Server, *storage.MockRepository) {
	t.Helper()
	dir := t.TempDir()
	pp := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(pp, []byte(productsJSON), 0644))

	repo := storage.NewMockRepository()
	svc := service.NewBundleService(config.Default(), source.NewFileSource(pp, ""), repo, logging.Discard())
	server := api.NewServer(api.DefaultConfig(), svc, logging.Discard())
	return server, repo
}

func do(t *testing.T, server *api.Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func rebuilt(t *testing.T) (*api.Server, *storage.MockRepository) {
	t.Helper()
	server, repo := newTestServer(t)
	rec := do(t, server, http.MethodPost, "/api/rebuild", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return server, repo
}

func TestServer_HealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := do(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	response := decode[dto.HealthResponse](t, rec)
	assert.Equal(t, "ok", response.Status)
	assert.Empty(t, response.BuildID)

	do(t, server, http.MethodPost, "/api/rebuild", nil)
	response = decode[dto.HealthResponse](t, do(t, server, http.MethodGet, "/health", nil))
	assert.NotEmpty(t, response.BuildID)
}

func TestServer_NoBuild(t *testing.T) {
	server, _ := newTestServer(t)

	for _, path := range []string{"/api/bundles", "/api/pool", "/api/custom", "/api/items", "/api/builds/current"} {
		rec := do(t, server, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Equal(t, dto.ErrCodeNoBuild, decode[dto.APIError](t, rec).Code, path)
	}
}

func TestServer_BundlesEndpoints(t *testing.T) {
	t.Run("GET /api/bundles returns every collection", func(t *testing.T) {
		server, _ := rebuilt(t)

		rec := do(t, server, http.MethodGet, "/api/bundles", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		snap := decode[dto.SnapshotResponse](t, rec)
		require.NotEmpty(t, snap.Collections)
		assert.Equal(t, 49.0, snap.Window.Min)
		assert.Equal(t, 65.0, snap.Window.Max)
		for _, c := range snap.Collections {
			assert.True(t, c.InWindow, c.ID)
			assert.GreaterOrEqual(t, c.Count, snap.Window.MinItems)
		}
		assert.Equal(t, "custom", snap.Custom.ID)
	})

	t.Run("GET /api/bundles/:id returns one collection", func(t *testing.T) {
		server, _ := rebuilt(t)

		rec := do(t, server, http.MethodGet, "/api/bundles/bundle-hair", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		col := decode[dto.CollectionResponse](t, rec)
		assert.Equal(t, "bundle-hair", col.ID)
		assert.Len(t, col.Items, col.Count)
	})

	t.Run("GET /api/bundles/:id returns 404 for unknown collection", func(t *testing.T) {
		server, _ := rebuilt(t)

		rec := do(t, server, http.MethodGet, "/api/bundles/bundle-nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decode[dto.APIError](t, rec).Code)
	})

	t.Run("GET /api/pool lists unassigned items", func(t *testing.T) {
		server, _ := rebuilt(t)

		rec := do(t, server, http.MethodGet, "/api/pool", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		pool := decode[dto.ItemListResponse](t, rec)
		ids := make([]string, 0, pool.Count)
		for _, it := range pool.Items {
			ids = append(ids, it.ID)
		}
		assert.Contains(t, ids, "x1")
	})
}

func TestServer_Mutations(t *testing.T) {
	t.Run("swap with a pool item", func(t *testing.T) {
		server, repo := rebuilt(t)
		snap := decode[dto.SnapshotResponse](t, do(t, server, http.MethodGet, "/api/bundles", nil))
		hair := snap.Collections[0]
		require.Equal(t, "bundle-hair", hair.ID)
		var replacement string
		for _, it := range snap.Pool {
			if it.ID != "x1" {
				replacement = it.ID
			}
		}
		if replacement == "" {
			t.Skip("fixture left nothing cheap in the pool")
		}

		rec := do(t, server, http.MethodPost, "/api/bundles/bundle-hair/swap",
			dto.SwapRequest{OldItemID: hair.Items[0].ID, NewItemID: replacement})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		out := decode[dto.OutcomeResponse](t, rec)
		assert.Contains(t, []string{"applied", "warning"}, out.Status)
		assert.Len(t, repo.Mutations(), 1)
	})

	t.Run("swap validates its body", func(t *testing.T) {
		server, _ := rebuilt(t)

		rec := do(t, server, http.MethodPost, "/api/bundles/bundle-hair/swap", dto.SwapRequest{OldItemID: "sh1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode[dto.APIError](t, rec).Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		server, _ := rebuilt(t)

		req := httptest.NewRequest(http.MethodPost, "/api/transfer", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("removing a non-member conflicts", func(t *testing.T) {
		server, _ := rebuilt(t)

		rec := do(t, server, http.MethodDelete, "/api/bundles/bundle-hair/items/x1", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, dto.ErrCodeConflict, decode[dto.APIError](t, rec).Code)
	})

	t.Run("transfer of an unknown item is not found", func(t *testing.T) {
		server, _ := rebuilt(t)

		rec := do(t, server, http.MethodPost, "/api/transfer", dto.TransferRequest{ItemID: "ghost", Target: "pool"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rebalance without a body", func(t *testing.T) {
		server, _ := rebuilt(t)

		rec := do(t, server, http.MethodPost, "/api/bundles/bundle-hair/rebalance", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "applied", decode[dto.OutcomeResponse](t, rec).Status)
	})

	t.Run("rebalance of the custom collection is rejected", func(t *testing.T) {
		server, _ := rebuilt(t)

		rec := do(t, server, http.MethodPost, "/api/bundles/custom/rebalance", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_CustomEndpoints(t *testing.T) {
	server, repo := rebuilt(t)

	rec := do(t, server, http.MethodGet, "/api/custom/items/x1/check", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "x1 exceeds the default budget")

	rec = do(t, server, http.MethodPost, "/api/custom/items", dto.ItemRequest{ItemID: "x1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, server, http.MethodPut, "/api/custom/budget", map[string]interface{}{"min": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, server, http.MethodGet, "/api/custom/items/x1/check", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, server, http.MethodPost, "/api/custom/items", dto.ItemRequest{ItemID: "x1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, decode[dto.OutcomeResponse](t, rec).Changed, "custom")

	custom := decode[dto.CollectionResponse](t, do(t, server, http.MethodGet, "/api/custom", nil))
	require.Len(t, custom.Items, 1)
	assert.Equal(t, "x1", custom.Items[0].ID)
	assert.Equal(t, 80.0, custom.Total)

	snap := decode[dto.SnapshotResponse](t, do(t, server, http.MethodGet, "/api/bundles", nil))
	assert.False(t, snap.Budget.Capped)
	assert.Nil(t, snap.Budget.Max)

	rec = do(t, server, http.MethodPut, "/api/custom/see-all", dto.SeeAllRequest{Enabled: true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, server, http.MethodDelete, "/api/custom/items/x1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, server, http.MethodDelete, "/api/custom/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, server, http.MethodPut, "/api/custom/budget", map[string]interface{}{"min": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	state, err := repo.LoadCustomState()
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Empty(t, state.ItemIDs)
	assert.True(t, state.SeeAll)
}

func TestServer_ItemPicker(t *testing.T) {
	server, _ := rebuilt(t)

	rec := do(t, server, http.MethodGet, "/api/items?q=shampoo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[dto.ItemListResponse](t, rec)
	assert.Equal(t, 2, items.Count)
	for _, it := range items.Items {
		assert.NotEmpty(t, it.Owner)
	}

	items = decode[dto.ItemListResponse](t, do(t, server, http.MethodGet, "/api/items?category=face&limit=1", nil))
	assert.Equal(t, 1, items.Count)

	rec = do(t, server, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fragrance")
}

func TestServer_BuildsAndAudit(t *testing.T) {
	server, _ := rebuilt(t)

	current := decode[service.BuildSummary](t, do(t, server, http.MethodGet, "/api/builds/current", nil))
	assert.Equal(t, 10, current.Products)

	builds := decode[dto.BuildListResponse](t, do(t, server, http.MethodGet, "/api/builds", nil))
	require.Equal(t, 1, builds.Count)
	assert.Equal(t, current.ID, builds.Builds[0].ID)

	do(t, server, http.MethodDelete, "/api/bundles/bundle-hair/items/x1", nil)
	do(t, server, http.MethodPut, "/api/custom/see-all", dto.SeeAllRequest{Enabled: true})

	muts := decode[dto.MutationListResponse](t, do(t, server, http.MethodGet, "/api/mutations", nil))
	require.Equal(t, 2, muts.Count)
	assert.Equal(t, "set_see_all", muts.Mutations[0].Operation, "newest first")
	assert.Equal(t, "rejected", muts.Mutations[1].Status)
	assert.NotEmpty(t, muts.Mutations[1].Error)

	filtered := decode[dto.MutationListResponse](t, do(t, server, http.MethodGet, "/api/mutations?operation=set_see_all", nil))
	assert.Equal(t, 1, filtered.Count)
}

func TestServer_CORSPreflight(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/bundles", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestConfigFrom(t *testing.T) {
	cfg := api.ConfigFrom(config.APIConfig{Port: 9000})
	assert.Equal(t, 9000, cfg.Port)
	assert.NotEmpty(t, cfg.AllowedOrigins)

	cfg = api.ConfigFrom(config.APIConfig{AllowedOrigins: []string{"*"}})
	assert.Equal(t, 8085, cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}
