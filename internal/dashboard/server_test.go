package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/bundlebuilder/internal/api/dto"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
	"github.com/eshaffer321/bundlebuilder/internal/domain/engine"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/logging"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func seeded(t *testing.T) (*gin.Engine, *storage.MockRepository) {
	t.Helper()
	repo := storage.NewMockRepository()
	snap := &engine.Snapshot{
		Collections: []engine.CollectionView{
			{ID: "bundle-hair", Count: 3, Total: 5700, InWindow: true},
			{ID: "bundle-face", Count: 3, Total: 7000, InWindow: false},
		},
		Pool: []catalog.Item{{ID: "p1", Price: 900}},
	}
	require.NoError(t, repo.SaveBuild(&storage.BuildRecord{ID: "b1", CreatedAt: time.Now().Add(-time.Hour), CollectionCount: 1}))
	require.NoError(t, repo.SaveBuild(&storage.BuildRecord{ID: "b2", CreatedAt: time.Now(), CollectionCount: 2, PoolCount: 1, Snapshot: snap}))
	require.NoError(t, repo.LogMutation(&storage.Mutation{BuildID: "b2", Operation: "swap", Status: "applied"}))
	require.NoError(t, repo.LogMutation(&storage.Mutation{BuildID: "b2", Operation: "add", Status: "rejected", Error: "engine: item already in collection"}))
	require.NoError(t, repo.LogMutation(&storage.Mutation{BuildID: "b1", Operation: "add", Status: "applied"}))

	return NewServer(repo, logging.Discard()).Router(nil), repo
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDashboard_Health(t *testing.T) {
	router, _ := seeded(t)
	rec := get(router, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestDashboard_Stats(t *testing.T) {
	router, _ := seeded(t)

	rec := get(router, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalBuilds)
	assert.Equal(t, "b2", stats.LatestBuildID)
	assert.Equal(t, 2, stats.Collections)
	assert.Equal(t, 1, stats.InWindow)
	assert.Equal(t, 1, stats.PoolCount)
	assert.Equal(t, map[string]int{"applied": 1, "rejected": 1}, stats.MutationStatuses)
}

func TestDashboard_Builds(t *testing.T) {
	router, _ := seeded(t)

	var list dto.BuildListResponse
	require.NoError(t, json.Unmarshal(get(router, "/api/builds").Body.Bytes(), &list))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "b2", list.Builds[0].ID)

	rec := get(router, "/api/builds/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	var latest struct {
		Build    dto.BuildResponse    `json:"build"`
		Snapshot dto.SnapshotResponse `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &latest))
	assert.Equal(t, "b2", latest.Build.ID)
	require.Len(t, latest.Snapshot.Collections, 2)
	assert.Equal(t, 57.0, latest.Snapshot.Collections[0].Total)

	assert.Equal(t, http.StatusNotFound, get(router, "/api/builds/b1").Code, "builds without a snapshot are not viewable")
	assert.Equal(t, http.StatusNotFound, get(router, "/api/builds/nope").Code)
}

func TestDashboard_Mutations(t *testing.T) {
	router, _ := seeded(t)

	var muts dto.MutationListResponse
	require.NoError(t, json.Unmarshal(get(router, "/api/builds/b2/mutations").Body.Bytes(), &muts))
	assert.Equal(t, 2, muts.Count)

	require.NoError(t, json.Unmarshal(get(router, "/api/builds/b2/mutations?operation=add").Body.Bytes(), &muts))
	require.Equal(t, 1, muts.Count)
	assert.Equal(t, "rejected", muts.Mutations[0].Status)
}

func TestDashboard_Custom(t *testing.T) {
	router, repo := seeded(t)

	rec := get(router, "/api/custom")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"item_ids":[]`)

	require.NoError(t, repo.SaveCustomState(&storage.CustomState{ItemIDs: []string{"p1"}, BudgetMin: 4900}))
	rec = get(router, "/api/custom")
	assert.Contains(t, rec.Body.String(), `"item_ids":["p1"]`)
}

func TestDashboard_StoreErrors(t *testing.T) {
	router, repo := seeded(t)
	repo.GetBuildErr = errors.New("db locked")
	repo.LoadCustomStateErr = errors.New("db locked")

	assert.Equal(t, http.StatusInternalServerError, get(router, "/api/builds/b2").Code)
	assert.Equal(t, http.StatusInternalServerError, get(router, "/api/custom").Code)
}

func TestDashboard_CORS(t *testing.T) {
	router, _ := seeded(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
