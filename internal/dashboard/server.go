// Package dashboard serves a read-only view of stored builds for the
// dashboard frontend. It never touches a live engine.
package dashboard

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/bundlebuilder/internal/api/dto"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/storage"
)

// Server exposes stored builds, custom state and the audit log.
type Server struct {
	store  storage.Repository
	logger *slog.Logger
}

// NewServer creates a dashboard server over store.
func NewServer(store storage.Repository, logger *slog.Logger) *Server {
	return &Server{store: store, logger: logger}
}

// StatsResponse summarizes the latest build for the dashboard header.
type StatsResponse struct {
	TotalBuilds      int            `json:"total_builds"`
	LatestBuildID    string         `json:"latest_build_id,omitempty"`
	Collections      int            `json:"collections"`
	InWindow         int            `json:"in_window"`
	PoolCount        int            `json:"pool_count"`
	MutationStatuses map[string]int `json:"mutation_statuses"`
}

// Router builds the gin engine with CORS for allowedOrigins.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/health"},
	}))

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})
		api.GET("/stats", s.getStats)
		api.GET("/builds", s.listBuilds)
		api.GET("/builds/latest", s.getLatest)
		api.GET("/builds/:id", s.getBuild)
		api.GET("/builds/:id/mutations", s.listMutations)
		api.GET("/custom", s.getCustom)
	}
	return router
}

func (s *Server) getStats(c *gin.Context) {
	builds, err := s.store.ListBuilds(1000)
	if err != nil {
		s.fail(c, "failed to list builds", err)
		return
	}
	resp := StatsResponse{TotalBuilds: len(builds), MutationStatuses: map[string]int{}}

	latest, err := s.store.LatestBuild()
	if err != nil {
		s.fail(c, "failed to load latest build", err)
		return
	}
	if latest != nil {
		resp.LatestBuildID = latest.ID
		resp.PoolCount = latest.PoolCount
		if latest.Snapshot != nil {
			resp.Collections = len(latest.Snapshot.Collections)
			for _, col := range latest.Snapshot.Collections {
				if col.InWindow {
					resp.InWindow++
				}
			}
		}
		muts, err := s.store.ListMutations(storage.MutationFilters{BuildID: latest.ID, Limit: 10000})
		if err != nil {
			s.fail(c, "failed to list mutations", err)
			return
		}
		for _, m := range muts {
			resp.MutationStatuses[m.Status]++
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listBuilds(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 {
		limit = 20
	}
	builds, err := s.store.ListBuilds(limit)
	if err != nil {
		s.fail(c, "failed to list builds", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBuildListResponse(builds))
}

func (s *Server) getLatest(c *gin.Context) {
	build, err := s.store.LatestBuild()
	if err != nil {
		s.fail(c, "failed to load latest build", err)
		return
	}
	s.writeBuild(c, build)
}

func (s *Server) getBuild(c *gin.Context) {
	build, err := s.store.GetBuild(c.Param("id"))
	if err != nil {
		s.fail(c, "failed to load build", err)
		return
	}
	s.writeBuild(c, build)
}

func (s *Server) writeBuild(c *gin.Context, build *storage.BuildRecord) {
	if build == nil || build.Snapshot == nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("build"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"build":    dto.NewBuildListResponse([]*storage.BuildRecord{build}).Builds[0],
		"snapshot": dto.NewSnapshotResponse(*build.Snapshot),
	})
}

func (s *Server) listMutations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	muts, err := s.store.ListMutations(storage.MutationFilters{
		BuildID:   c.Param("id"),
		Operation: c.Query("operation"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		s.fail(c, "failed to list mutations", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMutationListResponse(muts))
}

func (s *Server) getCustom(c *gin.Context) {
	state, err := s.store.LoadCustomState()
	if err != nil {
		s.fail(c, "failed to load custom state", err)
		return
	}
	if state == nil {
		state = &storage.CustomState{ItemIDs: []string{}}
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) fail(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, "error", err)
	c.JSON(http.StatusInternalServerError, dto.InternalError())
}
