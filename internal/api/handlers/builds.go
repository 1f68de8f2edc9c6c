package handlers

import (
	"net/http"

	"github.com/eshaffer321/bundlebuilder/internal/api/dto"
	"github.com/eshaffer321/bundlebuilder/internal/application/service"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/storage"
)

// BuildsHandler handles build lifecycle and audit requests.
type BuildsHandler struct {
	*Base
}

// NewBuildsHandler creates a new builds handler.
func NewBuildsHandler(svc *service.BundleService) *BuildsHandler {
	return &BuildsHandler{Base: NewBase(svc)}
}

// Rebuild handles POST /api/rebuild - reloads the catalog and reallocates.
func (h *BuildsHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Rebuild(r.Context())
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.NewAPIError(dto.ErrCodeInternalError, err.Error()))
		return
	}
	h.WriteJSON(w, http.StatusCreated, summary)
}

// Current handles GET /api/builds/current.
func (h *BuildsHandler) Current(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary()
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

// List handles GET /api/builds.
func (h *BuildsHandler) List(w http.ResponseWriter, r *http.Request) {
	builds, err := h.svc.Builds(ParseIntParam(r, "limit", 20))
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewBuildListResponse(builds))
}

// Mutations handles GET /api/mutations - the audit log of a build.
func (h *BuildsHandler) Mutations(w http.ResponseWriter, r *http.Request) {
	muts, err := h.svc.Mutations(storage.MutationFilters{
		BuildID:   r.URL.Query().Get("build_id"),
		Operation: r.URL.Query().Get("operation"),
		Limit:     ParseIntParam(r, "limit", 50),
		Offset:    ParseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewMutationListResponse(muts))
}
