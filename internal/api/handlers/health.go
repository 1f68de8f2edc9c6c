package handlers

import (
	"net/http"

	"github.com/eshaffer321/bundlebuilder/internal/api/dto"
	"github.com/eshaffer321/bundlebuilder/internal/application/service"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	*Base
}

// NewHealthHandler creates a new health handler. svc may be nil.
func NewHealthHandler(svc *service.BundleService) *HealthHandler {
	return &HealthHandler{Base: NewBase(svc)}
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := dto.NewHealthResponse()
	if h.svc != nil {
		if summary, err := h.svc.Summary(); err == nil {
			response.BuildID = summary.ID
		}
	}
	h.WriteJSON(w, http.StatusOK, response)
}
