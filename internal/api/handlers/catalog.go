package handlers

import (
	"net/http"

	"github.com/eshaffer321/bundlebuilder/internal/api/dto"
	"github.com/eshaffer321/bundlebuilder/internal/application/service"
)

// CatalogHandler serves the item picker.
type CatalogHandler struct {
	*Base
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(svc *service.BundleService) *CatalogHandler {
	return &CatalogHandler{Base: NewBase(svc)}
}

// Items handles GET /api/items - filters by q, category, brand and owner.
func (h *CatalogHandler) Items(w http.ResponseWriter, r *http.Request) {
	params := dto.DefaultItemListParams()
	q := r.URL.Query()
	params.Query = q.Get("q")
	params.Category = q.Get("category")
	params.Brand = q.Get("brand")
	params.Owner = q.Get("owner")
	params.Limit = ParseIntParam(r, "limit", params.Limit)

	views, err := h.svc.Items(service.ItemFilter{
		Query:    params.Query,
		Category: params.Category,
		Brand:    params.Brand,
		Owner:    params.Owner,
		Limit:    params.Limit,
	})
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewItemListResponse(views))
}

// Categories handles GET /api/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories()
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": cats, "count": len(cats)})
}
