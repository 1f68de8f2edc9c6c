package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/bundlebuilder/internal/api/dto"
	"github.com/eshaffer321/bundlebuilder/internal/application/service"
	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

// CustomHandler handles requests against the user-built collection.
type CustomHandler struct {
	*Base
}

// NewCustomHandler creates a new custom collection handler.
func NewCustomHandler(svc *service.BundleService) *CustomHandler {
	return &CustomHandler{Base: NewBase(svc)}
}

// Get handles GET /api/custom.
func (h *CustomHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Collection(bundle.CustomID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewCollectionResponse(view))
}

// AddItem handles POST /api/custom/items.
func (h *CustomHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.ItemRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.ItemID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("item_id is required"))
		return
	}
	out, err := h.svc.AddToCustom(req.ItemID)
	h.WriteOutcome(w, out, err)
}

// RemoveItem handles DELETE /api/custom/items/{itemID}.
func (h *CustomHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.RemoveFromCustom(chi.URLParam(r, "itemID"))
	h.WriteOutcome(w, out, err)
}

// Check handles GET /api/custom/items/{itemID}/check - previews an add.
func (h *CustomHandler) Check(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.CanAddToCustom(chi.URLParam(r, "itemID"))
	h.WriteOutcome(w, out, err)
}

// Clear handles DELETE /api/custom/items.
func (h *CustomHandler) Clear(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ClearCustom()
	h.WriteOutcome(w, out, err)
}

// SetBudget handles PUT /api/custom/budget.
func (h *CustomHandler) SetBudget(w http.ResponseWriter, r *http.Request) {
	var req dto.BudgetRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	var lo catalog.Cents
	if req.Min != nil {
		if req.Min.IsNegative() {
			h.WriteError(w, http.StatusBadRequest, dto.ValidationError("min must not be negative"))
			return
		}
		lo = catalog.FromDecimal(*req.Min)
	}
	var hi *catalog.Cents
	if req.Max != nil {
		if req.Max.IsNegative() {
			h.WriteError(w, http.StatusBadRequest, dto.ValidationError("max must not be negative"))
			return
		}
		c := catalog.FromDecimal(*req.Max)
		hi = &c
	}
	out, err := h.svc.SetBudget(lo, hi)
	h.WriteOutcome(w, out, err)
}

// SetSeeAll handles PUT /api/custom/see-all.
func (h *CustomHandler) SetSeeAll(w http.ResponseWriter, r *http.Request) {
	var req dto.SeeAllRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	out, err := h.svc.SetSeeAll(req.Enabled)
	h.WriteOutcome(w, out, err)
}
