package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/bundlebuilder/internal/api/dto"
	"github.com/eshaffer321/bundlebuilder/internal/application/service"
)

// BundlesHandler handles themed collection requests.
type BundlesHandler struct {
	*Base
}

// NewBundlesHandler creates a new bundles handler.
func NewBundlesHandler(svc *service.BundleService) *BundlesHandler {
	return &BundlesHandler{Base: NewBase(svc)}
}

// List handles GET /api/bundles - returns the whole allocation state.
func (h *BundlesHandler) List(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewSnapshotResponse(snap))
}

// Get handles GET /api/bundles/{id} - returns one collection.
func (h *BundlesHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Collection(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewCollectionResponse(view))
}

// Pool handles GET /api/pool - returns unassigned items.
func (h *BundlesHandler) Pool(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	resp := dto.NewSnapshotResponse(snap)
	h.WriteJSON(w, http.StatusOK, dto.ItemListResponse{Items: resp.Pool, Count: len(resp.Pool)})
}

// AddItem handles POST /api/bundles/{id}/items.
func (h *BundlesHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.ItemRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.ItemID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("item_id is required"))
		return
	}
	out, err := h.svc.Add(chi.URLParam(r, "id"), req.ItemID)
	h.WriteOutcome(w, out, err)
}

// RemoveItem handles DELETE /api/bundles/{id}/items/{itemID}.
func (h *BundlesHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Remove(chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	h.WriteOutcome(w, out, err)
}

// Swap handles POST /api/bundles/{id}/swap.
func (h *BundlesHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var req dto.SwapRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.OldItemID == "" || req.NewItemID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("old_item_id and new_item_id are required"))
		return
	}
	out, err := h.svc.Swap(chi.URLParam(r, "id"), req.OldItemID, req.NewItemID)
	h.WriteOutcome(w, out, err)
}

// Rebalance handles POST /api/bundles/{id}/rebalance. The body is optional.
func (h *BundlesHandler) Rebalance(w http.ResponseWriter, r *http.Request) {
	var req dto.RebalanceRequest
	if r.ContentLength > 0 && !h.DecodeJSON(w, r, &req) {
		return
	}
	out, err := h.svc.Rebalance(chi.URLParam(r, "id"), req.ProtectedItemID)
	h.WriteOutcome(w, out, err)
}

// Transfer handles POST /api/transfer.
func (h *BundlesHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.ItemID == "" || req.Target == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("item_id and target are required"))
		return
	}
	out, err := h.svc.Transfer(req.ItemID, req.Target)
	h.WriteOutcome(w, out, err)
}
