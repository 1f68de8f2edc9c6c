package dto

import "github.com/shopspring/decimal"

// ItemRequest names an item to add to a collection.
type ItemRequest struct {
	ItemID string `json:"item_id"`
}

// SwapRequest replaces one item of a collection with another.
type SwapRequest struct {
	OldItemID string `json:"old_item_id"`
	NewItemID string `json:"new_item_id"`
}

// RebalanceRequest optionally protects one item from removal.
type RebalanceRequest struct {
	ProtectedItemID string `json:"protected_item_id,omitempty"`
}

// TransferRequest moves an item to a collection, "pool" or "custom".
type TransferRequest struct {
	ItemID string `json:"item_id"`
	Target string `json:"target"`
}

// BudgetRequest sets the custom budget in dollars. A missing max removes the cap.
type BudgetRequest struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// SeeAllRequest toggles see-all mode.
type SeeAllRequest struct {
	Enabled bool `json:"enabled"`
}

// ItemListParams represents query parameters for the item picker.
type ItemListParams struct {
	Query    string `json:"q"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Owner    string `json:"owner"`
	Limit    int    `json:"limit"`
}

// DefaultItemListParams returns default values for item list params.
func DefaultItemListParams() ItemListParams {
	return ItemListParams{Limit: 100}
}
