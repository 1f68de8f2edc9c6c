package dto

import (
	"time"

	"github.com/eshaffer321/bundlebuilder/internal/application/service"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
	"github.com/eshaffer321/bundlebuilder/internal/domain/engine"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/storage"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	BuildID   string `json:"build_id,omitempty"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ItemResponse represents a catalog item in API responses. Prices are dollars.
type ItemResponse struct {
	ID           string   `json:"id"`
	Brand        string   `json:"brand"`
	Name         string   `json:"name"`
	Image        string   `json:"image,omitempty"`
	Categories   []string `json:"categories"`
	Price        float64  `json:"price"`
	Store        string   `json:"store"`
	URL          string   `json:"url"`
	Preferred    bool     `json:"preferred"`
	LeapingBunny bool     `json:"leaping_bunny"`
	Peta         bool     `json:"peta"`
	Kind         string   `json:"kind"`
	Traits       []string `json:"traits,omitempty"`
	BrandTier    int      `json:"brand_tier,omitempty"`
	Owner        string   `json:"owner,omitempty"`
	InCustom     bool     `json:"in_custom,omitempty"`
}

// NewItemResponse converts a catalog item.
func NewItemResponse(it catalog.Item) ItemResponse {
	return ItemResponse{
		ID:           it.ID,
		Brand:        it.Brand,
		Name:         it.Name,
		Image:        it.Image,
		Categories:   it.Categories,
		Price:        it.Price.Float(),
		Store:        it.Offer.Store,
		URL:          it.Offer.URL,
		Preferred:    it.Preferred(),
		LeapingBunny: it.Certifications.LeapingBunny,
		Peta:         it.Certifications.Peta,
		Kind:         string(it.Kind),
		Traits:       it.Traits.Names(),
		BrandTier:    it.BrandTier,
	}
}

func newItemResponses(items []catalog.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewItemResponse(it))
	}
	return out
}

// CollectionResponse represents a themed or custom collection.
type CollectionResponse struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle,omitempty"`
	Kind     string         `json:"kind"`
	Items    []ItemResponse `json:"items"`
	Count    int            `json:"count"`
	Total    float64        `json:"total"`
	InWindow bool           `json:"in_window"`
}

// NewCollectionResponse converts a collection view.
func NewCollectionResponse(v engine.CollectionView) CollectionResponse {
	return CollectionResponse{
		ID:       v.ID,
		Title:    v.Title,
		Subtitle: v.Subtitle,
		Kind:     string(v.Kind),
		Items:    newItemResponses(v.Items),
		Count:    v.Count,
		Total:    v.Total.Float(),
		InWindow: v.InWindow,
	}
}

// WindowResponse is the price window in dollars.
type WindowResponse struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Target   float64 `json:"target"`
	MinItems int     `json:"min_items"`
	MaxItems int     `json:"max_items"`
}

// BudgetResponse is the custom budget in dollars. Max is omitted when uncapped.
type BudgetResponse struct {
	Min    float64  `json:"min"`
	Max    *float64 `json:"max,omitempty"`
	Capped bool     `json:"capped"`
}

// SnapshotResponse is the whole allocation state.
type SnapshotResponse struct {
	Window      WindowResponse       `json:"window"`
	Collections []CollectionResponse `json:"collections"`
	Custom      CollectionResponse   `json:"custom"`
	Budget      BudgetResponse       `json:"budget"`
	SeeAll      bool                 `json:"see_all"`
	Pool        []ItemResponse       `json:"pool"`
	Deviations  []string             `json:"deviations,omitempty"`
}

// NewSnapshotResponse converts an engine snapshot.
func NewSnapshotResponse(s engine.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		Window: WindowResponse{
			Min:      s.Window.Min.Float(),
			Max:      s.Window.Max.Float(),
			Target:   s.Window.Target.Float(),
			MinItems: s.Window.MinItems,
			MaxItems: s.Window.MaxItems,
		},
		Collections: make([]CollectionResponse, 0, len(s.Collections)),
		Custom:      NewCollectionResponse(s.Custom),
		Budget:      BudgetResponse{Min: s.Budget.Min.Float(), Capped: s.Budget.Capped},
		SeeAll:      s.SeeAll,
		Pool:        newItemResponses(s.Pool),
		Deviations:  s.Deviations,
	}
	if s.Budget.Capped {
		hi := s.Budget.Max.Float()
		resp.Budget.Max = &hi
	}
	for _, c := range s.Collections {
		resp.Collections = append(resp.Collections, NewCollectionResponse(c))
	}
	return resp
}

// WarningResponse is a deviation left by an accepted operation.
type WarningResponse struct {
	Code         string  `json:"code"`
	CollectionID string  `json:"collection_id"`
	Total        float64 `json:"total"`
	Message      string  `json:"message"`
}

// OutcomeResponse is returned by every mutating endpoint.
type OutcomeResponse struct {
	Status   string            `json:"status"`
	Warnings []WarningResponse `json:"warnings,omitempty"`
	Changed  []string          `json:"changed,omitempty"`
}

// NewOutcomeResponse converts an engine outcome.
func NewOutcomeResponse(o engine.Outcome) OutcomeResponse {
	resp := OutcomeResponse{Status: string(o.Status), Changed: o.Changed}
	for _, w := range o.Warnings {
		resp.Warnings = append(resp.Warnings, WarningResponse{
			Code:         string(w.Code),
			CollectionID: w.CollectionID,
			Total:        w.Total.Float(),
			Message:      w.Message,
		})
	}
	return resp
}

// ItemListResponse is returned by the item picker.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Count int            `json:"count"`
}

// NewItemListResponse converts picker results.
func NewItemListResponse(views []service.ItemView) ItemListResponse {
	resp := ItemListResponse{Items: make([]ItemResponse, 0, len(views)), Count: len(views)}
	for _, v := range views {
		r := NewItemResponse(v.Item)
		r.Owner = v.Owner
		r.InCustom = v.InCustom
		resp.Items = append(resp.Items, r)
	}
	return resp
}

// BuildResponse represents a stored build.
type BuildResponse struct {
	ID              string `json:"id"`
	CreatedAt       string `json:"created_at"`
	ProductCount    int    `json:"product_count"`
	EligibleCount   int    `json:"eligible_count"`
	SkippedCount    int    `json:"skipped_count"`
	CollectionCount int    `json:"collection_count"`
	PoolCount       int    `json:"pool_count"`
}

// BuildListResponse is returned when listing builds.
type BuildListResponse struct {
	Builds []BuildResponse `json:"builds"`
	Count  int             `json:"count"`
}

// NewBuildListResponse converts stored builds.
func NewBuildListResponse(builds []*storage.BuildRecord) BuildListResponse {
	resp := BuildListResponse{Builds: make([]BuildResponse, 0, len(builds)), Count: len(builds)}
	for _, b := range builds {
		resp.Builds = append(resp.Builds, BuildResponse{
			ID:              b.ID,
			CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
			ProductCount:    b.ProductCount,
			EligibleCount:   b.EligibleCount,
			SkippedCount:    b.SkippedCount,
			CollectionCount: b.CollectionCount,
			PoolCount:       b.PoolCount,
		})
	}
	return resp
}

// MutationResponse represents one audited operation.
type MutationResponse struct {
	ID           int64             `json:"id"`
	BuildID      string            `json:"build_id"`
	Operation    string            `json:"operation"`
	CollectionID string            `json:"collection_id,omitempty"`
	ItemID       string            `json:"item_id,omitempty"`
	OtherItemID  string            `json:"other_item_id,omitempty"`
	Status       string            `json:"status"`
	Warnings     []WarningResponse `json:"warnings,omitempty"`
	Error        string            `json:"error,omitempty"`
	CreatedAt    string            `json:"created_at"`
}

// MutationListResponse is returned when listing the audit log.
type MutationListResponse struct {
	Mutations []MutationResponse `json:"mutations"`
	Count     int                `json:"count"`
}

// NewMutationListResponse converts audit rows.
func NewMutationListResponse(muts []*storage.Mutation) MutationListResponse {
	resp := MutationListResponse{Mutations: make([]MutationResponse, 0, len(muts)), Count: len(muts)}
	for _, m := range muts {
		warnings := NewOutcomeResponse(engine.Outcome{Warnings: m.Warnings}).Warnings
		resp.Mutations = append(resp.Mutations, MutationResponse{
			ID:           m.ID,
			BuildID:      m.BuildID,
			Operation:    m.Operation,
			CollectionID: m.CollectionID,
			ItemID:       m.ItemID,
			OtherItemID:  m.OtherItemID,
			Status:       m.Status,
			Warnings:     warnings,
			Error:        m.Error,
			CreatedAt:    m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp
}
