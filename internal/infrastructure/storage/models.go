package storage

import (
	"encoding/json"
	"time"

	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
	"github.com/eshaffer321/bundlebuilder/internal/domain/engine"
)

// BuildRecord is one allocation run over the catalog.
type BuildRecord struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	ProductCount    int       `json:"product_count"`
	EligibleCount   int       `json:"eligible_count"`
	SkippedCount    int       `json:"skipped_count"`
	CollectionCount int       `json:"collection_count"`
	PoolCount       int       `json:"pool_count"`

	// Snapshot is the engine state at the time of the last save
	Snapshot     *engine.Snapshot `json:"snapshot,omitempty"`
	SnapshotJSON string           `json:"-"` // For DB storage
}

// EncodeSnapshot serializes the snapshot to JSON for storage
func (b *BuildRecord) EncodeSnapshot() error {
	if b.Snapshot == nil {
		b.SnapshotJSON = ""
		return nil
	}
	data, err := json.Marshal(b.Snapshot)
	if err != nil {
		return err
	}
	b.SnapshotJSON = string(data)
	return nil
}

// DecodeSnapshot deserializes SnapshotJSON into Snapshot
func (b *BuildRecord) DecodeSnapshot() error {
	if b.SnapshotJSON == "" {
		b.Snapshot = nil
		return nil
	}
	var snap engine.Snapshot
	if err := json.Unmarshal([]byte(b.SnapshotJSON), &snap); err != nil {
		return err
	}
	b.Snapshot = &snap
	return nil
}

// CustomState is the saved custom collection: item ids and budget.
type CustomState struct {
	ItemIDs   []string       `json:"item_ids"`
	BudgetMin catalog.Cents  `json:"budget_min"`
	BudgetMax *catalog.Cents `json:"budget_max,omitempty"` // nil = uncapped
	SeeAll    bool           `json:"see_all"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Mutation is one audited engine operation.
type Mutation struct {
	ID           int64            `json:"id"`
	BuildID      string           `json:"build_id"`
	Operation    string           `json:"operation"`
	CollectionID string           `json:"collection_id,omitempty"`
	ItemID       string           `json:"item_id,omitempty"`
	OtherItemID  string           `json:"other_item_id,omitempty"`
	Status       string           `json:"status"`
	Warnings     []engine.Warning `json:"warnings,omitempty"`
	Error        string           `json:"error,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}
