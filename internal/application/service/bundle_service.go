package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/bundlebuilder/internal/adapters/source"
	"github.com/eshaffer321/bundlebuilder/internal/domain/allocator"
	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
	"github.com/eshaffer321/bundlebuilder/internal/domain/engine"
	"github.com/eshaffer321/bundlebuilder/internal/domain/solver"
	"github.com/eshaffer321/bundlebuilder/internal/domain/validator"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/config"
	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/storage"
)

// ErrNoBuild is returned by operations that need a build before one exists.
var ErrNoBuild = errors.New("service: no build loaded")

// Operation names recorded in the mutation log.
const (
	OpTransfer         = "transfer"
	OpAdd              = "add"
	OpRemove           = "remove"
	OpSwap             = "swap"
	OpRebalance        = "rebalance"
	OpAddToCustom      = "add_to_custom"
	OpRemoveFromCustom = "remove_from_custom"
	OpClearCustom      = "clear_custom"
	OpSetBudget        = "set_budget"
	OpSetSeeAll        = "set_see_all"
)

// Source supplies the raw catalog.
type Source interface {
	Load() (*source.Snapshot, error)
	Changed(fingerprint string) (bool, error)
}

// BuildSummary describes a completed build.
type BuildSummary struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Products       int       `json:"products"`
	Eligible       int       `json:"eligible"`
	Skipped        int       `json:"skipped"`
	Collections    int       `json:"collections"`
	Pool           int       `json:"pool"`
	SkippedThemes  []string  `json:"skipped_themes,omitempty"`
	RestoredCustom int       `json:"restored_custom"`
	DroppedCustom  []string  `json:"dropped_custom,omitempty"`
	OutOfWindow    []string  `json:"out_of_window,omitempty"`
	Fingerprint    string    `json:"fingerprint,omitempty"`
	DurationMillis int64     `json:"duration_ms"`
}

// ItemFilter narrows the item picker.
type ItemFilter struct {
	Query    string // matched against name and brand, case-insensitive
	Category string
	Brand    string
	Owner    string // container id, e.g. "pool"
	Limit    int
}

// ItemView is a catalog item with its current container.
type ItemView struct {
	catalog.Item
	Owner    string `json:"owner"`
	InCustom bool   `json:"in_custom"`
}

// BundleService owns the engine state of the current build. All access is
// serialized by one mutex: a single writer per build.
type BundleService struct {
	cfg    *config.Config
	source Source
	store  storage.Repository
	logger *slog.Logger
	newID  func() string

	mu          sync.Mutex
	engine      *engine.Context
	items       []catalog.Item
	buildID     string
	fingerprint string
	summary     *BuildSummary
}

// NewBundleService creates a new bundle service. store may be nil for
// dry runs.
func NewBundleService(cfg *config.Config, src Source, store storage.Repository, logger *slog.Logger) *BundleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BundleService{
		cfg:    cfg,
		source: src,
		store:  store,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Rebuild loads the catalog from the source and builds from scratch.
func (s *BundleService) Rebuild(ctx context.Context) (*BuildSummary, error) {
	if s.source == nil {
		return nil, errors.New("service: no catalog source configured")
	}
	snap, err := s.source.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Build(snap)
}

// RefreshIfChanged rebuilds only when the source content changed since the
// last build. It reports whether a rebuild happened.
func (s *BundleService) RefreshIfChanged(ctx context.Context) (bool, *BuildSummary, error) {
	s.mu.Lock()
	fp := s.fingerprint
	s.mu.Unlock()

	if fp != "" {
		changed, err := s.source.Changed(fp)
		if err != nil {
			return false, nil, err
		}
		if !changed {
			return false, nil, nil
		}
	}
	summary, err := s.Rebuild(ctx)
	if err != nil {
		return false, nil, err
	}
	return true, summary, nil
}

// Watch polls the source every interval and rebuilds on change until ctx
// is cancelled.
func (s *BundleService) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rebuilt, summary, err := s.RefreshIfChanged(ctx)
			if err != nil {
				s.logger.Warn("catalog refresh failed", "error", err)
				continue
			}
			if rebuilt {
				s.logger.Info("catalog changed, rebuilt", "build_id", summary.ID, "collections", summary.Collections)
			}
		}
	}
}

// Build normalizes and allocates a loaded catalog, restores the saved custom
// collection and persists the result.
func (s *BundleService) Build(snap *source.Snapshot) (*BuildSummary, error) {
	start := time.Now()

	// Step 1: Normalize
	brands := catalog.NewBrandIndex(snap.Brands)
	norm := catalog.NewNormalizer(brands, s.cfg.Catalog.NormalizerOptions())
	items, skipped := norm.NormalizeAll(snap.Products)

	// Step 2: Allocate themes in order
	ths, err := s.cfg.Engine.ThemeList()
	if err != nil {
		return nil, err
	}
	window := s.cfg.Engine.Window()
	res, err := allocator.Allocate(items, ths, solver.New(window, s.cfg.Engine.SlotCap))
	if err != nil {
		return nil, err
	}
	ectx := engine.NewContext(s.cfg.Engine.Options(), items, res)

	summary := &BuildSummary{
		ID:            s.newID(),
		CreatedAt:     time.Now().UTC(),
		Products:      len(snap.Products),
		Eligible:      len(items),
		Skipped:       skipped,
		Collections:   len(res.Collections),
		Pool:          res.Pool.Len(),
		SkippedThemes: res.Skipped,
		Fingerprint:   snap.Fingerprint,
	}

	// Step 3: Restore the saved custom collection. The lock is held from here
	// to the swap so no committed custom edit lands on the replaced engine.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		state, err := s.store.LoadCustomState()
		if err != nil {
			s.logger.Warn("failed to load custom state", "error", err)
		} else if state != nil {
			ectx.SetBudget(state.BudgetMin, state.BudgetMax)
			summary.DroppedCustom = ectx.RestoreCustom(state.ItemIDs)
			summary.RestoredCustom = len(state.ItemIDs) - len(summary.DroppedCustom)
			ectx.SetSeeAll(state.SeeAll)
		}
	}

	check := validator.ValidateSnapshot(ectx.Snapshot())
	if !check.Valid {
		return nil, fmt.Errorf("build produced an invalid allocation: %s", check.Reason)
	}
	summary.OutOfWindow = check.OutOfWindow
	summary.DurationMillis = time.Since(start).Milliseconds()

	s.engine = ectx
	s.items = items
	s.buildID = summary.ID
	s.fingerprint = snap.Fingerprint
	s.summary = summary

	// Step 4: Persist
	if s.store != nil {
		if err := s.store.SaveBuild(s.buildRecord()); err != nil {
			return nil, fmt.Errorf("save build: %w", err)
		}
		if len(summary.DroppedCustom) > 0 {
			s.saveCustomState()
		}
	}

	s.logger.Info("build complete",
		"build_id", summary.ID,
		"eligible", summary.Eligible,
		"skipped", summary.Skipped,
		"collections", summary.Collections,
		"pool", summary.Pool,
		"restored_custom", summary.RestoredCustom,
		"duration_ms", summary.DurationMillis)
	return summary, nil
}

// buildRecord renders the current state. Callers hold s.mu.
func (s *BundleService) buildRecord() *storage.BuildRecord {
	snap := s.engine.Snapshot()
	return &storage.BuildRecord{
		ID:              s.buildID,
		CreatedAt:       s.summary.CreatedAt,
		ProductCount:    s.summary.Products,
		EligibleCount:   s.summary.Eligible,
		SkippedCount:    s.summary.Skipped,
		CollectionCount: len(snap.Collections),
		PoolCount:       len(snap.Pool),
		Snapshot:        &snap,
	}
}

// saveCustomState persists the custom collection. Callers hold s.mu.
func (s *BundleService) saveCustomState() {
	custom, _ := s.engine.Collection(bundle.CustomID)
	budget := s.engine.Budget()
	state := &storage.CustomState{
		ItemIDs:   catalog.IDs(custom.Items),
		BudgetMin: budget.Min,
		SeeAll:    s.engine.SeeAll(),
	}
	if budget.Capped {
		hi := budget.Max
		state.BudgetMax = &hi
	}
	if err := s.store.SaveCustomState(state); err != nil {
		s.logger.Warn("failed to save custom state", "error", err)
	}
}

// Summary returns the last build summary.
func (s *BundleService) Summary() (*BuildSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return nil, ErrNoBuild
	}
	copied := *s.summary
	return &copied, nil
}

// Snapshot returns the current engine state.
func (s *BundleService) Snapshot() (engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return engine.Snapshot{}, ErrNoBuild
	}
	return s.engine.Snapshot(), nil
}

// Collection returns one collection view.
func (s *BundleService) Collection(id string) (engine.CollectionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return engine.CollectionView{}, ErrNoBuild
	}
	view, ok := s.engine.CollectionView(id)
	if !ok {
		return engine.CollectionView{}, engine.ErrUnknownCollection
	}
	return view, nil
}

// Items lists catalog items matching the filter with their owners.
func (s *BundleService) Items(f ItemFilter) ([]ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return nil, ErrNoBuild
	}

	custom, _ := s.engine.Collection(bundle.CustomID)
	query := strings.ToLower(strings.TrimSpace(f.Query))
	category := catalog.NormalizeCategory(f.Category)

	var out []ItemView
	for _, it := range s.items {
		if query != "" && !strings.Contains(strings.ToLower(it.Name), query) && !strings.Contains(strings.ToLower(it.Brand), query) {
			continue
		}
		if f.Category != "" && !slices.Contains(it.Categories, category) {
			continue
		}
		if f.Brand != "" && !strings.EqualFold(it.Brand, f.Brand) {
			continue
		}
		owner, _ := s.engine.Owner(it.ID)
		if f.Owner != "" && owner != f.Owner {
			continue
		}
		out = append(out, ItemView{Item: it, Owner: owner, InCustom: custom.Contains(it.ID)})
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

// Categories lists the normalized categories of eligible items, sorted.
func (s *BundleService) Categories() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return nil, ErrNoBuild
	}
	seen := make(map[string]bool)
	var out []string
	for _, it := range s.items {
		for _, c := range it.Categories {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

// Transfer moves an item to a themed collection, the pool or the custom collection.
func (s *BundleService) Transfer(itemID, targetID string) (engine.Outcome, error) {
	return s.mutate(storage.Mutation{Operation: OpTransfer, CollectionID: targetID, ItemID: itemID},
		func(e *engine.Context) (engine.Outcome, error) { return e.Transfer(itemID, targetID) })
}

// Add moves an item into a themed collection without rebalancing.
func (s *BundleService) Add(collectionID, itemID string) (engine.Outcome, error) {
	return s.mutate(storage.Mutation{Operation: OpAdd, CollectionID: collectionID, ItemID: itemID},
		func(e *engine.Context) (engine.Outcome, error) { return e.Add(collectionID, itemID) })
}

// Remove moves an item from a collection back to the pool.
func (s *BundleService) Remove(collectionID, itemID string) (engine.Outcome, error) {
	return s.mutate(storage.Mutation{Operation: OpRemove, CollectionID: collectionID, ItemID: itemID},
		func(e *engine.Context) (engine.Outcome, error) { return e.Remove(collectionID, itemID) })
}

// Swap replaces oldID with newID in a themed collection.
func (s *BundleService) Swap(collectionID, oldID, newID string) (engine.Outcome, error) {
	return s.mutate(storage.Mutation{Operation: OpSwap, CollectionID: collectionID, ItemID: oldID, OtherItemID: newID},
		func(e *engine.Context) (engine.Outcome, error) { return e.Swap(collectionID, oldID, newID) })
}

// Rebalance restores a themed collection to the price window.
func (s *BundleService) Rebalance(collectionID, protectedID string) (engine.Outcome, error) {
	return s.mutate(storage.Mutation{Operation: OpRebalance, CollectionID: collectionID, ItemID: protectedID},
		func(e *engine.Context) (engine.Outcome, error) { return e.Rebalance(collectionID, protectedID) })
}

// AddToCustom adds an item to the custom collection.
func (s *BundleService) AddToCustom(itemID string) (engine.Outcome, error) {
	return s.mutate(storage.Mutation{Operation: OpAddToCustom, CollectionID: bundle.CustomID, ItemID: itemID},
		func(e *engine.Context) (engine.Outcome, error) { return e.AddToCustom(itemID) })
}

// RemoveFromCustom drops an item from the custom collection.
func (s *BundleService) RemoveFromCustom(itemID string) (engine.Outcome, error) {
	return s.mutate(storage.Mutation{Operation: OpRemoveFromCustom, CollectionID: bundle.CustomID, ItemID: itemID},
		func(e *engine.Context) (engine.Outcome, error) { return e.RemoveFromCustom(itemID) })
}

// ClearCustom empties the custom collection.
func (s *BundleService) ClearCustom() (engine.Outcome, error) {
	return s.mutate(storage.Mutation{Operation: OpClearCustom, CollectionID: bundle.CustomID},
		func(e *engine.Context) (engine.Outcome, error) { return e.ClearCustom(), nil })
}

// SetBudget sets the custom budget; a nil max removes the cap.
func (s *BundleService) SetBudget(lo catalog.Cents, hi *catalog.Cents) (engine.Outcome, error) {
	return s.mutate(storage.Mutation{Operation: OpSetBudget, CollectionID: bundle.CustomID},
		func(e *engine.Context) (engine.Outcome, error) {
			e.SetBudget(lo, hi)
			out := engine.Outcome{Status: engine.StatusApplied, Changed: []string{bundle.CustomID}}
			return out, nil
		})
}

// SetSeeAll switches see-all mode for the custom collection.
func (s *BundleService) SetSeeAll(on bool) (engine.Outcome, error) {
	return s.mutate(storage.Mutation{Operation: OpSetSeeAll, CollectionID: bundle.CustomID},
		func(e *engine.Context) (engine.Outcome, error) {
			e.SetSeeAll(on)
			return engine.Outcome{Status: engine.StatusApplied, Changed: []string{bundle.CustomID}}, nil
		})
}

// CanAddToCustom previews AddToCustom. Nothing is committed or logged.
func (s *BundleService) CanAddToCustom(itemID string) (engine.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return engine.Outcome{}, ErrNoBuild
	}
	return s.engine.CanAddToCustom(itemID)
}

// Builds lists stored builds, newest first.
func (s *BundleService) Builds(limit int) ([]*storage.BuildRecord, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListBuilds(limit)
}

// Mutations lists the audit log of the current build unless filters name one.
func (s *BundleService) Mutations(filters storage.MutationFilters) ([]*storage.Mutation, error) {
	if s.store == nil {
		return nil, nil
	}
	if filters.BuildID == "" {
		s.mu.Lock()
		filters.BuildID = s.buildID
		s.mu.Unlock()
	}
	return s.store.ListMutations(filters)
}

// mutate runs fn under the lock, then logs, audits and persists the result.
func (s *BundleService) mutate(rec storage.Mutation, fn func(*engine.Context) (engine.Outcome, error)) (engine.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return engine.Outcome{}, ErrNoBuild
	}

	out, err := fn(s.engine)

	rec.BuildID = s.buildID
	logger := s.logger.With("op", rec.Operation, "collection", rec.CollectionID, "item", rec.ItemID)
	if err != nil {
		rec.Status = "rejected"
		rec.Error = err.Error()
		logger.Info("mutation rejected", "error", err)
	} else {
		rec.Status = string(out.Status)
		rec.Warnings = out.Warnings
		if out.Status == engine.StatusApplied {
			logger.Info("mutation applied", "changed", strings.Join(out.Changed, ","))
		} else {
			logger.Warn("mutation "+string(out.Status), "warnings", len(out.Warnings))
		}
	}

	if err == nil && len(out.Changed) > 0 {
		if check := validator.ValidateSnapshot(s.engine.Snapshot()); !check.Valid {
			logger.Error("allocation invariant broken", "reason", check.Reason, "duplicates", strings.Join(check.Duplicates, ","))
		}
	}

	if s.store == nil {
		return out, err
	}
	if logErr := s.store.LogMutation(&rec); logErr != nil {
		s.logger.Warn("failed to record mutation", "error", logErr)
	}
	if err == nil && len(out.Changed) > 0 {
		if slices.Contains(out.Changed, bundle.CustomID) {
			s.saveCustomState()
		}
		if saveErr := s.store.SaveBuild(s.buildRecord()); saveErr != nil {
			s.logger.Warn("failed to save build snapshot", "error", saveErr)
		}
	}
	return out, err
}
