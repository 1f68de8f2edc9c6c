// Package engine owns the allocation state after the initial build and
// applies user-directed mutations to it.
//
// A Context holds the themed collections, the leftover pool and the custom
// collection. Every item is in at most one of them, except that see-all mode
// lets the custom collection hold copies of items that stay where they are.
//
// Operations never mutate live state directly. Each one stages clones of the
// containers it touches in a transaction, validates the result and then
// swaps the staged containers in at once. A rejected operation drops its
// transaction, so callers never observe a partial change.
//
// A Context is not safe for concurrent use; callers serialize access.
package engine

import (
	"github.com/eshaffer321/bundlebuilder/internal/domain/allocator"
	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
	"github.com/eshaffer321/bundlebuilder/internal/domain/selector"
)

// Config tunes the engine.
type Config struct {
	Window       bundle.Window
	RebalanceCap int
	RemovalCap   int
}

// DefaultConfig returns the production window and search caps.
func DefaultConfig() Config {
	return Config{
		Window:       bundle.DefaultWindow(),
		RebalanceCap: selector.RebalanceCap,
		RemovalCap:   selector.RemovalCap,
	}
}

func (c Config) normalize() Config {
	c.Window = c.Window.Normalize()
	if c.RebalanceCap <= 0 {
		c.RebalanceCap = selector.RebalanceCap
	}
	if c.RemovalCap <= 0 {
		c.RemovalCap = selector.RemovalCap
	}
	return c
}

// Context is the mutable allocation state of one build.
type Context struct {
	cfg     Config
	catalog map[string]catalog.Item

	order       []string
	collections map[string]*bundle.Collection
	pool        *bundle.Pool
	custom      *bundle.Collection
	shared      map[string]bool

	budget bundle.Budget
	seeAll bool
}

// NewContext takes ownership of an allocation result. items is the full
// eligible catalog and is used to resolve ids.
func NewContext(cfg Config, items []catalog.Item, res *allocator.Result) *Context {
	cfg = cfg.normalize()
	c := &Context{
		cfg:         cfg,
		catalog:     make(map[string]catalog.Item, len(items)),
		collections: make(map[string]*bundle.Collection),
		custom:      bundle.NewCollection(bundle.CustomID, "Custom Bundle", "", bundle.KindCustom, nil),
		shared:      make(map[string]bool),
	}
	for _, it := range items {
		c.catalog[it.ID] = it
	}

	hi := cfg.Window.Max
	c.budget = bundle.NewBudget(cfg.Window.Min, &hi)

	if res == nil {
		c.pool = bundle.NewPool(items)
		return c
	}
	for _, col := range res.Collections {
		c.order = append(c.order, col.ID)
		c.collections[col.ID] = col.Clone()
	}
	if res.Pool != nil {
		c.pool = res.Pool.Clone()
	} else {
		c.pool = bundle.NewPool(nil)
	}
	return c
}

// Config returns the engine configuration.
func (c *Context) Config() Config {
	return c.cfg
}

// Item resolves an id against the catalog.
func (c *Context) Item(id string) (catalog.Item, bool) {
	it, ok := c.catalog[id]
	return it, ok
}

// CatalogSize returns the number of eligible items.
func (c *Context) CatalogSize() int {
	return len(c.catalog)
}

// CollectionIDs returns the themed collection ids in build order.
func (c *Context) CollectionIDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Collection returns a copy of a themed collection, or the custom
// collection for bundle.CustomID.
func (c *Context) Collection(id string) (*bundle.Collection, bool) {
	if id == bundle.CustomID {
		return c.custom.Clone(), true
	}
	col, ok := c.collections[id]
	if !ok {
		return nil, false
	}
	return col.Clone(), true
}

// Pool returns a copy of the pool.
func (c *Context) Pool() *bundle.Pool {
	return c.pool.Clone()
}

// Budget returns the custom collection budget.
func (c *Context) Budget() bundle.Budget {
	return c.budget
}

// SeeAll reports whether the custom collection adds items as copies.
func (c *Context) SeeAll() bool {
	return c.seeAll
}

// SetSeeAll switches see-all mode. In see-all mode AddToCustom copies items
// without taking them from their current container.
func (c *Context) SetSeeAll(on bool) {
	c.seeAll = on
}

// SetBudget sets the custom budget; a nil max removes the cap.
func (c *Context) SetBudget(lo catalog.Cents, hi *catalog.Cents) bundle.Budget {
	c.budget = bundle.NewBudget(lo, hi)
	return c.budget
}

// Owner returns the id of the container holding id: bundle.PoolID, a themed
// collection id, or bundle.CustomID. Shared copies in the custom collection
// do not count as ownership.
func (c *Context) Owner(id string) (string, bool) {
	owner := c.begin().owner(id)
	return owner, owner != ""
}

// Deviations lists custom items that are shared copies still held by
// another container.
func (c *Context) Deviations() []string {
	t := c.begin()
	var out []string
	for _, it := range c.custom.Items {
		if c.shared[it.ID] && t.owner(it.ID) != "" {
			out = append(out, it.ID)
		}
	}
	return out
}

func (c *Context) isThemed(id string) bool {
	_, ok := c.collections[id]
	return ok
}
