package bundle

import (
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

// Pool holds eligible items not placed in any themed collection.
type Pool struct {
	items Items
}

// NewPool creates a pool sorted by price.
func NewPool(items []catalog.Item) *Pool {
	p := &Pool{items: Items(items).Clone()}
	p.items.Sort()
	return p
}

// Clone returns an independent copy.
func (p *Pool) Clone() *Pool {
	return &Pool{items: p.items.Clone()}
}

// Items returns the pool items in price order. Callers must not modify it.
func (p *Pool) Items() Items {
	return p.items
}

// Len returns the number of items.
func (p *Pool) Len() int {
	return len(p.items)
}

// Contains reports whether id is in the pool.
func (p *Pool) Contains(id string) bool {
	return p.items.Contains(id)
}

// Get returns the item with id.
func (p *Pool) Get(id string) (catalog.Item, bool) {
	if i := p.items.Index(id); i >= 0 {
		return p.items[i], true
	}
	return catalog.Item{}, false
}

// Add inserts it in price order unless it is already present.
func (p *Pool) Add(it catalog.Item) {
	if p.items.Contains(it.ID) {
		return
	}
	p.items = append(p.items, it)
	p.items.Sort()
}

// Remove deletes the item with id.
func (p *Pool) Remove(id string) (catalog.Item, bool) {
	i := p.items.Index(id)
	if i < 0 {
		return catalog.Item{}, false
	}
	it := p.items[i]
	p.items = append(p.items[:i:i], p.items[i+1:]...)
	return it, true
}

// Filter returns the pool items matching keep, in price order.
func (p *Pool) Filter(keep func(catalog.Item) bool) []catalog.Item {
	var out []catalog.Item
	for _, it := range p.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
