package bundle

import (
	"sort"

	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

// Kind distinguishes engine-built collections from the user's own.
type Kind string

const (
	KindThemed Kind = "themed"
	KindCustom Kind = "custom"
)

// CustomID is the reserved id of the custom collection.
const CustomID = "custom"

// PoolID is the reserved id of the leftover pool.
const PoolID = "pool"

// Items is an ordered list of items kept sorted by price then id.
type Items []catalog.Item

// Index returns the position of id, or -1.
func (s Items) Index(id string) int {
	for i, it := range s {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is present.
func (s Items) Contains(id string) bool {
	return s.Index(id) >= 0
}

// Total sums item prices.
func (s Items) Total() catalog.Cents {
	return catalog.Total(s)
}

// Clone copies the slice so the result can be edited independently.
func (s Items) Clone() Items {
	out := make(Items, len(s))
	copy(out, s)
	return out
}

// Sort orders items by price, then id.
func (s Items) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Price != s[j].Price {
			return s[i].Price < s[j].Price
		}
		return s[i].ID < s[j].ID
	})
}

// Collection is a named group of items.
type Collection struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Kind     Kind   `json:"kind"`
	Items    Items  `json:"items"`
}

// NewCollection creates a collection with its items sorted.
func NewCollection(id, title, subtitle string, kind Kind, items []catalog.Item) *Collection {
	c := &Collection{ID: id, Title: title, Subtitle: subtitle, Kind: kind, Items: Items(items).Clone()}
	c.Items.Sort()
	return c
}

// Clone returns a deep copy of the item list.
func (c *Collection) Clone() *Collection {
	cp := *c
	cp.Items = c.Items.Clone()
	return &cp
}

// Total sums item prices.
func (c *Collection) Total() catalog.Cents {
	return c.Items.Total()
}

// Len returns the number of items.
func (c *Collection) Len() int {
	return len(c.Items)
}

// Contains reports whether the item is in the collection.
func (c *Collection) Contains(id string) bool {
	return c.Items.Contains(id)
}

// Get returns the item with id.
func (c *Collection) Get(id string) (catalog.Item, bool) {
	if i := c.Items.Index(id); i >= 0 {
		return c.Items[i], true
	}
	return catalog.Item{}, false
}

// Add appends an item; callers sort when they are done editing.
func (c *Collection) Add(it catalog.Item) {
	c.Items = append(c.Items, it)
}

// Remove deletes the item with id and reports its former position.
func (c *Collection) Remove(id string) (catalog.Item, int, bool) {
	i := c.Items.Index(id)
	if i < 0 {
		return catalog.Item{}, -1, false
	}
	it := c.Items[i]
	c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
	return it, i, true
}

// Replace puts it in place of the item with oldID, keeping its position.
func (c *Collection) Replace(oldID string, it catalog.Item) bool {
	i := c.Items.Index(oldID)
	if i < 0 {
		return false
	}
	c.Items[i] = it
	return true
}

// Insert places it at position i, clamped to the list bounds.
func (c *Collection) Insert(i int, it catalog.Item) {
	if i < 0 || i > len(c.Items) {
		i = len(c.Items)
	}
	c.Items = append(c.Items, catalog.Item{})
	copy(c.Items[i+1:], c.Items[i:])
	c.Items[i] = it
}

// Sort orders the items by price.
func (c *Collection) Sort() {
	c.Items.Sort()
}
