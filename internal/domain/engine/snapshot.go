package engine

import (
	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

// CollectionView is a read-only rendering of a collection.
type CollectionView struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle,omitempty"`
	Kind     bundle.Kind    `json:"kind"`
	Items    []catalog.Item `json:"items"`
	Count    int            `json:"count"`
	Total    catalog.Cents  `json:"total"`
	InWindow bool           `json:"in_window"`
}

// Snapshot is an immutable copy of the whole Context.
type Snapshot struct {
	Window      WindowView       `json:"window"`
	Collections []CollectionView `json:"collections"`
	Custom      CollectionView   `json:"custom"`
	Budget      bundle.Budget    `json:"budget"`
	SeeAll      bool             `json:"see_all"`
	Pool        []catalog.Item   `json:"pool"`
	Deviations  []string         `json:"deviations,omitempty"`
}

// WindowView exposes the window with JSON names.
type WindowView struct {
	Min      catalog.Cents `json:"min"`
	Max      catalog.Cents `json:"max"`
	Target   catalog.Cents `json:"target"`
	MinItems int           `json:"min_items"`
	MaxItems int           `json:"max_items"`
}

func (c *Context) view(col *bundle.Collection) CollectionView {
	total := col.Total()
	return CollectionView{
		ID:       col.ID,
		Title:    col.Title,
		Subtitle: col.Subtitle,
		Kind:     col.Kind,
		Items:    col.Items.Clone(),
		Count:    col.Len(),
		Total:    total,
		InWindow: c.cfg.Window.Contains(total),
	}
}

// Snapshot copies the current state.
func (c *Context) Snapshot() Snapshot {
	w := c.cfg.Window
	s := Snapshot{
		Window: WindowView{Min: w.Min, Max: w.Max, Target: w.Target, MinItems: w.MinItems, MaxItems: w.MaxItems},
		Custom: c.view(c.custom),
		Budget: c.budget,
		SeeAll: c.seeAll,
		Pool:   c.pool.Items().Clone(),
	}
	s.Custom.InWindow = c.budget.Allows(s.Custom.Total) && s.Custom.Total >= c.budget.Min
	for _, id := range c.order {
		s.Collections = append(s.Collections, c.view(c.collections[id]))
	}
	s.Deviations = c.Deviations()
	return s
}

// CollectionView renders one collection, including bundle.CustomID.
func (c *Context) CollectionView(id string) (CollectionView, bool) {
	if id == bundle.CustomID {
		return c.Snapshot().Custom, true
	}
	col, ok := c.collections[id]
	if !ok {
		return CollectionView{}, false
	}
	return c.view(col), true
}
