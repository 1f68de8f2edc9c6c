package engine

import (
	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
	"github.com/eshaffer321/bundlebuilder/internal/domain/selector"
)

// Rebalance restores a themed collection's total to the window. Below the
// minimum it adds a subset of pool items aimed at the target; above the
// maximum it moves the fewest items, never protectedID, back to the pool.
// When no compensating subset exists the outcome is StatusInfeasible and
// nothing changes.
func (c *Context) Rebalance(collectionID, protectedID string) (Outcome, error) {
	if collectionID == bundle.CustomID {
		return Outcome{}, ErrNotThemed
	}
	if !c.isThemed(collectionID) {
		return Outcome{}, ErrUnknownCollection
	}

	t := c.begin()
	if !t.rebalance(collectionID, protectedID, nil) {
		col, _ := t.view(collectionID)
		out := Outcome{Status: StatusInfeasible}
		out.Warnings = append(out.Warnings, Warning{
			Code:         WarnRebalanceFailed,
			CollectionID: collectionID,
			Total:        col.Total(),
			Message:      "no pool subset brings the collection back into the price window",
		})
		return out, nil
	}
	out := applied()
	out.Changed = t.commit()
	return out, nil
}

// rebalance stages a rebalanced copy of the collection and pool. Items in
// exclude are never pulled from the pool. It reports false, staging
// nothing, when the window cannot be restored.
func (t *txn) rebalance(id, protectedID string, exclude map[string]bool) bool {
	live, ok := t.view(id)
	if !ok {
		return false
	}
	w := t.ctx.cfg.Window
	total := live.Total()
	if w.Contains(total) {
		return true
	}

	col := live.Clone()
	pool := t.viewPool().Clone()

	if total < w.Min {
		needMin := w.Min - total
		needMax := w.Max - total
		want := clamp(w.Target-total, needMin, needMax)

		candidates := pool.Filter(func(it catalog.Item) bool { return !exclude[it.ID] })
		add := selector.Select(candidates, needMin, needMax,
			selector.WithTarget(want), selector.WithCap(t.ctx.cfg.RebalanceCap))
		if len(add) == 0 {
			return false
		}
		for _, it := range add {
			pool.Remove(it.ID)
			col.Add(it)
		}
		total = col.Total()
	}

	if total > w.Max {
		removable := make([]catalog.Item, 0, col.Len())
		for _, it := range col.Items {
			if it.ID != protectedID {
				removable = append(removable, it)
			}
		}
		rm, ok := selector.MinimumRemoval(removable, total-w.Max, total-w.Min, t.ctx.cfg.RemovalCap)
		if !ok || col.Len()-len(rm) < w.MinItems {
			return false
		}
		for _, it := range rm {
			col.Remove(it.ID)
			pool.Add(it)
		}
	}

	if !w.Contains(col.Total()) {
		return false
	}
	col.Sort()
	t.put(col)
	t.pool = pool
	return true
}

func clamp(v, lo, hi catalog.Cents) catalog.Cents {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
