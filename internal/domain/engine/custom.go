package engine

import (
	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
	"github.com/eshaffer321/bundlebuilder/internal/domain/selector"
)

// AddToCustom adds an item to the custom collection.
//
// In normal mode the item moves out of its container. The custom budget is
// enforced. A themed donor that would leave the window gets a replacement
// from the pool when one exists; otherwise the move still happens and the
// deviation is reported.
//
// In see-all mode the item is copied: its container keeps it, the budget is
// only advisory, and the shared membership is reported.
func (c *Context) AddToCustom(itemID string) (Outcome, error) {
	t := c.begin()
	out, err := c.addToCustom(t, itemID)
	if err != nil {
		return Outcome{}, err
	}
	out.Changed = t.commit()
	return out, nil
}

// CanAddToCustom previews AddToCustom without committing anything.
func (c *Context) CanAddToCustom(itemID string) (Outcome, error) {
	return c.addToCustom(c.begin(), itemID)
}

func (c *Context) addToCustom(t *txn, itemID string) (Outcome, error) {
	it, ok := c.catalog[itemID]
	if !ok {
		return Outcome{}, ErrUnknownItem
	}
	custom, _ := t.edit(bundle.CustomID)
	if custom.Contains(itemID) {
		return Outcome{}, ErrDuplicate
	}
	out := applied()
	newTotal := custom.Total() + it.Price

	if c.seeAll {
		owner := t.owner(itemID)
		custom.Add(it)
		if owner != "" {
			t.setShared(itemID, true)
			out.warn(WarnSharedMembership, owner, newTotal, "%s stays in %s and is copied to the custom bundle", itemID, owner)
		}
		if !c.budget.Allows(newTotal) {
			out.warn(WarnOverBudget, bundle.CustomID, newTotal, "custom total %s exceeds budget %s", newTotal, c.budget.Max)
		}
		return out, nil
	}

	if !c.budget.Allows(newTotal) {
		return Outcome{}, ErrOverBudget
	}

	owner := t.owner(itemID)
	switch {
	case owner == bundle.PoolID:
		t.editPool().Remove(itemID)
	case c.isThemed(owner):
		c.takeFromDonor(t, &out, owner, it)
	}
	custom.Add(it)
	return out, nil
}

// takeFromDonor removes it from a themed donor, backfilling from the pool
// when the donor would otherwise leave the window.
func (c *Context) takeFromDonor(t *txn, out *Outcome, donorID string, it catalog.Item) {
	w := c.cfg.Window
	donor, _ := t.edit(donorID)
	_, pos, _ := donor.Remove(it.ID)
	base := donor.Total()
	if w.Contains(base) {
		t.checkThemed(out, donorID)
		return
	}

	lo, hi := w.Min-base, w.Max-base
	if lo < 0 {
		lo = 0
	}
	pool := t.editPool()
	if hi >= 0 {
		for _, cand := range pool.Items() {
			if cand.Price >= lo && cand.Price <= hi {
				pool.Remove(cand.ID)
				donor.Insert(pos, cand)
				t.checkThemed(out, donorID)
				return
			}
		}
		fill := selector.Select(pool.Items(), lo, hi,
			selector.WithTarget(clamp(w.Target-base, lo, hi)), selector.WithCap(c.cfg.RebalanceCap))
		if len(fill) > 0 {
			for _, f := range fill {
				pool.Remove(f.ID)
				donor.Add(f)
			}
			t.checkThemed(out, donorID)
			return
		}
	}
	out.warn(WarnNoReplacement, donorID, base, "no pool replacement keeps %s in the price window", donorID)
	t.checkThemed(out, donorID)
}

// RemoveFromCustom drops an item from the custom collection. Owned items
// return to the pool; shared copies are dropped since their container still
// holds them.
func (c *Context) RemoveFromCustom(itemID string) (Outcome, error) {
	t := c.begin()
	custom, _ := t.edit(bundle.CustomID)
	it, _, ok := custom.Remove(itemID)
	if !ok {
		return Outcome{}, ErrNotMember
	}
	if t.isShared(itemID) {
		t.setShared(itemID, false)
		if t.owner(itemID) == "" {
			t.editPool().Add(it)
		}
	} else {
		t.editPool().Add(it)
	}
	out := applied()
	out.Changed = t.commit()
	return out, nil
}

// ClearCustom empties the custom collection, returning owned items to the pool.
func (c *Context) ClearCustom() Outcome {
	t := c.begin()
	custom, _ := t.edit(bundle.CustomID)
	items := custom.Items.Clone()
	for _, it := range items {
		custom.Remove(it.ID)
		shared := t.isShared(it.ID)
		t.setShared(it.ID, false)
		if !shared || t.owner(it.ID) == "" {
			t.editPool().Add(it)
		}
	}
	out := applied()
	out.Changed = t.commit()
	return out
}

// RestoreCustom re-adds saved custom items in normal mode, skipping ids
// that are unknown or no longer fit. It returns the skipped ids.
func (c *Context) RestoreCustom(ids []string) []string {
	seeAll := c.seeAll
	c.seeAll = false
	defer func() { c.seeAll = seeAll }()

	var skipped []string
	for _, id := range ids {
		if _, err := c.AddToCustom(id); err != nil {
			skipped = append(skipped, id)
		}
	}
	return skipped
}
