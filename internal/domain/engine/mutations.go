package engine

import (
	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
)

// Transfer moves an item from wherever it is to targetID: a themed
// collection, bundle.PoolID or bundle.CustomID. A themed donor may not drop
// below the minimum item count and is rebalanced afterwards; the moved item
// is never pulled back in by that rebalance.
func (c *Context) Transfer(itemID, targetID string) (Outcome, error) {
	switch targetID {
	case bundle.CustomID:
		return c.AddToCustom(itemID)
	case bundle.PoolID:
		if _, ok := c.catalog[itemID]; !ok {
			return Outcome{}, ErrUnknownItem
		}
		t := c.begin()
		switch owner := t.owner(itemID); owner {
		case bundle.PoolID:
			return Outcome{}, ErrDuplicate
		case bundle.CustomID:
			return c.RemoveFromCustom(itemID)
		case "":
			return Outcome{}, ErrNotMember
		default:
			return c.release(t, owner, itemID, true)
		}
	}
	return c.place(itemID, targetID, true)
}

// Add moves an item into a themed collection without rebalancing the donor.
func (c *Context) Add(collectionID, itemID string) (Outcome, error) {
	return c.place(itemID, collectionID, false)
}

// Remove moves an item from a themed collection back to the pool. The
// collection may not drop below the minimum item count.
func (c *Context) Remove(collectionID, itemID string) (Outcome, error) {
	if collectionID == bundle.CustomID {
		return c.RemoveFromCustom(itemID)
	}
	if !c.isThemed(collectionID) {
		return Outcome{}, ErrUnknownCollection
	}
	return c.release(c.begin(), collectionID, itemID, false)
}

func (c *Context) release(t *txn, fromID, itemID string, rebalance bool) (Outcome, error) {
	col, _ := t.edit(fromID)
	if !col.Contains(itemID) {
		return Outcome{}, ErrNotMember
	}
	if col.Len() <= c.cfg.Window.MinItems {
		return Outcome{}, ErrMinItems
	}
	it, _, _ := col.Remove(itemID)
	t.editPool().Add(it)

	out := applied()
	if rebalance && !t.rebalance(fromID, "", map[string]bool{itemID: true}) {
		donor, _ := t.view(fromID)
		out.warn(WarnRebalanceFailed, fromID, donor.Total(), "could not rebalance %s after removing %s", fromID, itemID)
	}
	t.checkThemed(&out, fromID)
	out.Changed = t.commit()
	return out, nil
}

func (c *Context) place(itemID, targetID string, rebalanceDonor bool) (Outcome, error) {
	if targetID == bundle.CustomID {
		return c.AddToCustom(itemID)
	}
	if !c.isThemed(targetID) {
		return Outcome{}, ErrUnknownCollection
	}
	it, ok := c.catalog[itemID]
	if !ok {
		return Outcome{}, ErrUnknownItem
	}

	t := c.begin()
	target, _ := t.edit(targetID)
	if target.Contains(itemID) {
		return Outcome{}, ErrDuplicate
	}

	owner := t.owner(itemID)
	switch owner {
	case bundle.PoolID:
		t.editPool().Remove(itemID)
	case bundle.CustomID:
		custom, _ := t.edit(bundle.CustomID)
		custom.Remove(itemID)
	case "":
	default:
		donor, _ := t.edit(owner)
		if donor.Len() <= c.cfg.Window.MinItems {
			return Outcome{}, ErrMinItems
		}
		donor.Remove(itemID)
	}
	target.Add(it)

	out := applied()
	if c.isThemed(owner) {
		if rebalanceDonor && !t.rebalance(owner, "", map[string]bool{itemID: true}) {
			donor, _ := t.view(owner)
			out.warn(WarnRebalanceFailed, owner, donor.Total(), "could not rebalance %s after giving up %s", owner, itemID)
		}
		t.checkThemed(&out, owner)
	}
	t.checkThemed(&out, targetID)
	out.Changed = t.commit()
	return out, nil
}

// Swap replaces oldID in a themed collection with newID. When newID sits in
// another collection the two items trade places; when it sits in the pool,
// oldID goes to the pool. Window deviations are reported, never blocked.
func (c *Context) Swap(collectionID, oldID, newID string) (Outcome, error) {
	if collectionID == bundle.CustomID {
		return Outcome{}, ErrNotThemed
	}
	if !c.isThemed(collectionID) {
		return Outcome{}, ErrUnknownCollection
	}
	newItem, ok := c.catalog[newID]
	if !ok {
		return Outcome{}, ErrUnknownItem
	}
	if oldID == newID {
		return Outcome{}, ErrSameItem
	}

	t := c.begin()
	target, _ := t.edit(collectionID)
	oldItem, ok := target.Get(oldID)
	if !ok {
		return Outcome{}, ErrNotMember
	}
	if target.Contains(newID) {
		return Outcome{}, ErrDuplicate
	}

	out := applied()
	switch owner := t.owner(newID); owner {
	case bundle.PoolID, "":
		pool := t.editPool()
		pool.Remove(newID)
		pool.Add(oldItem)
	case bundle.CustomID:
		custom, _ := t.edit(bundle.CustomID)
		if custom.Contains(oldID) {
			custom.Remove(newID)
			t.setShared(oldID, false)
		} else {
			custom.Replace(newID, oldItem)
		}
		if b := c.budget; !b.Allows(custom.Total()) {
			out.warn(WarnOverBudget, bundle.CustomID, custom.Total(), "custom total %s exceeds budget %s", custom.Total(), b.Max)
		}
	default:
		donor, _ := t.edit(owner)
		donor.Replace(newID, oldItem)
		t.checkThemed(&out, owner)
	}
	target.Replace(oldID, newItem)
	t.checkThemed(&out, collectionID)

	out.Changed = t.commit()
	return out, nil
}

// checkThemed reports window and size deviations of a themed collection.
func (t *txn) checkThemed(out *Outcome, id string) {
	if !t.ctx.isThemed(id) {
		return
	}
	col, _ := t.view(id)
	w := t.ctx.cfg.Window
	total := col.Total()
	if !w.Contains(total) {
		out.warn(WarnOutOfWindow, id, total, "%s total %s is outside %s to %s", id, total, w.Min, w.Max)
	}
	if col.Len() < w.MinItems {
		out.warn(WarnBelowMinItems, id, total, "%s has %d items, minimum is %d", id, col.Len(), w.MinItems)
	}
}
