package engine

import (
	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
)

// txn stages copies of the containers an operation touches. Reads go
// through the txn so they see staged edits; commit swaps them in.
type txn struct {
	ctx    *Context
	cols   map[string]*bundle.Collection
	pool   *bundle.Pool
	custom *bundle.Collection
	shared map[string]bool
}

func (c *Context) begin() *txn {
	return &txn{ctx: c, cols: make(map[string]*bundle.Collection)}
}

// view returns the current state of a collection without staging it.
func (t *txn) view(id string) (*bundle.Collection, bool) {
	if id == bundle.CustomID {
		if t.custom != nil {
			return t.custom, true
		}
		return t.ctx.custom, true
	}
	if col, ok := t.cols[id]; ok {
		return col, true
	}
	col, ok := t.ctx.collections[id]
	return col, ok
}

// edit stages a collection for modification.
func (t *txn) edit(id string) (*bundle.Collection, bool) {
	if id == bundle.CustomID {
		if t.custom == nil {
			t.custom = t.ctx.custom.Clone()
		}
		return t.custom, true
	}
	if col, ok := t.cols[id]; ok {
		return col, true
	}
	live, ok := t.ctx.collections[id]
	if !ok {
		return nil, false
	}
	col := live.Clone()
	t.cols[id] = col
	return col, true
}

// put replaces a staged collection wholesale.
func (t *txn) put(col *bundle.Collection) {
	if col.ID == bundle.CustomID {
		t.custom = col
		return
	}
	t.cols[col.ID] = col
}

func (t *txn) viewPool() *bundle.Pool {
	if t.pool != nil {
		return t.pool
	}
	return t.ctx.pool
}

func (t *txn) editPool() *bundle.Pool {
	if t.pool == nil {
		t.pool = t.ctx.pool.Clone()
	}
	return t.pool
}

func (t *txn) isShared(id string) bool {
	if t.shared != nil {
		return t.shared[id]
	}
	return t.ctx.shared[id]
}

func (t *txn) setShared(id string, on bool) {
	if t.shared == nil {
		t.shared = make(map[string]bool, len(t.ctx.shared)+1)
		for k, v := range t.ctx.shared {
			t.shared[k] = v
		}
	}
	if on {
		t.shared[id] = true
	} else {
		delete(t.shared, id)
	}
}

// owner finds the container holding id: the pool, a themed collection in
// build order, or the custom collection when the item is not a shared copy.
func (t *txn) owner(id string) string {
	if t.viewPool().Contains(id) {
		return bundle.PoolID
	}
	for _, cid := range t.ctx.order {
		if col, _ := t.view(cid); col.Contains(id) {
			return cid
		}
	}
	if custom, _ := t.view(bundle.CustomID); custom.Contains(id) && !t.isShared(id) {
		return bundle.CustomID
	}
	return ""
}

// changed lists staged container ids.
func (t *txn) changed() []string {
	var out []string
	for _, cid := range t.ctx.order {
		if _, ok := t.cols[cid]; ok {
			out = append(out, cid)
		}
	}
	if t.custom != nil {
		out = append(out, bundle.CustomID)
	}
	if t.pool != nil {
		out = append(out, bundle.PoolID)
	}
	return out
}

// commit sorts staged containers and swaps them into the Context.
func (t *txn) commit() []string {
	changed := t.changed()
	for id, col := range t.cols {
		col.Sort()
		t.ctx.collections[id] = col
	}
	if t.custom != nil {
		t.custom.Sort()
		t.ctx.custom = t.custom
	}
	if t.pool != nil {
		t.ctx.pool = t.pool
	}
	if t.shared != nil {
		t.ctx.shared = t.shared
	}
	return changed
}
