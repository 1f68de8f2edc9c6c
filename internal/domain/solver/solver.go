// Package solver assembles one themed collection from a pool of items.
//
// A theme names an ordered list of slots (for example shampoo, conditioner,
// hair mask). The solver picks one distinct item per slot, then greedily
// fills the collection with more theme items until the price window's
// maximum or the item limit is reached, and keeps the best-scoring result.
package solver

import (
	"sort"
	"strings"

	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

// DefaultSlotCap bounds the candidates kept per slot.
const DefaultSlotCap = 50

// Score ranks a filled combination.
type Score struct {
	KindDup   int
	Items     int
	Total     catalog.Cents
	Preferred int
}

// Better reports whether s beats o: fewer duplicate kinds among the slot
// picks, then more items, then a lower total, then more preferred items.
func (s Score) Better(o Score) bool {
	if s.KindDup != o.KindDup {
		return s.KindDup < o.KindDup
	}
	if s.Items != o.Items {
		return s.Items > o.Items
	}
	if s.Total != o.Total {
		return s.Total < o.Total
	}
	return s.Preferred > o.Preferred
}

// Solver builds themed collections within a price window.
type Solver struct {
	window  bundle.Window
	slotCap int
}

// New creates a solver. slotCap <= 0 selects DefaultSlotCap.
func New(window bundle.Window, slotCap int) *Solver {
	if slotCap <= 0 {
		slotCap = DefaultSlotCap
	}
	return &Solver{window: window.Normalize(), slotCap: slotCap}
}

// Window returns the price window the solver fills to.
func (s *Solver) Window() bundle.Window {
	return s.window
}

// Solve picks one item per slot from pool members and fills the result to
// the window. With preferredOnly, slot candidates are limited to
// preferred-source items (fill candidates are not). ok is false when no
// combination satisfies the window.
func (s *Solver) Solve(pool []catalog.Item, slots []catalog.Predicate, member catalog.Predicate, preferredOnly bool) ([]catalog.Item, bool) {
	if len(slots) == 0 {
		return nil, false
	}

	members := make([]catalog.Item, 0, len(pool))
	for _, it := range pool {
		if member(it) {
			members = append(members, it)
		}
	}
	sortForFill(members)

	lists := make([][]catalog.Item, len(slots))
	for i, slot := range slots {
		var list []catalog.Item
		for _, it := range members {
			if !slot(it) {
				continue
			}
			if preferredOnly && !it.Preferred() {
				continue
			}
			list = append(list, it)
		}
		if len(list) == 0 {
			return nil, false
		}
		sortForSlot(list)
		if len(list) > s.slotCap {
			list = list[:s.slotCap]
		}
		lists[i] = list
	}

	search := &search{
		solver:   s,
		lists:    lists,
		members:  members,
		used:     make(map[string]bool),
		seen:     make(map[string]bool),
		kinds:    make(map[catalog.Kind]int),
		restMin:  restMinTotals(lists),
		cheapest: cheapestTotals(members, s.window.MaxItems),
	}
	search.backtrack(0, nil, 0, 0)
	if search.best == nil {
		return nil, false
	}
	return search.best, true
}

type search struct {
	solver  *Solver
	lists   [][]catalog.Item
	members []catalog.Item
	used    map[string]bool
	seen    map[string]bool
	kinds   map[catalog.Kind]int

	// restMin[i] is the sum of the cheapest candidate of each slot from i on.
	restMin []catalog.Cents
	// cheapest[k] is the sum of the k cheapest members.
	cheapest []catalog.Cents

	best      []catalog.Item
	bestScore Score
}

func (sr *search) backtrack(idx int, picked []catalog.Item, total catalog.Cents, dup int) {
	if idx == len(sr.lists) {
		sr.consider(picked, dup)
		return
	}
	for _, it := range sr.lists[idx] {
		if sr.used[it.ID] {
			continue
		}
		// Prices are non-negative, so a partial total above Max cannot recover.
		if total+it.Price > sr.solver.window.Max {
			continue
		}
		d := dup
		if sr.kinds[it.Kind] > 0 {
			d++
		}
		if sr.dominated(idx+1, total+it.Price, d) {
			continue
		}
		sr.used[it.ID] = true
		sr.kinds[it.Kind]++
		sr.backtrack(idx+1, append(picked, it), total+it.Price, d)
		sr.kinds[it.Kind]--
		sr.used[it.ID] = false
	}
}

// dominated reports whether every completion of a partial pick with the
// given depth, total and duplicate count scores worse than the best so far.
// Duplicates only grow as picks are added and fill items are drawn from the
// members, so both bounds hold for any completion.
func (sr *search) dominated(depth int, total catalog.Cents, dup int) bool {
	if sr.best == nil {
		return false
	}
	best := sr.bestScore
	if dup != best.KindDup {
		return dup > best.KindDup
	}

	slots := len(sr.lists)
	floor := total + sr.restMin[depth]
	budget := sr.solver.window.Max - floor
	if budget < 0 {
		return true
	}
	extra := 0
	for extra+1 < len(sr.cheapest) && slots+extra+1 <= sr.solver.window.MaxItems && sr.cheapest[extra+1] <= budget {
		extra++
	}
	if slots+extra != best.Items {
		return slots+extra < best.Items
	}
	return floor+sr.cheapest[best.Items-slots] > best.Total
}

func (sr *search) consider(base []catalog.Item, dup int) {
	if sr.best != nil && dup > sr.bestScore.KindDup {
		return
	}
	key := baseKey(base)
	if sr.seen[key] {
		return
	}
	sr.seen[key] = true

	filled, ok := sr.solver.fill(base, sr.members)
	if !ok {
		return
	}
	score := Score{
		KindDup:   dup,
		Items:     len(filled),
		Total:     catalog.Total(filled),
		Preferred: catalog.PreferredCount(filled),
	}
	if sr.best == nil || score.Better(sr.bestScore) {
		sr.best = filled
		sr.bestScore = score
	}
}

// FillToRange extends base with the cheapest candidates that keep the total
// at or under the window maximum, preferring kinds not yet present, until
// MaxItems is reached or nothing fits. ok is false when the result is
// outside the window or has fewer than MinItems items.
func (s *Solver) FillToRange(base []catalog.Item, candidates []catalog.Item) ([]catalog.Item, bool) {
	sorted := make([]catalog.Item, len(candidates))
	copy(sorted, candidates)
	sortForFill(sorted)
	return s.fill(base, sorted)
}

// fill is FillToRange over candidates already in sortForFill order.
func (s *Solver) fill(base []catalog.Item, sorted []catalog.Item) ([]catalog.Item, bool) {
	if len(base) == 0 {
		return nil, false
	}
	items := make([]catalog.Item, len(base), s.window.MaxItems+len(base))
	copy(items, base)

	used := make(map[string]bool, len(base))
	kinds := make(map[catalog.Kind]bool, len(base))
	var total catalog.Cents
	for _, it := range base {
		used[it.ID] = true
		kinds[it.Kind] = true
		total += it.Price
	}

	for len(items) < s.window.MaxItems {
		pick := -1
		for i, it := range sorted {
			if used[it.ID] || total+it.Price > s.window.Max {
				continue
			}
			if !kinds[it.Kind] {
				pick = i
				break
			}
			if pick < 0 {
				pick = i
			}
		}
		if pick < 0 {
			break
		}
		add := sorted[pick]
		items = append(items, add)
		used[add.ID] = true
		kinds[add.Kind] = true
		total += add.Price
	}

	if !s.window.Contains(total) || len(items) < s.window.MinItems {
		return nil, false
	}
	return items, true
}

// KindDupCount counts items whose kind already appeared earlier in the list.
func KindDupCount(items []catalog.Item) int {
	seen := make(map[catalog.Kind]bool, len(items))
	d := 0
	for _, it := range items {
		if seen[it.Kind] {
			d++
			continue
		}
		seen[it.Kind] = true
	}
	return d
}

// sortForFill orders by price, preferred first on ties, then id.
func sortForFill(items []catalog.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		if a.Preferred() != b.Preferred() {
			return a.Preferred()
		}
		return a.ID < b.ID
	})
}

// sortForSlot orders preferred items first, then by price, name and id.
func sortForSlot(items []catalog.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Preferred() != b.Preferred() {
			return a.Preferred()
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
}

func restMinTotals(lists [][]catalog.Item) []catalog.Cents {
	rest := make([]catalog.Cents, len(lists)+1)
	for i := len(lists) - 1; i >= 0; i-- {
		low := lists[i][0].Price
		for _, it := range lists[i] {
			if it.Price < low {
				low = it.Price
			}
		}
		rest[i] = rest[i+1] + low
	}
	return rest
}

// cheapestTotals returns prefix sums over members, which are in price order.
func cheapestTotals(members []catalog.Item, limit int) []catalog.Cents {
	n := len(members)
	if limit < n {
		n = limit
	}
	sums := make([]catalog.Cents, n+1)
	for i := 0; i < n; i++ {
		sums[i+1] = sums[i] + members[i].Price
	}
	return sums
}

func baseKey(base []catalog.Item) string {
	ids := catalog.IDs(base)
	sort.Strings(ids)
	return strings.Join(ids, "\x00")
}
