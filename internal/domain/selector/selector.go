// Package selector picks subsets of priced items whose total lands in a
// price window.
//
// Both searches are 0/1 subset-sum dynamic programs over integer cents:
//
//	Select          maximize item count, then preferred-source count
//	MinimumRemoval  minimize item count
//
// Candidate lists are truncated to a cap before the search, so results are
// best-effort on very large pools.
package selector

import (
	"sort"

	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

const (
	// DefaultCap bounds the candidates considered by Select.
	DefaultCap = 220
	// RebalanceCap is the wider cap used when refilling an underpriced collection.
	RebalanceCap = 260
	// RemovalCap bounds the candidates considered by MinimumRemoval.
	RemovalCap = 240
)

type options struct {
	target    catalog.Cents
	hasTarget bool
	cap       int
}

// Option tunes Select.
type Option func(*options)

// WithTarget breaks ties between equally good sums by distance to target.
func WithTarget(target catalog.Cents) Option {
	return func(o *options) {
		o.target = target
		o.hasTarget = true
	}
}

// WithCap limits how many candidates are searched.
func WithCap(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cap = n
		}
	}
}

type state struct {
	count     int
	preferred int
	ok        bool
}

// Select returns the subset of candidates whose total is within [lo, hi]
// with the most items; ties go to more preferred-source items, then to the
// sum closest to the target, then to the smaller sum. Inverted bounds are
// swapped. An empty result means no subset fits.
func Select(candidates []catalog.Item, lo, hi catalog.Cents, opts ...Option) []catalog.Item {
	o := options{cap: DefaultCap}
	for _, opt := range opts {
		opt(&o)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi <= 0 || len(candidates) == 0 {
		return nil
	}

	c := make([]catalog.Item, len(candidates))
	copy(c, candidates)
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].Preferred() != c[j].Preferred() {
			return c[i].Preferred()
		}
		if c[i].Price != c[j].Price {
			return c[i].Price < c[j].Price
		}
		return c[i].ID < c[j].ID
	})
	if len(c) > o.cap {
		c = c[:o.cap]
	}

	size := int(hi) + 1
	dp := make([]state, size)
	dp[0] = state{ok: true}
	take := make([][]bool, len(c))

	for i, it := range c {
		w := int(it.Price)
		if w < 0 || w >= size {
			continue
		}
		pref := 0
		if it.Preferred() {
			pref = 1
		}
		for s := size - 1; s >= w; s-- {
			prev := dp[s-w]
			if !prev.ok {
				continue
			}
			cand := state{count: prev.count + 1, preferred: prev.preferred + pref, ok: true}
			if !dp[s].ok || cand.count > dp[s].count ||
				(cand.count == dp[s].count && cand.preferred > dp[s].preferred) {
				dp[s] = cand
				if take[i] == nil {
					take[i] = make([]bool, size)
				}
				take[i][s] = true
			}
		}
	}

	best := -1
	for s := int(lo); s < size; s++ {
		st := dp[s]
		if !st.ok || st.count == 0 {
			continue
		}
		if best < 0 {
			best = s
			continue
		}
		b := dp[best]
		switch {
		case st.count != b.count:
			if st.count > b.count {
				best = s
			}
		case st.preferred != b.preferred:
			if st.preferred > b.preferred {
				best = s
			}
		case o.hasTarget:
			if dist(s, o.target) < dist(best, o.target) {
				best = s
			}
		}
	}
	if best < 0 {
		return nil
	}
	return reconstruct(c, take, best)
}

// MinimumRemoval finds the fewest items whose total lies in
// [minRemove, maxRemove], preferring the smaller total among equal counts.
// Items are considered cheapest first, truncated to limit. ok is false when
// no subset fits.
func MinimumRemoval(items []catalog.Item, minRemove, maxRemove catalog.Cents, limit int) ([]catalog.Item, bool) {
	if minRemove < 1 {
		minRemove = 1
	}
	if maxRemove < minRemove || len(items) == 0 {
		return nil, false
	}
	if limit <= 0 {
		limit = RemovalCap
	}

	c := make([]catalog.Item, len(items))
	copy(c, items)
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].Price != c[j].Price {
			return c[i].Price < c[j].Price
		}
		return c[i].ID < c[j].ID
	})
	if len(c) > limit {
		c = c[:limit]
	}

	size := int(maxRemove) + 1
	dp := make([]state, size)
	dp[0] = state{ok: true}
	take := make([][]bool, len(c))

	for i, it := range c {
		w := int(it.Price)
		if w <= 0 || w >= size {
			continue
		}
		for s := size - 1; s >= w; s-- {
			prev := dp[s-w]
			if !prev.ok {
				continue
			}
			if !dp[s].ok || prev.count+1 < dp[s].count {
				dp[s] = state{count: prev.count + 1, ok: true}
				if take[i] == nil {
					take[i] = make([]bool, size)
				}
				take[i][s] = true
			}
		}
	}

	best := -1
	for s := int(minRemove); s < size; s++ {
		if !dp[s].ok {
			continue
		}
		if best < 0 || dp[s].count < dp[best].count {
			best = s
		}
	}
	if best < 0 {
		return nil, false
	}
	return reconstruct(c, take, best), true
}

// reconstruct walks the take table backwards from sum.
func reconstruct(c []catalog.Item, take [][]bool, sum int) []catalog.Item {
	var picked []catalog.Item
	for i := len(c) - 1; i >= 0; i-- {
		if take[i] != nil && take[i][sum] {
			picked = append(picked, c[i])
			sum -= int(c[i].Price)
		}
	}
	for l, r := 0, len(picked)-1; l < r; l, r = l+1, r-1 {
		picked[l], picked[r] = picked[r], picked[l]
	}
	return picked
}

func dist(s int, target catalog.Cents) int {
	d := s - int(target)
	if d < 0 {
		return -d
	}
	return d
}
