// Package allocator builds the themed collections from the eligible items.
//
// Themes are processed in priority order. Each theme is solved against what
// is left of the pool and its items are removed before the next theme runs,
// so an item lands in at most one collection:
//
//	for theme in order:
//	    items = solve(pool, theme, preferred only) or solve(pool, theme, any source)
//	    if items: emit collection, pool -= items
//	    else:     skip theme
package allocator

import (
	"errors"

	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
	"github.com/eshaffer321/bundlebuilder/internal/domain/solver"
	"github.com/eshaffer321/bundlebuilder/internal/domain/themes"
)

// ErrNoSolver is returned when Allocate is called without a solver.
var ErrNoSolver = errors.New("allocator: solver is required")

// Result holds the built collections and the leftover pool.
type Result struct {
	Collections []*bundle.Collection
	Pool        *bundle.Pool
	// Skipped lists theme ids with no feasible combination.
	Skipped []string
}

// Allocate runs every theme in order against items.
func Allocate(items []catalog.Item, ths []themes.Theme, s *solver.Solver) (*Result, error) {
	if s == nil {
		return nil, ErrNoSolver
	}

	// Step 1: Sort the pool by price
	pool := bundle.NewPool(items)

	// Step 2: Solve each theme against what is left
	res := &Result{}
	for _, th := range ths {
		picked, ok := s.Solve(pool.Items(), th.Slots, th.Member, true)
		if !ok {
			picked, ok = s.Solve(pool.Items(), th.Slots, th.Member, false)
		}
		if !ok {
			res.Skipped = append(res.Skipped, th.ID)
			continue
		}

		// Step 3: Consume the picked items
		for _, it := range picked {
			pool.Remove(it.ID)
		}
		res.Collections = append(res.Collections,
			bundle.NewCollection(th.CollectionID, th.Title, th.Subtitle, bundle.KindThemed, picked))
	}

	res.Pool = pool
	return res, nil
}
