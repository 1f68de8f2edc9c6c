package solver

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/bundlebuilder/internal/domain/bundle"
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

func mk(id string, dollars float64, kind catalog.Kind, traits catalog.Traits, preferred bool) catalog.Item {
	return catalog.Item{
		ID:     id,
		Name:   id,
		Price:  catalog.Dollars(dollars),
		Kind:   kind,
		Traits: traits,
		Offer:  catalog.Offer{Preferred: preferred},
	}
}

func has(t catalog.Traits) catalog.Predicate {
	return func(it catalog.Item) bool { return it.Has(t) }
}

var (
	hairSlots = []catalog.Predicate{
		has(catalog.TraitShampoo),
		has(catalog.TraitConditioner),
		has(catalog.TraitHairMask),
	}
	hairMember = has(catalog.TraitHair)
)

func hairPool() []catalog.Item {
	return []catalog.Item{
		mk("sh1", 12, "hair:shampoo", catalog.TraitHair|catalog.TraitShampoo, false),
		mk("sh2", 15, "hair:shampoo", catalog.TraitHair|catalog.TraitShampoo, true),
		mk("co1", 14, "hair:conditioner", catalog.TraitHair|catalog.TraitConditioner, false),
		mk("ma1", 18, "hair:mask", catalog.TraitHair|catalog.TraitHairMask, false),
		mk("oil", 9, "hair:oil", catalog.TraitHair, false),
		mk("gel", 40, "hair:styling", catalog.TraitHair, false),
		mk("face", 5, "face:serum", catalog.TraitFace, false),
	}
}

func TestSolve_FillsToWindowWithFreshKinds(t *testing.T) {
	s := New(bundle.DefaultWindow(), 0)

	items, ok := s.Solve(hairPool(), hairSlots, hairMember, false)
	require.True(t, ok)

	total := catalog.Total(items)
	assert.True(t, s.Window().Contains(total), "total %s", total)
	assert.GreaterOrEqual(t, len(items), 3)
	assert.Len(t, items, 4)
	assert.ElementsMatch(t, []string{"sh1", "co1", "ma1", "oil"}, catalog.IDs(items))
	assert.Equal(t, catalog.Dollars(53), total)
}

func TestSolve_PreferredOnlyRestrictsSlots(t *testing.T) {
	s := New(bundle.DefaultWindow(), 0)

	_, ok := s.Solve(hairPool(), hairSlots, hairMember, true)
	assert.False(t, ok, "conditioner and mask slots have no preferred candidates")
}

func TestSolve_EmptySlotIsInfeasible(t *testing.T) {
	s := New(bundle.DefaultWindow(), 0)
	pool := []catalog.Item{
		mk("sh1", 20, "hair:shampoo", catalog.TraitHair|catalog.TraitShampoo, false),
		mk("co1", 20, "hair:conditioner", catalog.TraitHair|catalog.TraitConditioner, false),
	}
	_, ok := s.Solve(pool, hairSlots, hairMember, false)
	assert.False(t, ok)
}

func TestSolve_BelowMinimumIsInfeasible(t *testing.T) {
	s := New(bundle.DefaultWindow(), 0)
	pool := []catalog.Item{
		mk("sh1", 5, "hair:shampoo", catalog.TraitHair|catalog.TraitShampoo, false),
		mk("co1", 5, "hair:conditioner", catalog.TraitHair|catalog.TraitConditioner, false),
		mk("ma1", 5, "hair:mask", catalog.TraitHair|catalog.TraitHairMask, false),
	}
	_, ok := s.Solve(pool, hairSlots, hairMember, false)
	assert.False(t, ok)
}

func TestSolve_DistinctItemsAcrossAnySlots(t *testing.T) {
	s := New(bundle.DefaultWindow(), 0)
	anyItem := func(catalog.Item) bool { return true }
	pool := []catalog.Item{
		mk("a", 20, "other:a", 0, false),
		mk("b", 20, "other:b", 0, false),
		mk("c", 20, "other:c", 0, false),
	}
	items, ok := s.Solve(pool, []catalog.Predicate{anyItem, anyItem, anyItem}, anyItem, false)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, catalog.IDs(items))
}

func TestSolve_AvoidsDuplicateKindsInSlots(t *testing.T) {
	s := New(bundle.DefaultWindow(), 0)
	anyItem := func(catalog.Item) bool { return true }
	pool := []catalog.Item{
		mk("s1", 16, "hair:shampoo", 0, false),
		mk("s2", 16, "hair:shampoo", 0, false),
		mk("x", 17, "other:x", 0, false),
		mk("y", 18, "other:y", 0, false),
	}
	items, ok := s.Solve(pool, []catalog.Predicate{anyItem, anyItem, anyItem}, anyItem, false)
	require.True(t, ok)
	assert.Equal(t, 0, KindDupCount(items[:3]))
}

func TestSolve_FourSlotsAtDefaultCapsFinishes(t *testing.T) {
	var pool []catalog.Item
	var slots []catalog.Predicate
	for slot := 0; slot < 4; slot++ {
		kind := catalog.Kind(fmt.Sprintf("makeup:%d", slot))
		for i := 0; i < DefaultSlotCap; i++ {
			pool = append(pool, catalog.Item{
				ID:     fmt.Sprintf("m%d-%02d", slot, i),
				Name:   fmt.Sprintf("makeup %d %02d", slot, i),
				Price:  catalog.Cents(800 + i*14),
				Kind:   kind,
				Traits: catalog.TraitMakeup,
			})
		}
		slots = append(slots, func(it catalog.Item) bool { return it.Kind == kind })
	}
	anyItem := func(catalog.Item) bool { return true }

	type result struct {
		items []catalog.Item
		ok    bool
	}
	done := make(chan result, 1)
	go func() {
		items, ok := New(bundle.DefaultWindow(), 0).Solve(pool, slots, anyItem, false)
		done <- result{items, ok}
	}()

	select {
	case r := <-done:
		require.True(t, r.ok)
		assert.Len(t, r.items, 8)
		assert.Equal(t, catalog.Cents(6456), catalog.Total(r.items))
		assert.Equal(t, 0, KindDupCount(r.items[:4]))
	case <-time.After(10 * time.Second):
		t.Fatal("four-slot solve did not finish within 10s")
	}
}

func TestSolve_PreferredSlotCandidateBeyondCheapestCap(t *testing.T) {
	s := New(bundle.DefaultWindow(), 0)
	var pool []catalog.Item
	for i := 0; i < DefaultSlotCap; i++ {
		pool = append(pool, mk(fmt.Sprintf("sh%02d", i), 1, "hair:shampoo", catalog.TraitHair|catalog.TraitShampoo, false))
	}
	pool = append(pool,
		mk("sh-pref", 30, "hair:shampoo", catalog.TraitHair|catalog.TraitShampoo, true),
		mk("co1", 10, "hair:conditioner", catalog.TraitHair|catalog.TraitConditioner, false),
		mk("ma1", 10, "hair:mask", catalog.TraitHair|catalog.TraitHairMask, false),
	)

	items, ok := s.Solve(pool, hairSlots, hairMember, false)
	require.True(t, ok, "only the preferred shampoo reaches the window floor")
	assert.Contains(t, catalog.IDs(items), "sh-pref")
	assert.True(t, s.Window().Contains(catalog.Total(items)))
}

func TestSortForSlot_PreferredBeforeCheaper(t *testing.T) {
	items := []catalog.Item{
		mk("cheap", 5, "k", 0, false),
		mk("pref-hi", 20, "k", 0, true),
		mk("pref-lo", 10, "k", 0, true),
	}
	sortForSlot(items)
	assert.Equal(t, []string{"pref-lo", "pref-hi", "cheap"}, catalog.IDs(items))
}

func TestFillToRange_StopsAtMaxItems(t *testing.T) {
	w := bundle.Window{Min: 100, Max: 10_000, MinItems: 1, MaxItems: 3}
	s := New(w, 0)
	base := []catalog.Item{mk("b", 1, "k:b", 0, false)}
	cands := []catalog.Item{
		mk("c1", 1, "k:c1", 0, false),
		mk("c2", 1, "k:c2", 0, false),
		mk("c3", 1, "k:c3", 0, false),
	}
	items, ok := s.FillToRange(base, cands)
	require.True(t, ok)
	assert.Len(t, items, 3)
}

func TestFillToRange_FallsBackToUsedKinds(t *testing.T) {
	w := bundle.Window{Min: 100, Max: 10_000, MinItems: 2, MaxItems: 5}
	s := New(w, 0)
	base := []catalog.Item{mk("b", 1, "k", 0, false)}
	cands := []catalog.Item{mk("dup", 1, "k", 0, false)}

	items, ok := s.FillToRange(base, cands)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "dup"}, catalog.IDs(items))
}

func TestFillToRange_RejectsOverMax(t *testing.T) {
	s := New(bundle.DefaultWindow(), 0)
	base := []catalog.Item{mk("a", 40, "k:a", 0, false), mk("b", 30, "k:b", 0, false), mk("c", 1, "k:c", 0, false)}
	_, ok := s.FillToRange(base, nil)
	assert.False(t, ok)
}

func TestScore_Better(t *testing.T) {
	base := Score{KindDup: 1, Items: 4, Total: 5000, Preferred: 1}

	assert.True(t, Score{KindDup: 0, Items: 3, Total: 6000}.Better(base))
	assert.True(t, Score{KindDup: 1, Items: 5, Total: 6000}.Better(base))
	assert.True(t, Score{KindDup: 1, Items: 4, Total: 4900}.Better(base))
	assert.True(t, Score{KindDup: 1, Items: 4, Total: 5000, Preferred: 2}.Better(base))
	assert.False(t, base.Better(base))
}
