// Package themes defines the themed collections the allocator builds, in
// priority order.
package themes

import (
	"errors"
	"fmt"

	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

// ErrUnknownTheme is returned by Lookup for an id with no definition.
var ErrUnknownTheme = errors.New("themes: unknown theme")

// Theme describes one themed collection: which items may join it and which
// slot roles its first picks must fill.
type Theme struct {
	ID           string
	CollectionID string
	Title        string
	Subtitle     string
	Slots        []catalog.Predicate
	Member       catalog.Predicate
}

func has(t catalog.Traits) catalog.Predicate {
	return func(it catalog.Item) bool { return it.Has(t) }
}

func anyOf(t catalog.Traits) catalog.Predicate {
	return func(it catalog.Item) bool { return it.Traits.Any(t) }
}

func not(p catalog.Predicate) catalog.Predicate {
	return func(it catalog.Item) bool { return !p(it) }
}

var (
	// Baby and men items stay out of every other theme.
	general   = not(anyOf(catalog.TraitKids | catalog.TraitMen))
	notMakeup = not(has(catalog.TraitMakeup))
	anyItem   = func(catalog.Item) bool { return true }

	IsBaby   = has(catalog.TraitKids)
	IsMen    = has(catalog.TraitMen)
	IsHair   = catalog.And(general, notMakeup, anyOf(catalog.TraitHair|catalog.TraitShampoo|catalog.TraitConditioner|catalog.TraitHairMask))
	IsAcne   = catalog.And(general, notMakeup, has(catalog.TraitAcne))
	IsFace   = catalog.And(general, notMakeup, has(catalog.TraitFace))
	IsShower = catalog.And(general, notMakeup, has(catalog.TraitShower))
	IsBody   = catalog.And(general, notMakeup, has(catalog.TraitBodyCare))
	IsMakeup = catalog.And(general, has(catalog.TraitMakeup))
	IsNails  = catalog.And(general, notMakeup, has(catalog.TraitNails))
)

func three(p catalog.Predicate) []catalog.Predicate {
	return []catalog.Predicate{p, p, p}
}

// Default returns every theme in allocation priority order.
func Default() []Theme {
	return []Theme{
		{
			ID: "hair", CollectionID: "bundle-hair",
			Title: "Hair Bundle", Subtitle: "Shampoo + conditioner + hair mask",
			Slots:  []catalog.Predicate{has(catalog.TraitShampoo), has(catalog.TraitConditioner), has(catalog.TraitHairMask)},
			Member: IsHair,
		},
		{
			ID: "baby", CollectionID: "bundle-baby",
			Title: "Baby & Kids Bundle", Subtitle: "Three products for babies and kids",
			Slots:  three(anyItem),
			Member: IsBaby,
		},
		{
			ID: "men", CollectionID: "bundle-men",
			Title: "Men's Bundle", Subtitle: "Three products for men",
			Slots:  three(anyItem),
			Member: IsMen,
		},
		{
			ID: "acne", CollectionID: "bundle-acne",
			Title: "Acne Bundle", Subtitle: "Three products for acne and blemishes",
			Slots:  three(anyItem),
			Member: IsAcne,
		},
		{
			ID: "face", CollectionID: "bundle-face",
			Title: "Face Bundle", Subtitle: "Cleanser + serum + moisturizer",
			Slots:  []catalog.Predicate{has(catalog.TraitCleanser), has(catalog.TraitSerum), has(catalog.TraitMoisturizer)},
			Member: IsFace,
		},
		{
			ID: "shower", CollectionID: "bundle-shower",
			Title: "Shower Bundle", Subtitle: "Body wash + scrub + one more shower item",
			Slots:  []catalog.Predicate{has(catalog.TraitBodyWash), has(catalog.TraitScrub), anyItem},
			Member: IsShower,
		},
		{
			ID: "body", CollectionID: "bundle-body",
			Title: "Body Bundle", Subtitle: "Body cream + hand or foot cream + one more body item",
			Slots:  []catalog.Predicate{has(catalog.TraitBodyCream), has(catalog.TraitHandFoot), anyItem},
			Member: IsBody,
		},
		{
			ID: "makeup", CollectionID: "bundle-makeup",
			Title: "Makeup Bundle", Subtitle: "Base + primer or blush + lipstick + mascara",
			Slots: []catalog.Predicate{
				has(catalog.TraitBaseMakeup),
				has(catalog.TraitCheek),
				has(catalog.TraitLipstick),
				has(catalog.TraitMascara),
			},
			Member: IsMakeup,
		},
		{
			ID: "nails", CollectionID: "bundle-nails",
			Title: "Nails Bundle", Subtitle: "Three nail care products",
			Slots:  three(anyItem),
			Member: IsNails,
		},
	}
}

// IDs lists the default theme ids in priority order.
func IDs() []string {
	all := Default()
	ids := make([]string, len(all))
	for i, th := range all {
		ids[i] = th.ID
	}
	return ids
}

// Lookup resolves theme ids to definitions in the given order. An empty
// list returns Default().
func Lookup(ids []string) ([]Theme, error) {
	all := Default()
	if len(ids) == 0 {
		return all, nil
	}
	byID := make(map[string]Theme, len(all))
	for _, th := range all {
		byID[th.ID] = th
	}
	out := make([]Theme, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		th, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, th)
	}
	return out, nil
}
