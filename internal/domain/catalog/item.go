// Package catalog normalizes raw product records into engine Items.
//
// Normalization is the only place where free text is inspected: category
// aliases, offer choice, certification badges, coarse kind and every theme
// or slot heuristic are resolved once here and cached on the Item. The
// allocation engine only reads the cached values.
package catalog

// Certifications holds cruelty-free badges resolved for an item.
type Certifications struct {
	LeapingBunny bool `json:"leaping_bunny"`
	Peta         bool `json:"peta"`
}

// Offer is the single purchasable offer chosen for an item.
type Offer struct {
	Store        string `json:"store"`
	URL          string `json:"url"`
	Price        Cents  `json:"price"`
	FreeShipOver Cents  `json:"free_ship_over"`
	Preferred    bool   `json:"preferred"`
}

// Item is a normalized, priced product eligible for bundling.
type Item struct {
	ID             string         `json:"id"`
	Brand          string         `json:"brand"`
	Name           string         `json:"name"`
	Image          string         `json:"image,omitempty"`
	Categories     []string       `json:"categories"`
	Price          Cents          `json:"price"`
	Offer          Offer          `json:"offer"`
	Certifications Certifications `json:"certifications"`
	Traits         Traits         `json:"traits"`
	Kind           Kind           `json:"kind"`
	BrandTier      int            `json:"brand_tier,omitempty"`
}

// Preferred reports whether the item's offer comes from a preferred source.
func (i Item) Preferred() bool {
	return i.Offer.Preferred
}

// Has reports whether every trait in t is set on the item.
func (i Item) Has(t Traits) bool {
	return i.Traits.Has(t)
}

// Predicate selects items by their cached classification.
type Predicate func(Item) bool

// And combines predicates; the result matches only when all of them match.
func And(preds ...Predicate) Predicate {
	return func(it Item) bool {
		for _, p := range preds {
			if !p(it) {
				return false
			}
		}
		return true
	}
}

// Total sums item prices.
func Total(items []Item) Cents {
	var t Cents
	for _, it := range items {
		t += it.Price
	}
	return t
}

// PreferredCount counts items whose offer is from a preferred source.
func PreferredCount(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Preferred() {
			n++
		}
	}
	return n
}

// IDs returns the item IDs in order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
