// Package bundle defines the containers items live in: themed and custom
// collections, the leftover pool, and the price window they are held to.
package bundle

import (
	"github.com/eshaffer321/bundlebuilder/internal/domain/catalog"
)

// Window is the price and size range a themed collection must satisfy.
type Window struct {
	Min      catalog.Cents
	Max      catalog.Cents
	Target   catalog.Cents
	MinItems int
	MaxItems int
}

// DefaultWindow is the free-shipping window: $49 to $65, 3 to 25 items.
func DefaultWindow() Window {
	return Window{
		Min:      4900,
		Max:      6500,
		Target:   5700,
		MinItems: 3,
		MaxItems: 25,
	}.Normalize()
}

// Normalize swaps inverted bounds and defaults Target to the midpoint.
func (w Window) Normalize() Window {
	if w.Min > w.Max {
		w.Min, w.Max = w.Max, w.Min
	}
	if w.Min < 0 {
		w.Min = 0
	}
	if w.Target < w.Min || w.Target > w.Max {
		w.Target = (w.Min + w.Max) / 2
	}
	if w.MinItems < 1 {
		w.MinItems = 1
	}
	if w.MaxItems < w.MinItems {
		w.MaxItems = w.MinItems
	}
	return w
}

// Contains reports whether total lies within [Min, Max].
func (w Window) Contains(total catalog.Cents) bool {
	return total >= w.Min && total <= w.Max
}

// Budget is the optional price range of the custom collection.
type Budget struct {
	Min    catalog.Cents `json:"min"`
	Max    catalog.Cents `json:"max"`
	Capped bool          `json:"capped"`
}

// NewBudget builds a budget; a nil max means uncapped. Inverted bounds are swapped.
func NewBudget(lo catalog.Cents, hi *catalog.Cents) Budget {
	if hi == nil {
		return Budget{Min: lo}
	}
	b := Budget{Min: lo, Max: *hi, Capped: true}
	if b.Min > b.Max {
		b.Min, b.Max = b.Max, b.Min
	}
	return b
}

// Allows reports whether total stays within the cap.
func (b Budget) Allows(total catalog.Cents) bool {
	return !b.Capped || total <= b.Max
}
