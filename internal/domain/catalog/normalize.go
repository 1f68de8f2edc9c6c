package catalog

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// RawOffer is an offer as found in the product feed.
type RawOffer struct {
	Store        string           `json:"store"`
	URL          string           `json:"url"`
	PriceUSD     *decimal.Decimal `json:"priceUSD"`
	FreeShipOver *decimal.Decimal `json:"freeShipOver"`
}

// RawProduct is a product record as found in the product feed.
type RawProduct struct {
	ID             string           `json:"id"`
	Brand          string           `json:"brand"`
	Name           string           `json:"name"`
	Image          string           `json:"image"`
	Categories     []string         `json:"categories"`
	Category       string           `json:"category"`
	Offers         []RawOffer       `json:"offers"`
	FreeShipOver   *decimal.Decimal `json:"freeShipOver"`
	IsLB           *bool            `json:"isLB"`
	LB             *bool            `json:"lb"`
	IsLeapingBunny *bool            `json:"isLeapingBunny"`
	IsPeta         *bool            `json:"isPeta"`
	Peta           *bool            `json:"peta"`
	IsKids         Flag             `json:"isKids"`
	IsMen          Flag             `json:"isMen"`
}

// Flag is a loosely typed boolean: true, 1, "1", "true" and "yes" are set.
type Flag bool

// UnmarshalJSON accepts booleans, numbers and strings.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case bool:
		*f = Flag(x)
	case float64:
		*f = x == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		*f = s == "1" || s == "true" || s == "yes"
	default:
		*f = false
	}
	return nil
}

// NormalizerOptions configures offer eligibility.
type NormalizerOptions struct {
	// FreeShipOver is the exact free-shipping threshold an offer must carry.
	FreeShipOver Cents
	// PreferredStore wins over other stores when it has an eligible offer.
	PreferredStore string
}

// DefaultNormalizerOptions returns the production defaults.
func DefaultNormalizerOptions() NormalizerOptions {
	return NormalizerOptions{
		FreeShipOver:   4900,
		PreferredStore: "amazon-us",
	}
}

// Normalizer converts raw products into Items.
type Normalizer struct {
	brands *BrandIndex
	opts   NormalizerOptions
}

// NewNormalizer creates a normalizer. brands may be nil.
func NewNormalizer(brands *BrandIndex, opts NormalizerOptions) *Normalizer {
	if opts.FreeShipOver == 0 {
		opts.FreeShipOver = DefaultNormalizerOptions().FreeShipOver
	}
	return &Normalizer{brands: brands, opts: opts}
}

// IsPreferredURL reports whether an offer URL belongs to a preferred campaign.
func IsPreferredURL(u string) bool {
	return strings.Contains(strings.ToLower(u), "campaign")
}

// ProductID returns the product id, or brand::name when the feed has none.
func ProductID(p RawProduct) string {
	if p.ID != "" {
		return p.ID
	}
	if p.Brand == "" && p.Name == "" {
		return ""
	}
	return p.Brand + "::" + p.Name
}

// Normalize converts one raw product. It fails when the product has no
// offer at the free-shipping threshold.
func (n *Normalizer) Normalize(p RawProduct) (Item, error) {
	id := ProductID(p)
	if id == "" {
		return Item{}, ErrMissingIdentity
	}

	offer, err := n.pickOffer(p)
	if err != nil {
		return Item{}, errors.Wrapf(err, "product %s", id)
	}

	cats := p.Categories
	if len(cats) == 0 && p.Category != "" {
		cats = []string{p.Category}
	}
	cats = NormalizeCategories(cats)

	traits := Classify(p.Name, cats, bool(p.IsKids), bool(p.IsMen))
	return Item{
		ID:             id,
		Brand:          p.Brand,
		Name:           p.Name,
		Image:          p.Image,
		Categories:     cats,
		Price:          offer.Price,
		Offer:          offer,
		Certifications: n.certifications(p),
		Traits:         traits,
		Kind:           InferKind(p.Name, cats, traits),
	}, nil
}

// NormalizeAll converts every eligible product, skipping ineligible ones and
// later duplicates of an id. It returns the items and the number skipped.
func (n *Normalizer) NormalizeAll(products []RawProduct) ([]Item, int) {
	items := make([]Item, 0, len(products))
	seen := make(map[string]bool, len(products))
	skipped := 0
	for _, p := range products {
		it, err := n.Normalize(p)
		if err != nil || seen[it.ID] {
			skipped++
			continue
		}
		seen[it.ID] = true
		items = append(items, it)
	}
	AssignBrandTiers(items)
	return items, skipped
}

func (n *Normalizer) pickOffer(p RawProduct) (Offer, error) {
	var preferredStore, others []Offer
	for _, o := range p.Offers {
		if o.URL == "" || o.PriceUSD == nil {
			continue
		}
		fs := o.FreeShipOver
		if fs == nil {
			fs = p.FreeShipOver
		}
		if fs == nil || FromDecimal(*fs) != n.opts.FreeShipOver {
			continue
		}
		price := FromDecimal(*o.PriceUSD)
		if price < 0 {
			return Offer{}, ErrInvalidPrice
		}
		offer := Offer{
			Store:        o.Store,
			URL:          o.URL,
			Price:        price,
			FreeShipOver: n.opts.FreeShipOver,
			Preferred:    IsPreferredURL(o.URL),
		}
		if n.opts.PreferredStore != "" && o.Store == n.opts.PreferredStore {
			preferredStore = append(preferredStore, offer)
		}
		others = append(others, offer)
	}

	if best, ok := bestOffer(preferredStore); ok {
		return best, nil
	}
	if best, ok := bestOffer(others); ok {
		return best, nil
	}
	return Offer{}, ErrNoEligibleOffer
}

// bestOffer picks preferred-source offers first, then the cheapest.
func bestOffer(offers []Offer) (Offer, bool) {
	if len(offers) == 0 {
		return Offer{}, false
	}
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].Preferred != offers[j].Preferred {
			return offers[i].Preferred
		}
		return offers[i].Price < offers[j].Price
	})
	return offers[0], true
}

func (n *Normalizer) certifications(p RawProduct) Certifications {
	c := n.brands.Find(p.Brand).Certifications()
	if v := firstSet(p.IsLB, p.LB, p.IsLeapingBunny); v != nil {
		c.LeapingBunny = *v
	}
	if v := firstSet(p.IsPeta, p.Peta); v != nil {
		c.Peta = *v
	}
	return c
}

func firstSet(vals ...*bool) *bool {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
