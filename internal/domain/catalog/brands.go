package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Brand is an entry of the brand directory.
type Brand struct {
	Name    string   `json:"name"`
	Website string   `json:"website,omitempty"`
	Site    string   `json:"site,omitempty"`
	Badges  []string `json:"badges,omitempty"`
}

// Certifications derives badge flags from the brand's badge list.
func (b *Brand) Certifications() Certifications {
	var c Certifications
	if b == nil {
		return c
	}
	for _, badge := range b.Badges {
		switch strings.ToLower(strings.TrimSpace(badge)) {
		case "leaping bunny", "leapingbunny":
			c.LeapingBunny = true
		case "peta":
			c.Peta = true
		}
	}
	return c
}

var (
	reBrandKeyStrip = regexp.MustCompile(`[^a-z0-9\x{0590}-\x{05FF}]+`)
	brandSuffixes   = []string{"beauty", "cosmetics", "skincare", "skinc", "skin", "care", "company", "co", "labs", "lab"}
)

// BrandKey folds a brand name to a comparison key: no diacritics,
// lowercase, "&" spelled "and", alphanumerics only.
func BrandKey(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ReplaceAll(strings.ToLower(folded), "&", "and")
	return reBrandKeyStrip.ReplaceAllString(folded, "")
}

type brandEntry struct {
	key   string
	brand *Brand
}

// BrandIndex resolves product brand names to directory entries.
type BrandIndex struct {
	byKey map[string]*Brand
	list  []brandEntry
}

// NewBrandIndex indexes brands by key and by key with common suffixes removed.
func NewBrandIndex(brands []Brand) *BrandIndex {
	idx := &BrandIndex{byKey: make(map[string]*Brand)}
	for i := range brands {
		b := &brands[i]
		name := b.Name
		if name == "" {
			name = b.Website
		}
		if name == "" {
			name = b.Site
		}
		k := BrandKey(name)
		if k == "" {
			continue
		}
		if _, ok := idx.byKey[k]; !ok {
			idx.byKey[k] = b
		}
		idx.list = append(idx.list, brandEntry{key: k, brand: b})

		for _, suf := range brandSuffixes {
			if len(k) > len(suf)+3 && strings.HasSuffix(k, suf) {
				short := strings.TrimSuffix(k, suf)
				if _, ok := idx.byKey[short]; !ok {
					idx.byKey[short] = b
				}
			}
		}
	}
	return idx
}

// Find returns the brand matching name exactly by key, or for keys of five
// or more characters the closest containing key. Nil when nothing matches.
func (idx *BrandIndex) Find(name string) *Brand {
	if idx == nil {
		return nil
	}
	k := BrandKey(name)
	if k == "" {
		return nil
	}
	if b, ok := idx.byKey[k]; ok {
		return b
	}
	if len(k) < 5 {
		return nil
	}

	var best *Brand
	bestScore := -1
	for _, e := range idx.list {
		if !strings.HasPrefix(k, e.key) && !strings.Contains(e.key, k) {
			continue
		}
		score := len(e.key) - len(k)
		if score < 0 {
			score = -score
		}
		if bestScore < 0 || score < bestScore {
			best = e.brand
			bestScore = score
		}
	}
	return best
}

// Len returns the number of indexed brands.
func (idx *BrandIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.list)
}
