package catalog

import (
	"strings"
)

var categoryAliases = map[string]string{
	"fragrances": "fragrance",
	"perfume":    "fragrance",
	"perfumes":   "fragrance",
	"frag":       "fragrance",

	"cosmetics": "makeup",
	"cosmetic":  "makeup",

	"skincare": "face",
	"skin":     "face",

	"oral":   "teeth",
	"dental": "teeth",

	"suncare":   "sun",
	"sunscreen": "sun",
	"spf":       "sun",

	"haircare":   "hair",
	"hair-care":  "hair",
	"hair mask":  "hair-mask",
	"hairmask":   "hair-mask",
	"scalp mask": "hair-mask",

	"face mask":  "mask",
	"face-mask":  "mask",
	"facemask":   "mask",
	"sheet mask": "mask",
	"sheet-mask": "mask",

	"mens":     "mens-care",
	"men":      "mens-care",
	"men's":    "mens-care",
	"grooming": "mens-care",

	"kids":     "baby",
	"kid":      "baby",
	"children": "baby",
	"child":    "baby",
	"toddler":  "baby",
	"family":   "baby",

	"bodycare":  "body",
	"body-care": "body",
}

// NormalizeCategory lowercases a category and maps known aliases.
func NormalizeCategory(c string) string {
	s := strings.ToLower(strings.TrimSpace(c))
	if alias, ok := categoryAliases[s]; ok {
		return alias
	}
	return s
}

// NormalizeCategories normalizes every category and drops empty values.
func NormalizeCategories(cats []string) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		if n := NormalizeCategory(c); n != "" {
			out = append(out, n)
		}
	}
	return out
}
