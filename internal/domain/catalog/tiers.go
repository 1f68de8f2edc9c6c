package catalog

import (
	"sort"
	"strings"
)

const unbrandedKey = "(unbranded)"

// AssignBrandTiers sets BrandTier 1..5 on every item by the quintile of its
// brand's average price among all brands.
func AssignBrandTiers(items []Item) {
	type agg struct {
		sum   Cents
		count int
	}
	byBrand := make(map[string]*agg)
	brandOf := func(it Item) string {
		b := strings.TrimSpace(it.Brand)
		if b == "" {
			return unbrandedKey
		}
		return b
	}
	for _, it := range items {
		b := brandOf(it)
		a, ok := byBrand[b]
		if !ok {
			a = &agg{}
			byBrand[b] = a
		}
		a.sum += it.Price
		a.count++
	}
	if len(byBrand) == 0 {
		return
	}

	type brandAvg struct {
		brand string
		avg   float64
	}
	avgs := make([]brandAvg, 0, len(byBrand))
	for b, a := range byBrand {
		avgs = append(avgs, brandAvg{brand: b, avg: float64(a.sum) / float64(a.count)})
	}
	sort.Slice(avgs, func(i, j int) bool {
		if avgs[i].avg != avgs[j].avg {
			return avgs[i].avg < avgs[j].avg
		}
		return avgs[i].brand < avgs[j].brand
	})

	pct := func(p float64) float64 {
		return avgs[int(float64(len(avgs)-1)*p)].avg
	}
	cuts := []float64{pct(0.20), pct(0.40), pct(0.60), pct(0.80)}

	tier := make(map[string]int, len(avgs))
	for _, a := range avgs {
		t := 5
		for i, cut := range cuts {
			if a.avg <= cut {
				t = i + 1
				break
			}
		}
		tier[a.brand] = t
	}
	for i := range items {
		items[i].BrandTier = tier[brandOf(items[i])]
	}
}
