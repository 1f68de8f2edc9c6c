package catalog

import (
	"regexp"
	"strings"
)

// Kind is a coarse product type such as "hair:shampoo". Bundles prefer
// items of distinct kinds so they do not carry two shampoos.
type Kind string

var reRemover = regexp.MustCompile(`remover|acetone`)

type kindRule struct {
	kind  Kind
	match func(p haystack, t Traits) bool
}

func hayMatches(re *regexp.Regexp) func(p haystack, t Traits) bool {
	return func(p haystack, _ Traits) bool { return re.MatchString(p.hay) }
}

func traitAnd(mask Traits, re *regexp.Regexp) func(p haystack, t Traits) bool {
	return func(p haystack, t Traits) bool { return t.Has(mask) && re.MatchString(p.hay) }
}

func traitOnly(mask Traits) func(p haystack, t Traits) bool {
	return func(_ haystack, t Traits) bool { return t.Has(mask) }
}

// kindRules are evaluated in order; the first match wins.
var kindRules = []kindRule{
	{"hair:shampoo", traitOnly(TraitShampoo)},
	{"hair:conditioner", traitOnly(TraitConditioner)},
	{"hair:mask", traitOnly(TraitHairMask)},
	{"hair:dry-shampoo", hayMatches(regexp.MustCompile(`dry shampoo`))},
	{"hair:leave-in", hayMatches(regexp.MustCompile(`leave[- ]?in`))},
	{"hair:oil", traitAnd(TraitHair, regexp.MustCompile(`oil|elixir`))},
	{"hair:styling", traitAnd(TraitHair, regexp.MustCompile(`styling cream|styling|gel|mousse|spray|pomade`))},

	{"face:cleanser", traitAnd(TraitFace, regexp.MustCompile(`cleanser|cleansing|face wash|wash`))},
	{"face:serum", traitOnly(TraitFaceSerum)},
	{"face:cream", traitOnly(TraitFaceCream)},
	{"face:mask", traitOnly(TraitFaceMask)},
	{"face:toner", traitAnd(TraitFace, regexp.MustCompile(`toner|essence|mist`))},
	{"face:sunscreen", traitAnd(TraitFace, regexp.MustCompile(`spf|sunscreen`))},

	{"teeth:toothpaste", traitAnd(TraitTeeth, regexp.MustCompile(`toothpaste`))},
	{"teeth:toothbrush", traitAnd(TraitTeeth, regexp.MustCompile(`toothbrush|tooth brush|brush`))},

	{"body:deodorant", traitAnd(TraitBody, regexp.MustCompile(`deodorant`))},
	{"body:wash", traitAnd(TraitBody, regexp.MustCompile(`body wash|shower gel|soap|wash`))},
	{"body:lotion", traitAnd(TraitBody, regexp.MustCompile(`lotion|body butter|cream|moistur`))},

	{"makeup:lip", traitAnd(TraitMakeup, regexp.MustCompile(`lip|balm|gloss|stick`))},
	{"makeup:mascara", traitAnd(TraitMakeup, regexp.MustCompile(`mascara`))},
	{"makeup:base", traitAnd(TraitMakeup, regexp.MustCompile(`foundation|concealer|tint|bb|cc`))},
	{"makeup:cheek", traitAnd(TraitMakeup, regexp.MustCompile(`blush|bronzer|highlighter`))},
	{"makeup:tool", traitAnd(TraitMakeup, regexp.MustCompile(`brush|sponge|applicator`))},

	{"nails:polish", hayMatches(regexp.MustCompile(`nail polish|polish`))},
	{"nails:remover", func(p haystack, _ Traits) bool {
		return reRemover.MatchString(p.hay) && strings.Contains(p.hay, "nail")
	}},

	{"kids:general", traitOnly(TraitKids)},
}

// InferKind classifies a product whose traits are already known.
func InferKind(name string, categories []string, t Traits) Kind {
	p := newHaystack(name, categories)
	for _, r := range kindRules {
		if r.match(p, t) {
			return r.kind
		}
	}
	if len(categories) > 0 && categories[0] != "" {
		return Kind("other:" + categories[0])
	}
	return "other:other"
}
