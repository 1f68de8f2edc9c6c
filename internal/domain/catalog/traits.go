package catalog

import (
	"regexp"
	"strings"
)

// Traits is a bit set of classification flags computed once per Item.
type Traits uint64

const (
	TraitKids Traits = 1 << iota
	TraitMen
	TraitMakeup
	TraitHair
	TraitShampoo
	TraitConditioner
	TraitHairMask
	TraitFace
	TraitFaceCream
	TraitFaceSerum
	TraitFaceMask
	TraitBody
	TraitTeeth
	TraitAcne
	TraitShower
	TraitBodyCare
	TraitNails

	// Slot roles used by the themed bundles.
	TraitLipstick
	TraitMascara
	TraitCheek
	TraitBaseMakeup
	TraitCleanser
	TraitSerum
	TraitMoisturizer
	TraitBodyWash
	TraitScrub
	TraitBodyCream
	TraitHandFoot
)

var traitNames = []struct {
	t    Traits
	name string
}{
	{TraitKids, "kids"},
	{TraitMen, "men"},
	{TraitMakeup, "makeup"},
	{TraitHair, "hair"},
	{TraitShampoo, "shampoo"},
	{TraitConditioner, "conditioner"},
	{TraitHairMask, "hair-mask"},
	{TraitFace, "face"},
	{TraitFaceCream, "face-cream"},
	{TraitFaceSerum, "face-serum"},
	{TraitFaceMask, "face-mask"},
	{TraitBody, "body"},
	{TraitTeeth, "teeth"},
	{TraitAcne, "acne"},
	{TraitShower, "shower"},
	{TraitBodyCare, "body-care"},
	{TraitNails, "nails"},
	{TraitLipstick, "lipstick"},
	{TraitMascara, "mascara"},
	{TraitCheek, "cheek"},
	{TraitBaseMakeup, "base-makeup"},
	{TraitCleanser, "cleanser"},
	{TraitSerum, "serum"},
	{TraitMoisturizer, "moisturizer"},
	{TraitBodyWash, "body-wash"},
	{TraitScrub, "scrub"},
	{TraitBodyCream, "body-cream"},
	{TraitHandFoot, "hand-foot"},
}

// Has reports whether all bits of mask are set.
func (t Traits) Has(mask Traits) bool {
	return t&mask == mask
}

// Any reports whether at least one bit of mask is set.
func (t Traits) Any(mask Traits) bool {
	return t&mask != 0
}

// Names lists the set traits in declaration order.
func (t Traits) Names() []string {
	var out []string
	for _, tn := range traitNames {
		if t.Has(tn.t) {
			out = append(out, tn.name)
		}
	}
	return out
}

func (t Traits) String() string {
	return strings.Join(t.Names(), ",")
}

var (
	reKidsHe = regexp.MustCompile(`ילדים|לילדים|ילד|לתינוק|תינוק|בייבי`)
	reKidsEn = regexp.MustCompile(`(?i)\bkids?\b|\bbaby\b|\btoddler\b`)
	reMenEn  = regexp.MustCompile(`(?i)\bmen\b|\bmens\b|men's`)
	reMenHe  = regexp.MustCompile(`גברים|לגבר|לגברים`)
	reMakeup = regexp.MustCompile(`(?i)\bmakeup\b|\blip\b|\blipstick\b|\bgloss\b|\bmascara\b|\beyeshadow\b|\bblush\b|\bfoundation\b|\bconcealer\b|\bbrow\b|\bbronzing\b|\bbronzer\b|\bhighlighter\b|\btint(ed)?\b`)

	reHairEn  = regexp.MustCompile(`(?i)\bhair\b|\bscalp\b|\bshampoo\b|\bconditioner\b`)
	reHairHe  = regexp.MustCompile(`שמפו|מרכך|שיער|קרקפת`)
	reShampoo = regexp.MustCompile(`(?i)\bshampoo\b|שמפו`)
	reCondit  = regexp.MustCompile(`(?i)\bconditioner\b|מרכך`)

	reMaskAny        = regexp.MustCompile(`(?i)\bmask\b|\bmasque\b|מסכה`)
	reHairMaskStrong = regexp.MustCompile(`(?i)\bhair\s*mask\b|\bscalp\s*mask\b|\bcondition(ing)?\s*mask\b|\bdeep\s*conditioning\b|\bmask\s*(for|to)\s*hair\b|מסכת\s*שיער|מסכה\s*לשיער|מסכה\s*לקרקפת`)
	reFaceMaskStrong = regexp.MustCompile(`(?i)\bface\s*mask\b|\bfacial\s*mask\b|\bsheet\s*mask\b|\bclay\s*mask\b|\bmud\s*mask\b|\bpeel[- ]?off\b|\bsleeping\s*mask\b|\bcharcoal\b|\bpore\b|\bacne\b|מסכת\s*פנים|מסכה\s*לפנים`)
	reHairCtx        = regexp.MustCompile(`(?i)\bhair\b|\bscalp\b|\bshampoo\b|\bconditioner\b|\bstyling\b|\bcurl\b|\bkeratin\b|\bbond\b|\bsplit\s*end\b|שיער|קרקפת|שמפו|מרכך|תלתל|קרטין`)
	reFaceCtx        = regexp.MustCompile(`(?i)\bface\b|\bfacial\b|\bskin\b|\bskincare\b|\bserum\b|\btoner\b|\bcleanser\b|\bmoisturi[sz]er\b|\bcream\b|פנים|עור|סרום|טונר|קרם\s*פנים`)

	reFace      = regexp.MustCompile(`(?i)\bface\b|פנים`)
	reFaceCream = regexp.MustCompile(`(?i)\bcream\b|\bmoisturizer\b`)
	reFaceSerum = regexp.MustCompile(`(?i)\bserum\b`)

	reBodyEn = regexp.MustCompile(`(?i)\bbody\b|\bsoap\b|\bdeodorant\b|\bwash\b|\bbath\b|\bshower\b|\blotion\b|\bhand\b|\bfoot\b`)
	reBodyHe = regexp.MustCompile(`גוף|סבון|רחצה|מקלחת|דאודורנט|קרם גוף|קרם ידיים|קרם רגליים`)
	reTeeth  = regexp.MustCompile(`(?i)\btooth\b|\bteeth\b|\bdental\b|\bfloss\b|\bmouth\b|\bwhiten\b|\btoothpaste\b`)

	reAcneEn = regexp.MustCompile(`(?i)\bacne\b|\bblemish\b|\bpimple\b|\bblackhead\b|\bwhitehead\b|\bsalicylic\b|\bbenzoyl\b|\bazelaic\b|\badapalene\b|\bniacinamide\b`)
	reAcneHe = regexp.MustCompile(`אקנה|פצעונים|פצעון|שחורים|לבנים|חומצה\s*סליצילית|בנזואיל|אזלאית|אדפאלן|ניאצינאמיד|מדבקות\s*לפצעונים`)

	reShowerEn = regexp.MustCompile(`(?i)\b(body\s*wash|shower\s*gel|soap|bath|scrub|exfoliant|deodorant|shave)\b`)
	reShowerHe = regexp.MustCompile(`סבון|רחצה|מקלחת|ג'?\s*ל\s*רחצה|פילינג|סקראב|דאודורנט|גילוח`)
	reBodyCare = regexp.MustCompile(`(?i)\b(body\s*(cream|lotion|butter|oil)|hand\s*cream|foot\s*cream)\b|קרם\s*גוף|תחליב\s*גוף|חמאת\s*גוף|שמן\s*גוף|קרם\s*ידיים|קרם\s*רגליים`)
	reNails    = regexp.MustCompile(`(?i)\bnail\b|\bnails\b|\bgel\s*polish\b|\bbase\s*coat\b|\btop\s*coat\b|\bcuticle\b|ציפורניים|לק\s*ג'?ל|לק|קוטיקולה|מנורת\s*uv|מנורת\s*led`)

	reLipstick    = regexp.MustCompile(`(?i)lipstick|gloss|lip\b|שפתון|ליפסטיק|גלוס`)
	reMascara     = regexp.MustCompile(`(?i)mascara|lash|eyeliner|מסקרה|ריסים|אייליינר`)
	reCheek       = regexp.MustCompile(`(?i)primer|blush|shimmer|highlighter|bronzer|פריימר|סומק|שימר|היילייטר|ברונזר`)
	reBaseMakeup  = regexp.MustCompile(`(?i)foundation|concealer|powder|eyeshadow|palette|מייקאפ|פאודר|קונסילר|צלליות|פלטה`)
	reCleanser    = regexp.MustCompile(`(?i)\b(cleanser|face\s*wash|facial\s*wash)\b|ג'?\s*ל\s*ניקוי|ניקוי\s*פנים|סבון\s*פנים|קלינסר`)
	reSerum       = regexp.MustCompile(`(?i)\bserum\b|סרום`)
	reSunscreen   = regexp.MustCompile(`(?i)\bspf\b|sunscreen|קרם\s*הגנה`)
	reMoisturizer = regexp.MustCompile(`(?i)\b(moisturi[sz]er|cream)\b|קרם\s*לחו?ת|קרם\s*פנים|לחות`)
	reBodyWash    = regexp.MustCompile(`(?i)\b(body\s*wash|shower\s*gel|soap|bath)\b|סבון|רחצה|מקלחת|ג'?\s*ל\s*רחצה|קצף\s*אמבט`)
	reScrub       = regexp.MustCompile(`(?i)\b(scrub|exfoliant|peeling)\b|פילינג|סקראב|אקספוליאנט`)
	reBodyCream   = regexp.MustCompile(`(?i)\b(body\s*(cream|lotion|butter)|lotion|body\s*butter)\b|קרם\s*גוף|תחליב\s*גוף|חמאת\s*גוף`)
	reHandFoot    = regexp.MustCompile(`(?i)\bhand\s*cream\b|\bfoot\s*cream\b|קרם\s*ידיים|קרם\s*רגליים`)
)

// haystack is the text view of a product that classification reads.
type haystack struct {
	name string
	hay  string
	cats map[string]bool
}

func newHaystack(name string, categories []string) haystack {
	p := haystack{
		name: name,
		hay:  strings.ToLower(name + " " + strings.Join(categories, " ")),
		cats: make(map[string]bool, len(categories)),
	}
	for _, c := range categories {
		p.cats[c] = true
	}
	return p
}

func (p haystack) hasCat(cats ...string) bool {
	for _, c := range cats {
		if p.cats[c] {
			return true
		}
	}
	return false
}

// maskKind resolves whether a mask product belongs to hair, face or body.
// Empty means the product is not a mask or is ambiguous.
func (p haystack) maskKind() string {
	if !p.hasCat("mask") && !reMaskAny.MatchString(p.hay) {
		return ""
	}
	switch {
	case p.hasCat("face"):
		return "face"
	case p.hasCat("body", "hand", "foot"):
		return "body"
	case p.hasCat("hair", "shampoo", "conditioner", "hair-mask", "scalp", "styling"):
		return "hair"
	case reHairMaskStrong.MatchString(p.hay):
		return "hair"
	case reFaceMaskStrong.MatchString(p.hay):
		return "face"
	}
	hairCtx := reHairCtx.MatchString(p.hay)
	faceCtx := reFaceCtx.MatchString(p.hay)
	switch {
	case hairCtx && !faceCtx:
		return "hair"
	case faceCtx && !hairCtx:
		return "face"
	}
	return ""
}

// Classify evaluates every classification heuristic for a product.
// kidsFlag and menFlag carry explicit audience flags from the source record.
func Classify(name string, categories []string, kidsFlag, menFlag bool) Traits {
	p := newHaystack(name, categories)
	var t Traits
	set := func(flag Traits, ok bool) {
		if ok {
			t |= flag
		}
	}

	set(TraitKids, kidsFlag || reKidsHe.MatchString(p.name) || reKidsEn.MatchString(p.name) || p.hasCat("baby", "kids"))
	cats := strings.Join(categories, " ")
	set(TraitMen, menFlag || p.hasCat("mens-care", "men", "mens") ||
		reMenEn.MatchString(p.name) || reMenHe.MatchString(p.name) ||
		reMenEn.MatchString(cats) || reMenHe.MatchString(cats))
	set(TraitMakeup, p.hasCat("makeup", "cosmetics") || reMakeup.MatchString(p.name))

	mask := p.maskKind()
	set(TraitShampoo, p.hasCat("shampoo") || reShampoo.MatchString(p.name))
	set(TraitConditioner, p.hasCat("conditioner") || reCondit.MatchString(p.name))
	set(TraitHairMask, p.hasCat("hair-mask") || mask == "hair")
	set(TraitHair, p.hasCat("hair", "shampoo", "conditioner", "hair-mask", "scalp", "styling") ||
		reHairEn.MatchString(p.hay) || reHairHe.MatchString(p.hay) || mask == "hair")

	face := p.hasCat("face") || reFace.MatchString(p.name)
	set(TraitFace, face)
	set(TraitFaceCream, face && (p.hasCat("moisturizer", "cream") || reFaceCream.MatchString(p.name)))
	set(TraitFaceSerum, face && (p.hasCat("serum") || reFaceSerum.MatchString(p.name)))
	set(TraitFaceMask, mask == "face")

	set(TraitBody, p.hasCat("body", "soap", "bath", "shower", "body-wash", "lotion", "deodorant", "hand", "foot") ||
		reBodyEn.MatchString(p.name) || reBodyHe.MatchString(p.name))
	set(TraitTeeth, p.hasCat("teeth", "oral") || reTeeth.MatchString(p.name))

	acne := reAcneEn.MatchString(p.hay) || reAcneHe.MatchString(p.hay)
	for _, c := range categories {
		if strings.Contains(c, "acne") || strings.Contains(c, "blemish") {
			acne = true
		}
	}
	set(TraitAcne, acne)

	set(TraitShower, p.hasCat("soap", "bath", "shower", "body-wash", "scrub", "exfoliant", "peeling", "deodorant", "shave", "razor") ||
		reShowerEn.MatchString(p.hay) || reShowerHe.MatchString(p.hay))
	set(TraitBodyCare, p.hasCat("lotion", "cream", "butter", "body-cream", "body-oil", "hand", "foot") ||
		reBodyCare.MatchString(p.hay))
	set(TraitNails, p.hasCat("nails", "nail", "gel", "gel-polish", "polish", "cuticle") || reNails.MatchString(p.hay))

	set(TraitLipstick, p.hasCat("lipstick", "lips", "gloss") || reLipstick.MatchString(p.name))
	set(TraitMascara, p.hasCat("mascara", "eyes") || reMascara.MatchString(p.name))
	set(TraitCheek, p.hasCat("primer", "blush", "shimmer", "highlighter", "bronzer") || reCheek.MatchString(p.name))
	set(TraitBaseMakeup, p.hasCat("foundation", "concealer", "powder", "eyeshadow", "palette") ||
		reBaseMakeup.MatchString(p.name) || t.Has(TraitMakeup))
	set(TraitCleanser, p.hasCat("cleanser") || reCleanser.MatchString(p.hay))
	set(TraitSerum, p.hasCat("serum") || reSerum.MatchString(p.hay))
	set(TraitMoisturizer, !reSunscreen.MatchString(p.hay) &&
		(p.hasCat("moisturizer", "cream") || reMoisturizer.MatchString(p.hay)))
	set(TraitBodyWash, p.hasCat("soap", "bath", "shower", "body-wash") || reBodyWash.MatchString(p.hay))
	set(TraitScrub, p.hasCat("scrub", "exfoliant", "peeling") || reScrub.MatchString(p.hay))
	set(TraitBodyCream, p.hasCat("lotion", "body-cream", "cream", "butter") || reBodyCream.MatchString(p.hay))
	set(TraitHandFoot, p.hasCat("hand", "foot") || reHandFoot.MatchString(p.hay))

	return t
}
