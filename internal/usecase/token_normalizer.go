package usecase

import (
	"log"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

// Model code shapes seen in retailer titles, most specific first so a
// hyphenated SKU is claimed whole before its prefix can match alone.
var modelCodeRegexes = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z]\d{2}[A-Z]{2,}[-_]\d{3,}[A-Z]*\b`), // B13WFKG-687XES
	regexp.MustCompile(`\b[A-Z]{2,}\d{2,}[-_][A-Z0-9]{2,}\b`),     // ANV15-51
	regexp.MustCompile(`\b[A-Z]\d{2}[A-Z]{2,}\d*\b`),              // B13VFK
	regexp.MustCompile(`\b[A-Z]{2,}\d{3,}[A-Z]*\b`),               // WH1000XM5
	regexp.MustCompile(`\b\d{3,}[A-Z]+\d*\b`),                     // 274F, 687XES
	regexp.MustCompile(`\b[A-Z]{1,2}\d{2,4}\b`),                   // S24, G502
}

var tokenRegex = regexp.MustCompile(`[a-z0-9]+`)

// titleFolder lowercases and strips diacritics so "económico" and
// "Economico" tokenize identically.
var titleFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldText(s string) string {
	folded, _, err := transform.String(titleFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Spanish and English filler words that carry no product identity.
var stopWords = map[string]bool{
	// Spanish
	"de": true, "la": true, "el": true, "en": true, "con": true,
	"para": true, "por": true, "los": true, "las": true, "del": true,
	"un": true, "una": true, "al": true, "mas": true, "muy": true,
	"su": true, "mi": true, "tu": true, "este": true, "esta": true,
	"envio": true, "gratis": true, "oferta": true, "ofertas": true,
	"precio": true, "precios": true, "comprar": true, "compra": true,
	"mejor": true, "mejores": true, "nuevo": true, "nueva": true,
	"barato": true, "barata": true, "rebaja": true, "rebajas": true,
	"descuento": true, "tienda": true, "online": true,
	// English
	"the": true, "and": true, "with": true, "for": true, "new": true,
	"free": true, "best": true, "buy": true, "sale": true, "off": true,
	"offer": true, "shipping": true, "price": true, "from": true,
}

// TokenNormalizer turns a raw listing title into the canonical token set
// the matcher scores on.
type TokenNormalizer struct {
	registry *BrandRegistry
	debug    bool
}

func NewTokenNormalizer(registry *BrandRegistry, debug bool) *TokenNormalizer {
	if registry == nil {
		registry = DefaultBrandRegistry()
	}
	return &TokenNormalizer{registry: registry, debug: debug}
}

// Normalize extracts model codes from the raw title, folds and tokenizes
// the rest, drops stop words and single-character tokens, resolves the
// brand, and removes brand and model-code fragments from the descriptive
// token set.
func (n *TokenNormalizer) Normalize(title string) domain.TokenSet {
	codes := extractModelCodes(title)

	codeParts := make(map[string]bool)
	for _, code := range codes {
		for _, part := range tokenRegex.FindAllString(strings.ToLower(code), -1) {
			codeParts[part] = true
		}
	}

	raw := tokenRegex.FindAllString(foldText(title), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < 2 || stopWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}

	brand, consumed := n.registry.Resolve(tokens)
	consumedSet := make(map[int]bool, len(consumed))
	for _, idx := range consumed {
		consumedSet[idx] = true
	}

	descriptive := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for i, tok := range tokens {
		if consumedSet[i] || codeParts[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		descriptive = append(descriptive, tok)
	}

	ts := domain.TokenSet{Brand: brand, ModelCodes: codes, Tokens: descriptive}
	if n.debug {
		log.Printf("[NORMALIZE] %q -> brand=%q codes=%v tokens=%v", title, ts.Brand, ts.ModelCodes, ts.Tokens)
	}
	return ts
}

// Merge overlays LLM-extracted attributes onto a heuristic token set.
// Brand and model override the regex-derived values when present; keywords
// are appended to the descriptive tokens without duplicates.
func (n *TokenNormalizer) Merge(ts domain.TokenSet, attrs *domain.TitleAttributes) domain.TokenSet {
	if attrs == nil {
		return ts
	}
	if brand := strings.TrimSpace(attrs.Brand); brand != "" {
		ts.Brand = foldText(brand)
	}
	if model := strings.TrimSpace(attrs.Model); model != "" {
		ts.ModelCodes = []string{strings.ToUpper(model)}
	}
	if len(attrs.Keywords) > 0 {
		seen := make(map[string]bool, len(ts.Tokens))
		for _, tok := range ts.Tokens {
			seen[tok] = true
		}
		for _, kw := range attrs.Keywords {
			for _, tok := range tokenRegex.FindAllString(foldText(kw), -1) {
				if len(tok) < 2 || stopWords[tok] || seen[tok] {
					continue
				}
				seen[tok] = true
				ts.Tokens = append(ts.Tokens, tok)
			}
		}
	}
	return ts
}

// extractModelCodes collects non-overlapping code matches in pattern
// priority order, preserving their order of appearance in the title.
func extractModelCodes(title string) []string {
	upper := strings.ToUpper(title)
	type span struct{ start, end int }
	var claimed []span
	type hit struct {
		start int
		code  string
	}
	var hits []hit

	overlaps := func(start, end int) bool {
		for _, c := range claimed {
			if start < c.end && end > c.start {
				return true
			}
		}
		return false
	}

	for _, re := range modelCodeRegexes {
		for _, m := range re.FindAllStringIndex(upper, -1) {
			if overlaps(m[0], m[1]) {
				continue
			}
			claimed = append(claimed, span{m[0], m[1]})
			hits = append(hits, hit{m[0], upper[m[0]:m[1]]})
		}
	}

	if len(hits) == 0 {
		return nil
	}

	// Pattern priority decided claims; appearance order decides output.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].start < hits[j-1].start; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	codes := make([]string, len(hits))
	for i, h := range hits {
		codes[i] = h.code
	}
	return codes
}
