package usecase

import (
	"log"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

// Currency is fixed for the whole pipeline; the rank-checker export only
// carries euro prices.
const Currency = "EUR"

// Price patterns in priority order of unambiguous match. When both
// separators appear the rightmost one is decimal, which is exactly what the
// Spanish and US patterns encode. Later patterns only claim text the earlier
// ones did not.
var (
	// "1.299,00 €" — thousands dot, decimal comma
	spanishPriceRegex = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})+),(\d{2})\s*€`)
	// "1,299.00 €" — thousands comma, decimal dot
	usPriceRegex = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+)\.(\d{2})\s*€`)
	// "599,99 €" / "599.99 €" — single separator, two trailing digits
	simpleCommaRegex = regexp.MustCompile(`(\d{1,4}),(\d{2})\s*€`)
	simpleDotRegex   = regexp.MustCompile(`(\d{1,4})\.(\d{2})\s*€`)
	// "1.299 €" — single separator, three trailing digits: thousands only
	thousandsOnlyRegex = regexp.MustCompile(`(\d{1,3})[.,](\d{3})\s*€`)
	// "94900 €" — five or more digits and no separator encode cents
	centsRegex = regexp.MustCompile(`(\d{5,6})\s*€`)
	// "599 €" — plain integer euros; group 2 is the amount
	integerPriceRegex = regexp.MustCompile(`(^|[^.,\d])(\d{1,4})\s*€`)

	offerMarkerRegex = regexp.MustCompile(`(?i)oferta|offer`)

	// whole-string forms for bare tokens that carry no currency symbol
	bareSpanishRegex   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+,\d{2}$`)
	bareUSRegex        = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+\.\d{2}$`)
	bareSimpleRegex    = regexp.MustCompile(`^\d{1,4}[.,]\d{2}$`)
	bareThousandsRegex = regexp.MustCompile(`^\d{1,3}[.,]\d{3}$`)
	bareIntegerRegex   = regexp.MustCompile(`^\d+$`)
)

// centsThreshold: a bare integer at or above this value cannot be a sane
// euro amount in this domain, so it is read as cents.
const centsThreshold = 10000

// PriceParser turns raw price text into a normalized ParsedPrice.
// Stateless and safe for concurrent use.
type PriceParser struct {
	debug bool
}

// NewPriceParser creates a price parser.
func NewPriceParser(debug bool) *PriceParser {
	return &PriceParser{debug: debug}
}

// priceMatch is one amount found in the text, with its source position so
// offer encodings keep their current-then-original order.
type priceMatch struct {
	value float64
	start int
}

// Parse extracts the price (and, for offers, the struck-through original)
// from raw text. Returns domain.ErrUnparsablePrice when no amount is found
// and domain.ErrMalformedOffer when a marked offer has its current price at
// or above the original. Callers treat both as "row without price".
func (p *PriceParser) Parse(raw string) (domain.ParsedPrice, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return domain.ParsedPrice{}, domain.ErrUnparsablePrice
	}

	var matches []priceMatch
	if strings.ContainsRune(text, '€') {
		matches = p.findPrices(text)
	} else if v, ok := parseBareToken(text); ok {
		matches = []priceMatch{{value: v}}
	}

	if len(matches) == 0 {
		return domain.ParsedPrice{}, domain.ErrUnparsablePrice
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	// Deduplicate values, keeping first-occurrence order.
	seen := make(map[float64]bool, len(matches))
	values := make([]float64, 0, len(matches))
	for _, m := range matches {
		if !seen[m.value] {
			seen[m.value] = true
			values = append(values, m.value)
		}
	}

	if p.debug {
		log.Printf("[PRICE] %q -> %v", raw, values)
	}

	if len(values) == 1 {
		return domain.ParsedPrice{Amount: values[0], Currency: Currency}, nil
	}

	marked := offerMarkerRegex.MatchString(text)
	if marked {
		// Marked offers are positional: current first, original after.
		current := values[0]
		original := maxOf(values[1:])
		if current >= original {
			return domain.ParsedPrice{}, domain.ErrMalformedOffer
		}
		return domain.ParsedPrice{
			Amount:         current,
			Currency:       Currency,
			IsOffer:        true,
			OriginalAmount: original,
		}, nil
	}

	// Unmarked pair: the smaller amount is current, the larger the original.
	current := minOf(values)
	original := maxOf(values)
	return domain.ParsedPrice{
		Amount:         current,
		Currency:       Currency,
		IsOffer:        true,
		OriginalAmount: original,
	}, nil
}

// findPrices runs the format patterns in priority order over text, letting
// each later pattern claim only byte ranges no earlier pattern used.
func (p *PriceParser) findPrices(text string) []priceMatch {
	used := make([]bool, len(text))
	var out []priceMatch

	claim := func(start, end int, v float64) {
		for i := start; i < end; i++ {
			used[i] = true
		}
		out = append(out, priceMatch{value: round2(v), start: start})
	}
	free := func(start, end int) bool {
		for i := start; i < end; i++ {
			if used[i] {
				return false
			}
		}
		return true
	}

	for _, m := range spanishPriceRegex.FindAllStringSubmatchIndex(text, -1) {
		whole := strings.ReplaceAll(text[m[2]:m[3]], ".", "")
		v, _ := strconv.ParseFloat(whole+"."+text[m[4]:m[5]], 64)
		claim(m[0], m[1], v)
	}
	for _, m := range usPriceRegex.FindAllStringSubmatchIndex(text, -1) {
		if !free(m[0], m[1]) {
			continue
		}
		whole := strings.ReplaceAll(text[m[2]:m[3]], ",", "")
		v, _ := strconv.ParseFloat(whole+"."+text[m[4]:m[5]], 64)
		claim(m[0], m[1], v)
	}
	for _, rx := range []*regexp.Regexp{simpleCommaRegex, simpleDotRegex} {
		for _, m := range rx.FindAllStringSubmatchIndex(text, -1) {
			if !free(m[0], m[1]) {
				continue
			}
			v, _ := strconv.ParseFloat(text[m[2]:m[3]]+"."+text[m[4]:m[5]], 64)
			claim(m[0], m[1], v)
		}
	}
	for _, m := range thousandsOnlyRegex.FindAllStringSubmatchIndex(text, -1) {
		if !free(m[0], m[1]) {
			continue
		}
		v, _ := strconv.ParseFloat(text[m[2]:m[3]]+text[m[4]:m[5]], 64)
		claim(m[0], m[1], v)
	}
	for _, m := range centsRegex.FindAllStringSubmatchIndex(text, -1) {
		if !free(m[0], m[1]) {
			continue
		}
		cents, _ := strconv.Atoi(text[m[2]:m[3]])
		claim(m[0], m[1], float64(cents)/100)
	}
	for _, m := range integerPriceRegex.FindAllStringSubmatchIndex(text, -1) {
		if !free(m[4], m[1]) {
			continue
		}
		v, _ := strconv.ParseFloat(text[m[4]:m[5]], 64)
		claim(m[4], m[1], v)
	}

	return out
}

// parseBareToken parses a currency-less token that is nothing but a number.
func parseBareToken(text string) (float64, bool) {
	switch {
	case bareSpanishRegex.MatchString(text):
		whole := strings.ReplaceAll(text, ".", "")
		v, _ := strconv.ParseFloat(strings.Replace(whole, ",", ".", 1), 64)
		return round2(v), true
	case bareUSRegex.MatchString(text):
		v, _ := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
		return round2(v), true
	case bareSimpleRegex.MatchString(text):
		v, _ := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64)
		return round2(v), true
	case bareThousandsRegex.MatchString(text):
		cleaned := strings.NewReplacer(".", "", ",", "").Replace(text)
		v, _ := strconv.ParseFloat(cleaned, 64)
		return v, true
	case bareIntegerRegex.MatchString(text):
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, false
		}
		if v >= centsThreshold {
			return round2(v / 100), true
		}
		return v, true
	}
	return 0, false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func minOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
