// Package serpcsv reads the CSV export of the Google Rank Checker browser
// extension into raw SERP results.
package serpcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

// skipDomains are price comparators and CSS partners that would pollute a
// merchant-vs-merchant ranking.
var skipDomains = []string{
	"kelkoo", "idealo", "shopping.com", "shoparize",
	"producthero", "delupe", "adference", "klarna",
	"redbrain", "surferseo", "google.com", "docs.surferseo",
	"pricerunner", "twenga", "shopmania", "ciao",
}

var (
	offerPrefixRegex = regexp.MustCompile(`(?i)^oferta\s*`)
	priceStartRegex  = regexp.MustCompile(`\d{3,6}\s*€`)

	// trailing shipping and store noise in anchor text
	anchorNoiseRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)sin coste.*$`),
		regexp.MustCompile(`(?i)env[ií]o.*$`),
		regexp.MustCompile(`(?i)gratis.*$`),
		regexp.MustCompile(`(?i)\d+\s*d[ií]as.*$`),
	}
)

const minTitleLength = 5

// Parse reads an extension export and returns one RawResult per usable row.
// Rows with unknown result types, comparator domains, duplicate links or
// anchors too short to name a product are dropped. The anchor text is kept
// verbatim as PriceText so price parsing stays a downstream concern.
func Parse(r io.Reader) ([]domain.RawResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Type", "Domain", "Link", "Anchor"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv header missing %q column", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var results []domain.RawResult
	seenLinks := make(map[string]bool)
	skipped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		resultType := domain.ResultType(field(record, "Type"))
		if !resultType.Valid() {
			continue
		}

		resultDomain := strings.ToLower(field(record, "Domain"))
		if isComparator(resultDomain) {
			continue
		}

		link := field(record, "Link")
		if link == "" || seenLinks[link] {
			continue
		}
		seenLinks[link] = true

		anchor := ""
		if idx := columns["Anchor"]; idx < len(record) {
			anchor = record[idx]
		}
		title := cleanTitle(anchor)
		if len(title) < minTitleLength {
			continue
		}

		rank := 0
		if v, err := strconv.Atoi(field(record, "Rank")); err == nil {
			rank = v
		}

		results = append(results, domain.RawResult{
			Title:      title,
			PriceText:  anchor,
			URL:        link,
			Domain:     strings.TrimPrefix(resultDomain, "www."),
			ResultType: resultType,
			Rank:       rank,
		})
	}

	if skipped > 0 {
		log.Printf("[CSV] skipped %d malformed rows", skipped)
	}
	return results, nil
}

func isComparator(resultDomain string) bool {
	for _, skip := range skipDomains {
		if strings.Contains(resultDomain, skip) {
			return true
		}
	}
	return false
}

// cleanTitle extracts a product title from anchor text: the extension
// concatenates the offer marker, the title, the price and shipping blurbs
// into one string.
func cleanTitle(anchor string) string {
	title := strings.TrimSpace(anchor)
	title = offerPrefixRegex.ReplaceAllString(title, "")

	// the extension sometimes doubles the leading word
	words := strings.Fields(title)
	if len(words) >= 2 && strings.EqualFold(words[0], words[1]) {
		title = strings.Join(words[1:], " ")
	}

	if loc := priceStartRegex.FindStringIndex(title); loc != nil {
		title = title[:loc[0]]
	}
	for _, re := range anchorNoiseRegexes {
		title = re.ReplaceAllString(title, "")
	}
	return strings.TrimSpace(title)
}
