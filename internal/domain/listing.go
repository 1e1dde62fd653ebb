package domain

// ResultType identifies where a SERP row came from, as reported by the
// rank-checker export. The set is closed; anything else is dropped at import.
type ResultType string

const (
	ResultShoppingAd ResultType = "Shopping Ads"
	ResultOrganic    ResultType = "Organic"
	ResultAd         ResultType = "Ads"
	ResultAdSub      ResultType = "Ads Sub"
)

// Valid reports whether t is one of the four known result types.
func (t ResultType) Valid() bool {
	switch t {
	case ResultShoppingAd, ResultOrganic, ResultAd, ResultAdSub:
		return true
	}
	return false
}

// RawResult is a single row as read from the search-results export.
// Immutable once created; everything else is derived from it.
type RawResult struct {
	Title      string     `json:"title"`
	PriceText  string     `json:"priceText,omitempty"`
	URL        string     `json:"url"`
	Domain     string     `json:"domain"`
	ResultType ResultType `json:"resultType"`
	Rank       int        `json:"rank,omitempty"`
}

// ParsedPrice is a normalized monetary amount extracted from a raw price
// string. OriginalAmount is only meaningful when IsOffer is true, and is
// then strictly greater than Amount.
type ParsedPrice struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	IsOffer        bool    `json:"isOffer"`
	OriginalAmount float64 `json:"originalAmount,omitempty"`
}

// DiscountPct returns the offer discount as a fraction of the original
// price, or 0 for non-offers.
func (p ParsedPrice) DiscountPct() float64 {
	if !p.IsOffer || p.OriginalAmount <= p.Amount || p.OriginalAmount == 0 {
		return 0
	}
	return (p.OriginalAmount - p.Amount) / p.OriginalAmount
}

// TokenSet is the normalized form of a listing title: at most one canonical
// brand, the alphanumeric model codes found in the title, and the remaining
// descriptive tokens in title order.
type TokenSet struct {
	Brand      string   `json:"brand,omitempty"`
	ModelCodes []string `json:"modelCodes,omitempty"`
	Tokens     []string `json:"tokens"`
}

// Equal reports whether two token sets carry the same brand, the same model
// codes and the same descriptive tokens (order-insensitive for tokens).
func (t TokenSet) Equal(other TokenSet) bool {
	if t.Brand != other.Brand || len(t.ModelCodes) != len(other.ModelCodes) {
		return false
	}
	for i, c := range t.ModelCodes {
		if other.ModelCodes[i] != c {
			return false
		}
	}
	if len(t.Tokens) != len(other.Tokens) {
		return false
	}
	seen := make(map[string]int, len(t.Tokens))
	for _, tok := range t.Tokens {
		seen[tok]++
	}
	for _, tok := range other.Tokens {
		seen[tok]--
		if seen[tok] < 0 {
			return false
		}
	}
	return true
}

// Tier buckets a numeric match score into a human-readable similarity level.
type Tier string

const (
	TierExact       Tier = "exact"        // > 90
	TierVerySimilar Tier = "very_similar" // [75, 90]
	TierSimilar     Tier = "similar"      // [50, 75)
	TierRelated     Tier = "related"      // [30, 50)
	TierDifferent   Tier = "different"    // < 30
)

// MatchResult is the similarity verdict for a candidate listing against the
// reference product. Always recomputed, never stored on its own.
type MatchResult struct {
	Score float64 `json:"score"` // 0-100
	Tier  Tier    `json:"tier"`
}

// TitleAttributes is the structured output of the optional LLM title
// enrichment. Empty fields mean the extractor found nothing better than the
// heuristic path.
type TitleAttributes struct {
	Brand    string   `json:"brand,omitempty"`
	Model    string   `json:"model,omitempty"`
	Series   string   `json:"series,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Listing aggregates one SERP row with everything derived from it for a
// single analysis run.
type Listing struct {
	Raw     RawResult    `json:"raw"`
	Price   *ParsedPrice `json:"price,omitempty"` // nil when the price text was unparsable
	Outlier bool         `json:"outlier"`
	Tokens  TokenSet     `json:"tokens"`
	Match   MatchResult  `json:"match"`
	IsOwn   bool         `json:"isOwn"`
}

// HasPrice reports whether the listing carries a usable parsed price.
func (l Listing) HasPrice() bool {
	return l.Price != nil && l.Price.Amount > 0
}

// RecommendationType is the closed set of advice kinds the analyzer emits.
type RecommendationType string

const (
	RecReducePrice     RecommendationType = "price_reduction"
	RecRaiseCeiling    RecommendationType = "price_increase"
	RecAggressiveOffer RecommendationType = "aggressive_offer"
	RecSimilarCheaper  RecommendationType = "similar_cheaper"
)

// Recommendation is a single actionable pricing advice item.
type Recommendation struct {
	Type       RecommendationType `json:"type"`
	Priority   string             `json:"priority"` // high, medium, low
	Message    string             `json:"message"`
	Amount     float64            `json:"amount,omitempty"`
	Competitor string             `json:"competitor,omitempty"`
}

// MarketStats summarizes the filtered price set of one analysis run.
type MarketStats struct {
	TotalResults  int     `json:"totalResults"`
	TotalPriced   int     `json:"totalPriced"`
	TotalOutliers int     `json:"totalOutliers"`
	Stores        int     `json:"stores"`
	MinPrice      float64 `json:"minPrice"`
	MaxPrice      float64 `json:"maxPrice"`
	AvgPrice      float64 `json:"avgPrice"`
	MedianPrice   float64 `json:"medianPrice"`
	Cheaper       int     `json:"cheaper"`
	Same          int     `json:"same"`
	MoreExpensive int     `json:"moreExpensive"`
}

// PriceBucket is one histogram bucket of the market price distribution.
type PriceBucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// AnalysisSummary is the complete output of one analysis run. It is rebuilt
// wholesale every run; nothing in it is mutated incrementally.
type AnalysisSummary struct {
	Ranking         []Listing        `json:"ranking"`
	OwnPosition     int              `json:"ownPosition,omitempty"` // 1-based, 0 when absent
	Recommendations []Recommendation `json:"recommendations"`
	Stats           MarketStats      `json:"stats"`
	Distribution    []PriceBucket    `json:"distribution,omitempty"`
	Excluded        []Listing        `json:"excluded,omitempty"` // unpriced or outlier rows, kept for display
}
