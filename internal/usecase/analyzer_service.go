package usecase

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

// AnalyzerConfig bounds what counts as a plausible price and tunes the
// recommendation thresholds. Zero values are replaced with defaults in
// NewAnalyzerService.
type AnalyzerConfig struct {
	OutlierMin              float64 // prices at or below are excluded
	OutlierMax              float64 // prices at or above are excluded
	AggressiveOfferDiscount float64 // offer discount fraction that triggers an alert
	CheaperMargin           float64 // price gap before a similar-cheaper flag fires
	DistributionBins        int
	EnableDebugLogging      bool
}

const (
	defaultOutlierMin       = 10.0
	defaultOutlierMax       = 10000.0
	defaultOfferDiscount    = 0.15
	defaultDistributionBins = 10
)

// AnalyzerService turns a scored, priced listing set into the ranking,
// market statistics and pricing recommendations of an analysis.
type AnalyzerService struct {
	cfg AnalyzerConfig
}

func NewAnalyzerService(cfg AnalyzerConfig) *AnalyzerService {
	if cfg.OutlierMin <= 0 {
		cfg.OutlierMin = defaultOutlierMin
	}
	if cfg.OutlierMax <= 0 {
		cfg.OutlierMax = defaultOutlierMax
	}
	if cfg.AggressiveOfferDiscount <= 0 {
		cfg.AggressiveOfferDiscount = defaultOfferDiscount
	}
	if cfg.CheaperMargin < 0 {
		cfg.CheaperMargin = 0
	}
	if cfg.DistributionBins <= 0 {
		cfg.DistributionBins = defaultDistributionBins
	}
	return &AnalyzerService{cfg: cfg}
}

// Analyze ranks the priced, in-range listings by ascending price and
// derives statistics and recommendations against the merchant's price.
// ownIndex is the position of the merchant's listing in listings, or -1
// when identity was not resolved; referencePrice is the merchant price the
// recommendations are computed against.
func (s *AnalyzerService) Analyze(listings []domain.Listing, ownIndex int, referencePrice float64) domain.AnalysisSummary {
	working := make([]domain.Listing, len(listings))
	copy(working, listings)
	if ownIndex >= 0 && ownIndex < len(working) {
		working[ownIndex].IsOwn = true
	}

	var ranking, excluded []domain.Listing
	for i := range working {
		l := working[i]
		if l.HasPrice() && (l.Price.Amount <= s.cfg.OutlierMin || l.Price.Amount >= s.cfg.OutlierMax) {
			l.Outlier = true
		}
		if l.HasPrice() && !l.Outlier {
			ranking = append(ranking, l)
		} else {
			excluded = append(excluded, l)
		}
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Price.Amount < ranking[j].Price.Amount
	})

	ownPosition := 0
	for i, l := range ranking {
		if l.IsOwn {
			ownPosition = i + 1
			break
		}
	}

	if s.cfg.EnableDebugLogging {
		log.Printf("[ANALYZE] ranked=%d excluded=%d ownPosition=%d", len(ranking), len(excluded), ownPosition)
	}

	return domain.AnalysisSummary{
		Ranking:         ranking,
		OwnPosition:     ownPosition,
		Recommendations: s.recommend(ranking, referencePrice),
		Stats:           s.marketStats(ranking, excluded, referencePrice),
		Distribution:    s.distribution(ranking),
		Excluded:        excluded,
	}
}

var priorityOrder = map[string]int{"high": 0, "medium": 1, "low": 2}

// recommend applies the pricing rules against the ranked competitor set.
// Recommendations are computed from the merchant's reference price alone,
// so they remain available even when the merchant's own listing is absent
// from the results.
func (s *AnalyzerService) recommend(ranking []domain.Listing, referencePrice float64) []domain.Recommendation {
	var recs []domain.Recommendation
	if referencePrice <= 0 {
		return recs
	}

	var competitors []domain.Listing
	for _, l := range ranking {
		if !l.IsOwn {
			competitors = append(competitors, l)
		}
	}
	if len(competitors) == 0 {
		return recs
	}

	// Enter the top three, or beat the whole field when it is smaller.
	topIdx := len(competitors) - 1
	if topIdx > 2 {
		topIdx = 2
	}
	threshold := competitors[topIdx].Price.Amount
	if referencePrice > threshold {
		target := round2(threshold - 0.01)
		recs = append(recs, domain.Recommendation{
			Type:     domain.RecReducePrice,
			Priority: "high",
			Message:  fmt.Sprintf("Reduce el precio en %.2f€ (a %.2f€) para entrar en el top %d", round2(referencePrice-target), target, topIdx+1),
			Amount:   round2(referencePrice - target),
		})
	}

	var similar []domain.Listing
	for _, l := range competitors {
		if l.Match.Tier == domain.TierExact || l.Match.Tier == domain.TierVerySimilar {
			similar = append(similar, l)
		}
	}

	if len(similar) > 0 {
		minSimilar := similar[0].Price.Amount
		for _, l := range similar[1:] {
			if l.Price.Amount < minSimilar {
				minSimilar = l.Price.Amount
			}
		}
		if referencePrice < minSimilar {
			ceiling := round2(minSimilar - 0.01)
			recs = append(recs, domain.Recommendation{
				Type:     domain.RecRaiseCeiling,
				Priority: "medium",
				Message:  fmt.Sprintf("Margen disponible: puedes subir hasta %.2f€ sin dejar de ser el mas barato entre productos equivalentes", ceiling),
				Amount:   ceiling,
			})
		}

		for _, l := range similar {
			if l.Price.IsOffer && l.Price.DiscountPct() >= s.cfg.AggressiveOfferDiscount && l.Price.Amount < referencePrice {
				recs = append(recs, domain.Recommendation{
					Type:       domain.RecAggressiveOffer,
					Priority:   "high",
					Message:    fmt.Sprintf("Oferta agresiva de %s: %.2f€ (antes %.2f€, -%.0f%%)", l.Raw.Domain, l.Price.Amount, l.Price.OriginalAmount, l.Price.DiscountPct()*100),
					Amount:     l.Price.Amount,
					Competitor: l.Raw.Domain,
				})
			}
		}

		var cheapest *domain.Listing
		for i := range similar {
			l := similar[i]
			if referencePrice-l.Price.Amount > s.cfg.CheaperMargin {
				if cheapest == nil || l.Price.Amount < cheapest.Price.Amount {
					cheapest = &similar[i]
				}
			}
		}
		if cheapest != nil {
			recs = append(recs, domain.Recommendation{
				Type:       domain.RecSimilarCheaper,
				Priority:   "high",
				Message:    fmt.Sprintf("Producto equivalente mas barato en %s: %.2f€ frente a tus %.2f€", cheapest.Raw.Domain, cheapest.Price.Amount, referencePrice),
				Amount:     cheapest.Price.Amount,
				Competitor: cheapest.Raw.Domain,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityOrder[recs[i].Priority] < priorityOrder[recs[j].Priority]
	})
	return recs
}

func (s *AnalyzerService) marketStats(ranking, excluded []domain.Listing, referencePrice float64) domain.MarketStats {
	stats := domain.MarketStats{
		TotalResults: len(ranking) + len(excluded),
		TotalPriced:  len(ranking),
	}
	for _, l := range excluded {
		if l.Outlier {
			stats.TotalOutliers++
		}
	}
	if len(ranking) == 0 {
		return stats
	}

	amounts := make([]float64, len(ranking))
	domains := make(map[string]bool)
	sum := 0.0
	for i, l := range ranking {
		amounts[i] = l.Price.Amount
		sum += l.Price.Amount
		if l.Raw.Domain != "" {
			domains[normalizeDomain(l.Raw.Domain)] = true
		}
		if referencePrice > 0 && !l.IsOwn {
			switch {
			case l.Price.Amount < referencePrice:
				stats.Cheaper++
			case l.Price.Amount > referencePrice:
				stats.MoreExpensive++
			default:
				stats.Same++
			}
		}
	}

	stats.MinPrice = amounts[0]
	stats.MaxPrice = amounts[len(amounts)-1]
	stats.AvgPrice = round2(sum / float64(len(amounts)))
	stats.MedianPrice = round2(median(amounts))
	stats.Stores = len(domains)
	return stats
}

// median assumes amounts is already sorted ascending.
func median(amounts []float64) float64 {
	n := len(amounts)
	if n%2 == 1 {
		return amounts[n/2]
	}
	return (amounts[n/2-1] + amounts[n/2]) / 2
}

// distribution buckets the ranked prices into equal-width bins across the
// observed range. A degenerate range (all prices equal) collapses to a
// single bucket.
func (s *AnalyzerService) distribution(ranking []domain.Listing) []domain.PriceBucket {
	if len(ranking) == 0 {
		return nil
	}
	lo := ranking[0].Price.Amount
	hi := ranking[len(ranking)-1].Price.Amount
	if hi <= lo {
		return []domain.PriceBucket{{Low: lo, High: hi, Count: len(ranking)}}
	}

	bins := s.cfg.DistributionBins
	width := (hi - lo) / float64(bins)
	buckets := make([]domain.PriceBucket, bins)
	for i := range buckets {
		buckets[i].Low = round2(lo + float64(i)*width)
		buckets[i].High = round2(lo + float64(i+1)*width)
	}
	for _, l := range ranking {
		idx := int(math.Floor((l.Price.Amount - lo) / width))
		if idx >= bins {
			idx = bins - 1
		}
		buckets[idx].Count++
	}
	return buckets
}
