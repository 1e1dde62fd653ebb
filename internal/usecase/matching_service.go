package usecase

import (
	"log"
	"sort"
	"strings"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

const (
	brandMatchBonus     = 40.0
	brandMismatchCap    = 35.0
	modelMatchBonus     = 35.0
	modelFuzzyThreshold = 0.7
	descriptiveBonus    = 25.0
)

// MatchingService scores how likely two token sets describe the same
// product. Scores are additive over three evidence channels: brand
// agreement, model code similarity, and descriptive token overlap. An
// explicit brand conflict caps the total below the Similar tier no matter
// how well the rest of the title agrees.
type MatchingService struct {
	debug bool
}

func NewMatchingService(debug bool) *MatchingService {
	return &MatchingService{debug: debug}
}

// Score compares a candidate token set against the reference product.
// Identical token sets always yield a perfect score.
func (s *MatchingService) Score(reference, candidate domain.TokenSet) domain.MatchResult {
	if reference.Equal(candidate) {
		return domain.MatchResult{Score: 100, Tier: domain.TierExact}
	}

	score := 0.0
	brandConflict := false
	if reference.Brand != "" && candidate.Brand != "" {
		if reference.Brand == candidate.Brand {
			score += brandMatchBonus
		} else {
			brandConflict = true
		}
	}

	score += modelScore(reference.ModelCodes, candidate.ModelCodes)
	score += descriptiveScore(reference.Tokens, candidate.Tokens)

	if brandConflict && score > brandMismatchCap {
		score = brandMismatchCap
	}
	score = round2(score)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	result := domain.MatchResult{Score: score, Tier: tierFor(score)}
	if s.debug {
		log.Printf("[MATCH] score=%.1f tier=%s brand=%q/%q codes=%v/%v",
			result.Score, result.Tier, reference.Brand, candidate.Brand,
			reference.ModelCodes, candidate.ModelCodes)
	}
	return result
}

// SortByMatch orders listings by descending match score; ties break on
// absolute price distance to the reference price, closest first, so equal
// scores always produce the same ordering.
func (s *MatchingService) SortByMatch(listings []domain.Listing, referencePrice float64) {
	priceDistance := func(l domain.Listing) float64 {
		if !l.HasPrice() {
			return maxPriceDistance
		}
		d := l.Price.Amount - referencePrice
		if d < 0 {
			d = -d
		}
		return d
	}
	sort.SliceStable(listings, func(i, j int) bool {
		if listings[i].Match.Score != listings[j].Match.Score {
			return listings[i].Match.Score > listings[j].Match.Score
		}
		return priceDistance(listings[i]) < priceDistance(listings[j])
	})
}

const maxPriceDistance = 1 << 30

func tierFor(score float64) domain.Tier {
	switch {
	case score > 90:
		return domain.TierExact
	case score >= 75:
		return domain.TierVerySimilar
	case score >= 50:
		return domain.TierSimilar
	case score >= 30:
		return domain.TierRelated
	default:
		return domain.TierDifferent
	}
}

// modelScore awards the full bonus for an exact code match and a
// proportional bonus for close variants (same base SKU, different region
// suffix). Hyphenated codes also compete on their prefix segment so
// "B13WFKG-687XES" can meet "B13VFK".
func modelScore(refCodes, candCodes []string) float64 {
	if len(refCodes) == 0 || len(candCodes) == 0 {
		return 0
	}
	best := 0.0
	for _, ref := range expandCodes(refCodes) {
		for _, cand := range expandCodes(candCodes) {
			if ref == cand {
				return modelMatchBonus
			}
			if ratio := codeSimilarity(ref, cand); ratio > best {
				best = ratio
			}
		}
	}
	if best > modelFuzzyThreshold {
		return modelMatchBonus * best
	}
	return 0
}

func expandCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		out = append(out, code)
		if idx := strings.IndexAny(code, "-_"); idx > 0 {
			out = append(out, code[:idx])
		}
	}
	return out
}

func codeSimilarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

func descriptiveScore(ref, cand []string) float64 {
	union := len(findUnion(ref, cand))
	if union == 0 {
		return 0
	}
	inter := len(findIntersection(ref, cand))
	return descriptiveBonus * float64(inter) / float64(union)
}

func findIntersection(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, tok := range b {
		inB[tok] = true
	}
	var out []string
	for _, tok := range a {
		if inB[tok] {
			out = append(out, tok)
			inB[tok] = false
		}
	}
	return out
}

func findUnion(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, tok := range a {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	for _, tok := range b {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, minInt(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
