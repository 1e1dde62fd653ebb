package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

// AnalysisRequest carries one SERP result set plus what the merchant knows
// about their own product.
type AnalysisRequest struct {
	Rows            []domain.RawResult
	ReferenceTitle  string
	ReferenceURL    string
	ReferenceDomain string
	ReferencePrice  float64
}

// AnalysisService runs the full pipeline for one request: price parsing,
// title normalization, optional LLM enrichment, match scoring against the
// reference product, own-listing identification and market analysis.
type AnalysisService struct {
	parser     *PriceParser
	normalizer *TokenNormalizer
	matcher    *MatchingService
	identity   *IdentityResolver
	analyzer   *AnalyzerService
	enricher   domain.TitleEnricher // nil disables enrichment
	debug      bool
}

func NewAnalysisService(
	parser *PriceParser,
	normalizer *TokenNormalizer,
	matcher *MatchingService,
	identity *IdentityResolver,
	analyzer *AnalyzerService,
	enricher domain.TitleEnricher,
	debug bool,
) *AnalysisService {
	return &AnalysisService{
		parser:     parser,
		normalizer: normalizer,
		matcher:    matcher,
		identity:   identity,
		analyzer:   analyzer,
		enricher:   enricher,
		debug:      debug,
	}
}

// Run executes one analysis. Rows whose price text cannot be parsed are
// kept without a price so they still appear in the excluded set; LLM
// enrichment failures fall back to the heuristic token set per row.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*domain.AnalysisSummary, error) {
	if len(req.Rows) == 0 {
		return nil, domain.ErrNoResults
	}
	if strings.TrimSpace(req.ReferenceDomain) == "" && strings.TrimSpace(req.ReferenceURL) == "" {
		return nil, domain.ErrInvalidRequest
	}

	listings := make([]domain.Listing, 0, len(req.Rows))
	for _, row := range req.Rows {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		l := domain.Listing{Raw: row}
		if price, err := s.parser.Parse(row.PriceText); err == nil {
			p := price
			l.Price = &p
		} else if s.debug {
			log.Printf("[ANALYSIS] unparsable price %q for %s: %v", row.PriceText, row.Domain, err)
		}

		l.Tokens = s.normalizer.Normalize(row.Title)
		if s.enricher != nil {
			if attrs, err := s.enricher.ExtractAttributes(ctx, row.Title); err == nil {
				l.Tokens = s.normalizer.Merge(l.Tokens, attrs)
			} else if s.debug {
				log.Printf("[ANALYSIS] enrichment failed for %q, using heuristics: %v", row.Title, err)
			}
		}
		listings = append(listings, l)
	}

	ownIndex, found := s.identity.Identify(listings, req.ReferenceURL, req.ReferenceDomain, req.ReferencePrice)
	if !found {
		ownIndex = -1
	}

	referenceTokens, err := s.referenceTokens(ctx, req, listings, ownIndex)
	if err != nil {
		return nil, err
	}

	for i := range listings {
		if i == ownIndex {
			listings[i].Match = domain.MatchResult{Score: 100, Tier: domain.TierExact}
			continue
		}
		listings[i].Match = s.matcher.Score(referenceTokens, listings[i].Tokens)
	}

	referencePrice := req.ReferencePrice
	if referencePrice <= 0 && ownIndex >= 0 && listings[ownIndex].HasPrice() {
		referencePrice = listings[ownIndex].Price.Amount
	}

	summary := s.analyzer.Analyze(listings, ownIndex, referencePrice)
	return &summary, nil
}

// referenceTokens prefers the merchant's own listing title over the title
// supplied in the request, mirroring how the live listing is what buyers
// actually compare against.
func (s *AnalysisService) referenceTokens(ctx context.Context, req AnalysisRequest, listings []domain.Listing, ownIndex int) (domain.TokenSet, error) {
	if ownIndex >= 0 {
		return listings[ownIndex].Tokens, nil
	}
	if strings.TrimSpace(req.ReferenceTitle) == "" {
		return domain.TokenSet{}, domain.ErrIdentityNotResolved
	}
	ts := s.normalizer.Normalize(req.ReferenceTitle)
	if s.enricher != nil {
		if attrs, err := s.enricher.ExtractAttributes(ctx, req.ReferenceTitle); err == nil {
			ts = s.normalizer.Merge(ts, attrs)
		}
	}
	return ts, nil
}
