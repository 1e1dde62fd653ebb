package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

type stubEnricher struct {
	attrs map[string]*domain.TitleAttributes
	err   error
	calls int
}

func (s *stubEnricher) ExtractAttributes(_ context.Context, title string) (*domain.TitleAttributes, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if attrs, ok := s.attrs[title]; ok {
		return attrs, nil
	}
	return &domain.TitleAttributes{}, nil
}

func newTestAnalysisService(enricher domain.TitleEnricher) *AnalysisService {
	return NewAnalysisService(
		NewPriceParser(false),
		NewTokenNormalizer(nil, false),
		NewMatchingService(false),
		NewIdentityResolver(false),
		NewAnalyzerService(AnalyzerConfig{}),
		enricher,
		false,
	)
}

func testRows() []domain.RawResult {
	return []domain.RawResult{
		{Title: "MSI Cyborg 15 B13VFK Portátil Gaming", PriceText: "999,00 €", URL: "https://mitienda.es/p/msi-cyborg", Domain: "mitienda.es", ResultType: domain.ResultShoppingAd, Rank: 1},
		{Title: "MSI Cyborg 15 B13WFKG-687XES", PriceText: "949,00 €", URL: "https://competidor.es/p/1", Domain: "competidor.es", ResultType: domain.ResultShoppingAd, Rank: 2},
		{Title: "Acer Nitro V ANV15-51 Portátil Gaming", PriceText: "899,00 €", URL: "https://otro.es/p/2", Domain: "otro.es", ResultType: domain.ResultOrganic, Rank: 3},
		{Title: "Funda portátil 15 pulgadas", PriceText: "consultar", URL: "https://funda.es/p/3", Domain: "funda.es", ResultType: domain.ResultOrganic, Rank: 4},
	}
}

func TestAnalysisService_Run(t *testing.T) {
	service := newTestAnalysisService(nil)

	t.Run("full pipeline", func(t *testing.T) {
		summary, err := service.Run(context.Background(), AnalysisRequest{
			Rows:            testRows(),
			ReferenceTitle:  "MSI Cyborg 15 B13VFK",
			ReferenceURL:    "https://mitienda.es/p/msi-cyborg",
			ReferenceDomain: "mitienda.es",
			ReferencePrice:  999.00,
		})
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}

		if len(summary.Ranking) != 3 {
			t.Fatalf("ranking size = %d, want 3", len(summary.Ranking))
		}
		if summary.OwnPosition != 3 {
			t.Errorf("own position = %d, want 3", summary.OwnPosition)
		}

		var own *domain.Listing
		for i := range summary.Ranking {
			if summary.Ranking[i].IsOwn {
				own = &summary.Ranking[i]
			}
		}
		if own == nil {
			t.Fatal("own listing missing from ranking")
		}
		if own.Raw.Domain != "mitienda.es" {
			t.Errorf("own listing domain = %s", own.Raw.Domain)
		}
		if own.Match.Score != 100 || own.Match.Tier != domain.TierExact {
			t.Errorf("own listing match = %+v, want 100/exact", own.Match)
		}

		// unparsable price rows survive into the excluded set
		foundUnpriced := false
		for _, l := range summary.Excluded {
			if l.Raw.Domain == "funda.es" && l.Price == nil {
				foundUnpriced = true
			}
		}
		if !foundUnpriced {
			t.Error("row with unparsable price missing from excluded set")
		}
	})

	t.Run("empty result set", func(t *testing.T) {
		_, err := service.Run(context.Background(), AnalysisRequest{ReferenceDomain: "mitienda.es"})
		if !errors.Is(err, domain.ErrNoResults) {
			t.Errorf("expected ErrNoResults, got %v", err)
		}
	})

	t.Run("missing reference identity", func(t *testing.T) {
		_, err := service.Run(context.Background(), AnalysisRequest{Rows: testRows()})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("absent merchant falls back to reference title", func(t *testing.T) {
		summary, err := service.Run(context.Background(), AnalysisRequest{
			Rows:            testRows()[1:],
			ReferenceTitle:  "MSI Cyborg 15 B13VFK",
			ReferenceDomain: "mitienda.es",
			ReferencePrice:  999.00,
		})
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		if summary.OwnPosition != 0 {
			t.Errorf("own position = %d, want 0", summary.OwnPosition)
		}
		if len(summary.Recommendations) == 0 {
			t.Error("expected recommendations for an absent merchant")
		}
	})

	t.Run("absent merchant without title fails", func(t *testing.T) {
		_, err := service.Run(context.Background(), AnalysisRequest{
			Rows:            testRows()[1:],
			ReferenceDomain: "mitienda.es",
			ReferencePrice:  999.00,
		})
		if !errors.Is(err, domain.ErrIdentityNotResolved) {
			t.Errorf("expected ErrIdentityNotResolved, got %v", err)
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := service.Run(ctx, AnalysisRequest{Rows: testRows(), ReferenceDomain: "mitienda.es"}); err == nil {
			t.Error("expected context error")
		}
	})
}

func TestAnalysisService_Enrichment(t *testing.T) {
	t.Run("attributes override heuristics", func(t *testing.T) {
		enricher := &stubEnricher{attrs: map[string]*domain.TitleAttributes{
			"Portátil gaming 15 pulgadas RTX 4060": {Brand: "MSI", Model: "B13VFK"},
		}}
		service := newTestAnalysisService(enricher)

		rows := []domain.RawResult{
			{Title: "MSI Cyborg 15 B13VFK", PriceText: "999,00 €", URL: "https://mitienda.es/p/1", Domain: "mitienda.es", ResultType: domain.ResultShoppingAd},
			{Title: "Portátil gaming 15 pulgadas RTX 4060", PriceText: "949,00 €", URL: "https://competidor.es/p/1", Domain: "competidor.es", ResultType: domain.ResultOrganic},
		}
		summary, err := service.Run(context.Background(), AnalysisRequest{
			Rows:            rows,
			ReferenceDomain: "mitienda.es",
			ReferencePrice:  999.00,
		})
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		if enricher.calls == 0 {
			t.Fatal("enricher was never called")
		}

		for _, l := range summary.Ranking {
			if l.Raw.Domain != "competidor.es" {
				continue
			}
			if l.Tokens.Brand != "msi" {
				t.Errorf("enriched brand = %q, want msi", l.Tokens.Brand)
			}
			if l.Match.Tier == domain.TierDifferent || l.Match.Tier == domain.TierRelated {
				t.Errorf("enriched listing still scored %s (%.1f)", l.Match.Tier, l.Match.Score)
			}
		}
	})

	t.Run("enricher failure falls back to heuristics", func(t *testing.T) {
		enricher := &stubEnricher{err: errors.New("model unavailable")}
		service := newTestAnalysisService(enricher)

		summary, err := service.Run(context.Background(), AnalysisRequest{
			Rows:            testRows(),
			ReferenceDomain: "mitienda.es",
			ReferencePrice:  999.00,
		})
		if err != nil {
			t.Fatalf("Run should tolerate enrichment failures, got %v", err)
		}
		if len(summary.Ranking) == 0 {
			t.Error("expected a ranking despite enrichment failures")
		}
	})
}
