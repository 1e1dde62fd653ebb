package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"golang.org/x/time/rate"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/infrastructure/cache"
)

type fakeModel struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var resp string
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	return resp, err
}

func testExtractor(model caller) *Extractor {
	return &Extractor{
		model:       model,
		rateLimiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func TestExtractor_ExtractAttributes(t *testing.T) {
	t.Run("plain json response", func(t *testing.T) {
		model := &fakeModel{responses: []string{`{"brand":"MSI","model":"B13VFK","keywords":["gaming","portatil"]}`}}
		extractor := testExtractor(model)

		attrs, err := extractor.ExtractAttributes(context.Background(), "MSI Cyborg 15 B13VFK")

		require.NoError(t, err)
		assert.Equal(t, "MSI", attrs.Brand)
		assert.Equal(t, "B13VFK", attrs.Model)
		assert.Len(t, attrs.Keywords, 2)
	})

	t.Run("fenced json response", func(t *testing.T) {
		model := &fakeModel{responses: []string{"```json\n{\"brand\":\"Acer\"}\n```"}}
		extractor := testExtractor(model)

		attrs, err := extractor.ExtractAttributes(context.Background(), "Acer Nitro V")

		require.NoError(t, err)
		assert.Equal(t, "Acer", attrs.Brand)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		model := &fakeModel{
			errs:      []error{errors.New("timeout"), nil},
			responses: []string{"", `{"brand":"Sony"}`},
		}
		extractor := testExtractor(model)

		attrs, err := extractor.ExtractAttributes(context.Background(), "Sony WH-1000XM5")

		require.NoError(t, err)
		assert.Equal(t, "Sony", attrs.Brand)
		assert.Equal(t, 2, model.calls)
	})

	t.Run("persistent failure wraps enrichment error", func(t *testing.T) {
		model := &fakeModel{errs: []error{errors.New("down"), errors.New("down"), errors.New("down")}}
		extractor := testExtractor(model)

		_, err := extractor.ExtractAttributes(context.Background(), "anything")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEnrichmentFailure)
		assert.Equal(t, 3, model.calls)
	})

	t.Run("garbage response exhausts retries", func(t *testing.T) {
		model := &fakeModel{responses: []string{"not json", "still not json", "nope"}}
		extractor := testExtractor(model)

		_, err := extractor.ExtractAttributes(context.Background(), "anything")

		assert.ErrorIs(t, err, domain.ErrEnrichmentFailure)
	})
}

func TestNewExtractor_UnknownProvider(t *testing.T) {
	_, err := NewExtractor(Config{Provider: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestCachedEnricher(t *testing.T) {
	t.Run("second lookup hits the cache", func(t *testing.T) {
		model := &fakeModel{responses: []string{`{"brand":"MSI"}`, `{"brand":"MSI"}`}}
		enricher := NewCachedEnricher(testExtractor(model), cache.NewMemoryCache(), time.Minute, false)

		for i := 0; i < 2; i++ {
			attrs, err := enricher.ExtractAttributes(context.Background(), "MSI  Cyborg 15")
			require.NoError(t, err)
			assert.Equal(t, "MSI", attrs.Brand)
		}
		assert.Equal(t, 1, model.calls)
	})

	t.Run("whitespace variants share one entry", func(t *testing.T) {
		assert.Equal(t, cacheKey("MSI  Cyborg 15"), cacheKey("msi cyborg 15"))
	})

	t.Run("failures are not cached", func(t *testing.T) {
		model := &fakeModel{
			errs:      []error{errors.New("down"), errors.New("down"), errors.New("down"), nil},
			responses: []string{"", "", "", `{"brand":"MSI"}`},
		}
		enricher := NewCachedEnricher(testExtractor(model), cache.NewMemoryCache(), time.Minute, false)

		_, err := enricher.ExtractAttributes(context.Background(), "MSI Cyborg")
		require.Error(t, err)

		attrs, err := enricher.ExtractAttributes(context.Background(), "MSI Cyborg")
		require.NoError(t, err)
		assert.Equal(t, "MSI", attrs.Brand)
	})
}
