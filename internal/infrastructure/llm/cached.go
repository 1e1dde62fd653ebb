package llm

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

// CachedEnricher memoizes title extractions so repeated SERP rows (the same
// listing often appears across queries and devices) only hit the model
// once.
type CachedEnricher struct {
	inner domain.TitleEnricher
	cache domain.CacheRepository
	ttl   time.Duration
	debug bool
}

func NewCachedEnricher(inner domain.TitleEnricher, cache domain.CacheRepository, ttl time.Duration, debug bool) *CachedEnricher {
	return &CachedEnricher{inner: inner, cache: cache, ttl: ttl, debug: debug}
}

// ExtractAttributes returns the cached extraction for title when present,
// delegating to the wrapped enricher otherwise. Cache failures are treated
// as misses.
func (c *CachedEnricher) ExtractAttributes(ctx context.Context, title string) (*domain.TitleAttributes, error) {
	key := cacheKey(title)

	if cached, err := c.cache.Get(ctx, key); err == nil {
		if attrs, ok := cached.(*domain.TitleAttributes); ok {
			if c.debug {
				log.Printf("[LLM] cache hit for %q", title)
			}
			return attrs, nil
		}
	}

	attrs, err := c.inner.ExtractAttributes(ctx, title)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, attrs, c.ttl); err != nil && c.debug {
		log.Printf("[LLM] cache store failed for %q: %v", title, err)
	}
	return attrs, nil
}

// cacheKey normalizes the title so trivially different renderings of the
// same listing share one entry.
func cacheKey(title string) string {
	return "attrs:" + strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
