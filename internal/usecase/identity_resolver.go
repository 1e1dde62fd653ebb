package usecase

import (
	"log"
	"strings"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

// IdentityResolver locates the merchant's own listing inside a result set.
// Exact URL identity wins; otherwise the same-domain listing with the price
// closest to the merchant's known price is assumed to be theirs.
type IdentityResolver struct {
	debug bool
}

func NewIdentityResolver(debug bool) *IdentityResolver {
	return &IdentityResolver{debug: debug}
}

// Identify returns the index of the merchant's own listing and true, or
// (0, false) when no listing can be attributed to the merchant. URL
// comparison ignores scheme, leading "www." and trailing slashes. When
// several same-domain listings tie on price distance the first occurrence
// wins.
func (r *IdentityResolver) Identify(listings []domain.Listing, referenceURL, referenceDomain string, referencePrice float64) (int, bool) {
	if refURL := normalizeURL(referenceURL); refURL != "" {
		for i, l := range listings {
			if normalizeURL(l.Raw.URL) == refURL {
				if r.debug {
					log.Printf("[IDENTITY] matched by URL at index %d", i)
				}
				return i, true
			}
		}
	}

	refDomain := normalizeDomain(referenceDomain)
	if refDomain == "" {
		return 0, false
	}

	bestIdx := -1
	bestDistance := 0.0
	for i, l := range listings {
		if normalizeDomain(l.Raw.Domain) != refDomain {
			continue
		}
		var distance float64 = maxPriceDistance
		if l.HasPrice() && referencePrice > 0 {
			distance = l.Price.Amount - referencePrice
			if distance < 0 {
				distance = -distance
			}
		}
		if bestIdx == -1 || distance < bestDistance {
			bestIdx = i
			bestDistance = distance
		}
	}
	if bestIdx == -1 {
		return 0, false
	}
	if r.debug {
		log.Printf("[IDENTITY] matched by domain %q at index %d (price distance %.2f)", refDomain, bestIdx, bestDistance)
	}
	return bestIdx, true
}

func normalizeURL(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimRight(u, "/")
}

func normalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	return strings.TrimSuffix(d, "/")
}
