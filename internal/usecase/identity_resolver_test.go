package usecase

import (
	"testing"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

func listingAt(domainName, url string, amount float64) domain.Listing {
	l := domain.Listing{Raw: domain.RawResult{Domain: domainName, URL: url}}
	if amount > 0 {
		l.Price = &domain.ParsedPrice{Amount: amount, Currency: Currency}
	}
	return l
}

func TestIdentityResolver_Identify(t *testing.T) {
	resolver := NewIdentityResolver(false)

	t.Run("exact url wins over closer price", func(t *testing.T) {
		listings := []domain.Listing{
			listingAt("mitienda.es", "https://mitienda.es/producto/msi-cyborg", 649.00),
			listingAt("mitienda.es", "https://mitienda.es/producto/otro", 599.99),
		}
		idx, ok := resolver.Identify(listings, "http://www.mitienda.es/producto/msi-cyborg/", "mitienda.es", 599.99)
		if !ok || idx != 0 {
			t.Errorf("got (%d, %v), want (0, true)", idx, ok)
		}
	})

	t.Run("domain fallback picks closest price", func(t *testing.T) {
		listings := []domain.Listing{
			listingAt("otratienda.es", "https://otratienda.es/p/1", 599.99),
			listingAt("mitienda.es", "https://mitienda.es/p/1", 649.00),
			listingAt("mitienda.es", "https://mitienda.es/p/2", 599.99),
		}
		idx, ok := resolver.Identify(listings, "", "mitienda.es", 599.99)
		if !ok || idx != 2 {
			t.Errorf("got (%d, %v), want (2, true)", idx, ok)
		}
	})

	t.Run("price tie keeps first occurrence", func(t *testing.T) {
		listings := []domain.Listing{
			listingAt("mitienda.es", "https://mitienda.es/p/1", 599.99),
			listingAt("mitienda.es", "https://mitienda.es/p/2", 599.99),
		}
		idx, ok := resolver.Identify(listings, "", "mitienda.es", 599.99)
		if !ok || idx != 0 {
			t.Errorf("got (%d, %v), want (0, true)", idx, ok)
		}
	})

	t.Run("www prefix on result domain still matches", func(t *testing.T) {
		listings := []domain.Listing{
			listingAt("www.mitienda.es", "https://www.mitienda.es/p/1", 649.00),
		}
		idx, ok := resolver.Identify(listings, "", "mitienda.es", 0)
		if !ok || idx != 0 {
			t.Errorf("got (%d, %v), want (0, true)", idx, ok)
		}
	})

	t.Run("absent merchant", func(t *testing.T) {
		listings := []domain.Listing{
			listingAt("otratienda.es", "https://otratienda.es/p/1", 599.99),
		}
		if _, ok := resolver.Identify(listings, "https://mitienda.es/p/9", "mitienda.es", 599.99); ok {
			t.Error("expected no identity match")
		}
	})

	t.Run("no reference at all", func(t *testing.T) {
		listings := []domain.Listing{
			listingAt("otratienda.es", "https://otratienda.es/p/1", 599.99),
		}
		if _, ok := resolver.Identify(listings, "", "", 599.99); ok {
			t.Error("expected no identity match without url or domain")
		}
	})
}
