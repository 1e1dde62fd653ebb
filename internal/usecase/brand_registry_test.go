package usecase

import (
	"reflect"
	"testing"
)

func TestBrandRegistry_Resolve(t *testing.T) {
	registry := DefaultBrandRegistry()

	tests := []struct {
		name         string
		tokens       []string
		wantBrand    string
		wantConsumed []int
	}{
		{"direct brand", []string{"msi", "cyborg", "15"}, "msi", []int{0}},
		{"synonym resolves to vendor", []string{"iphone", "15", "pro"}, "apple", []int{0}},
		{"product line synonym", []string{"conga", "2299", "robot"}, "cecotec", []int{0}},
		{"two token phrase", []string{"disco", "western", "digital", "2tb"}, "western digital", []int{1, 2}},
		{"short alias", []string{"disco", "wd", "2tb"}, "western digital", []int{1}},
		{"three token phrase", []string{"consola", "play", "station", "5"}, "playstation 5", []int{1, 2, 3}},
		{"phrase beats single at same position", []string{"media", "markt", "oferta"}, "mediamarkt", []int{0, 1}},
		{"first match wins", []string{"funda", "samsung", "para", "iphone"}, "samsung", []int{1}},
		{"no brand", []string{"cable", "hdmi", "2m"}, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brand, consumed := registry.Resolve(tt.tokens)
			if brand != tt.wantBrand {
				t.Errorf("Resolve(%v) brand = %q, want %q", tt.tokens, brand, tt.wantBrand)
			}
			if !reflect.DeepEqual(consumed, tt.wantConsumed) {
				t.Errorf("Resolve(%v) consumed = %v, want %v", tt.tokens, consumed, tt.wantConsumed)
			}
		})
	}
}

func TestDefaultBrandRegistry_Coverage(t *testing.T) {
	registry := DefaultBrandRegistry()
	if registry.Len() < 150 {
		t.Errorf("default registry has %d canonical brands, want at least 150", registry.Len())
	}
}

func TestBrandRegistry_AccentInsensitive(t *testing.T) {
	registry := NewBrandRegistry([]BrandEntry{
		{Canonical: "Kärcher", Synonyms: []string{"Karcher"}},
	})
	brand, _ := registry.Resolve([]string{"hidrolimpiadora", "karcher"})
	if brand != "karcher" {
		t.Errorf("Resolve = %q, want %q", brand, "karcher")
	}
}
