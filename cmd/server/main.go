package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/config"
	httpDelivery "github.com/ProductDiscoveryPcCom/serp-price-checker/internal/delivery/http"
	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/infrastructure/cache"
	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/infrastructure/llm"
	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/usecase"
)

func main() {
	// .env is for local development; absence is fine
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SERP Price Checker v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	debug := cfg.Matching.Debug || cfg.Server.Environment == "development"

	var enricher domain.TitleEnricher
	if cfg.LLM.Enabled {
		extractor, err := llm.NewExtractor(llm.Config{
			Provider: cfg.LLM.Provider,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
			Model:    cfg.LLM.Model,
			Debug:    debug,
		})
		if err != nil {
			log.Fatalf("Failed to initialize LLM enrichment: %v", err)
		}
		enricher = llm.NewCachedEnricher(extractor, cache.NewMemoryCache(), cfg.LLM.CacheTTL, debug)
		log.Printf("LLM enrichment enabled: %s/%s (cache TTL %s)", cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.CacheTTL)
	} else {
		log.Printf("LLM enrichment disabled, using heuristic title parsing only")
	}

	analysisService := usecase.NewAnalysisService(
		usecase.NewPriceParser(debug),
		usecase.NewTokenNormalizer(usecase.DefaultBrandRegistry(), debug),
		usecase.NewMatchingService(debug),
		usecase.NewIdentityResolver(debug),
		usecase.NewAnalyzerService(usecase.AnalyzerConfig{
			OutlierMin:              cfg.Analyzer.OutlierMin,
			OutlierMax:              cfg.Analyzer.OutlierMax,
			AggressiveOfferDiscount: cfg.Analyzer.OfferDiscount,
			CheaperMargin:           cfg.Analyzer.CheaperMargin,
			DistributionBins:        cfg.Analyzer.DistributionBins,
			EnableDebugLogging:      debug,
		}),
		enricher,
		debug,
	)

	log.Printf("Analyzer: outliers outside (%.0f, %.0f), offer alert at %.0f%% discount",
		cfg.Analyzer.OutlierMin, cfg.Analyzer.OutlierMax, cfg.Analyzer.OfferDiscount*100)

	handler := httpDelivery.NewHandler(analysisService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
