package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		os.Unsetenv("SERPCHECK_SERVER_PORT")
		os.Unsetenv("SERPCHECK_SERVER_ENVIRONMENT")
		os.Unsetenv("SERPCHECK_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("SERPCHECK_MATCHING_DEBUG")
		os.Unsetenv("SERPCHECK_ANALYZER_OUTLIER_MIN")
		os.Unsetenv("SERPCHECK_ANALYZER_OUTLIER_MAX")
		os.Unsetenv("SERPCHECK_ANALYZER_OFFER_DISCOUNT")
		os.Unsetenv("SERPCHECK_ANALYZER_CHEAPER_MARGIN")
		os.Unsetenv("SERPCHECK_ANALYZER_DISTRIBUTION_BINS")
		os.Unsetenv("SERPCHECK_LLM_ENABLED")
		os.Unsetenv("SERPCHECK_LLM_PROVIDER")
		os.Unsetenv("SERPCHECK_LLM_API_KEY")
		os.Unsetenv("SERPCHECK_LLM_BASE_URL")
		os.Unsetenv("SERPCHECK_LLM_MODEL")
		os.Unsetenv("SERPCHECK_LLM_CACHE_TTL")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Analyzer.OutlierMin != 10.0 {
			t.Errorf("Analyzer.OutlierMin = %v, want 10", cfg.Analyzer.OutlierMin)
		}
		if cfg.Analyzer.OutlierMax != 10000.0 {
			t.Errorf("Analyzer.OutlierMax = %v, want 10000", cfg.Analyzer.OutlierMax)
		}
		if cfg.Analyzer.OfferDiscount != 0.15 {
			t.Errorf("Analyzer.OfferDiscount = %v, want 0.15", cfg.Analyzer.OfferDiscount)
		}
		if cfg.Analyzer.DistributionBins != 10 {
			t.Errorf("Analyzer.DistributionBins = %d, want 10", cfg.Analyzer.DistributionBins)
		}
		if cfg.LLM.Enabled {
			t.Error("LLM.Enabled = true, want false by default")
		}
		if cfg.LLM.CacheTTL != 168*time.Hour {
			t.Errorf("LLM.CacheTTL = %v, want 168h", cfg.LLM.CacheTTL)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SERPCHECK_SERVER_PORT", "9090")
		os.Setenv("SERPCHECK_SERVER_ENVIRONMENT", "production")
		os.Setenv("SERPCHECK_ANALYZER_OUTLIER_MAX", "5000")
		os.Setenv("SERPCHECK_ANALYZER_OFFER_DISCOUNT", "0.25")
		os.Setenv("SERPCHECK_LLM_ENABLED", "true")
		os.Setenv("SERPCHECK_LLM_PROVIDER", "ollama")
		os.Setenv("SERPCHECK_LLM_MODEL", "llama3")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Analyzer.OutlierMax != 5000 {
			t.Errorf("Analyzer.OutlierMax = %v, want 5000", cfg.Analyzer.OutlierMax)
		}
		if cfg.Analyzer.OfferDiscount != 0.25 {
			t.Errorf("Analyzer.OfferDiscount = %v, want 0.25", cfg.Analyzer.OfferDiscount)
		}
		if !cfg.LLM.Enabled || cfg.LLM.Provider != "ollama" || cfg.LLM.Model != "llama3" {
			t.Errorf("LLM config = %+v, want enabled ollama/llama3", cfg.LLM)
		}
	})

	t.Run("rejects inverted outlier bounds", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SERPCHECK_ANALYZER_OUTLIER_MIN", "500")
		os.Setenv("SERPCHECK_ANALYZER_OUTLIER_MAX", "100")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() should fail when outlier_max <= outlier_min")
		}
	})

	t.Run("rejects offer discount outside (0,1)", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SERPCHECK_ANALYZER_OFFER_DISCOUNT", "15")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() should fail for a discount above 1")
		}
	})

	t.Run("rejects openai without api key", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SERPCHECK_LLM_ENABLED", "true")
		os.Setenv("SERPCHECK_LLM_PROVIDER", "openai")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() should fail when openai is enabled without an API key")
		}
	})

	t.Run("rejects unknown llm provider", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SERPCHECK_LLM_ENABLED", "true")
		os.Setenv("SERPCHECK_LLM_PROVIDER", "bard")
		os.Setenv("SERPCHECK_LLM_API_KEY", "key")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() should fail for an unknown provider")
		}
	})
}
