package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Matching MatchingConfig
	Analyzer AnalyzerConfig
	LLM      LLMConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MatchingConfig holds title matching configuration
type MatchingConfig struct {
	Debug bool `mapstructure:"debug"`
}

// AnalyzerConfig holds market analysis thresholds
type AnalyzerConfig struct {
	OutlierMin       float64 `mapstructure:"outlier_min"`
	OutlierMax       float64 `mapstructure:"outlier_max"`
	OfferDiscount    float64 `mapstructure:"offer_discount"`
	CheaperMargin    float64 `mapstructure:"cheaper_margin"`
	DistributionBins int     `mapstructure:"distribution_bins"`
}

// LLMConfig holds the optional title enrichment configuration
type LLMConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"` // "openai" or "ollama"
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/serp-price-checker/")

	v.SetEnvPrefix("SERPCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	// the dashboard runs on 8501 in development
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8501"})

	v.SetDefault("matching.debug", false)

	v.SetDefault("analyzer.outlier_min", 10.0)
	v.SetDefault("analyzer.outlier_max", 10000.0)
	v.SetDefault("analyzer.offer_discount", 0.15)
	v.SetDefault("analyzer.cheaper_margin", 0.0)
	v.SetDefault("analyzer.distribution_bins", 10)

	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.cache_ttl", "168h") // 7 days

}

// validate validates the configuration
func validate(config *Config) error {
	if config.Analyzer.OutlierMin < 0 {
		return fmt.Errorf("analyzer outlier_min must not be negative, got: %v", config.Analyzer.OutlierMin)
	}
	if config.Analyzer.OutlierMax <= config.Analyzer.OutlierMin {
		return fmt.Errorf("analyzer outlier_max must be above outlier_min, got: %v <= %v",
			config.Analyzer.OutlierMax, config.Analyzer.OutlierMin)
	}
	if config.Analyzer.OfferDiscount <= 0 || config.Analyzer.OfferDiscount >= 1 {
		return fmt.Errorf("analyzer offer_discount must be a fraction in (0, 1), got: %v", config.Analyzer.OfferDiscount)
	}
	if config.Analyzer.DistributionBins <= 0 {
		return fmt.Errorf("analyzer distribution_bins must be positive, got: %d", config.Analyzer.DistributionBins)
	}

	if config.LLM.Enabled {
		switch config.LLM.Provider {
		case "openai":
			if config.LLM.APIKey == "" {
				return fmt.Errorf("LLM API key is required for openai (set SERPCHECK_LLM_API_KEY)")
			}
		case "ollama":
			// server URL defaults to the local daemon when unset
		default:
			return fmt.Errorf("LLM provider must be 'openai' or 'ollama', got: %s", config.LLM.Provider)
		}
	}

	return nil
}
