package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

// caller is the slice of the langchaingo model surface the extractor needs.
type caller interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// Config selects and parameterizes the language model behind the extractor.
type Config struct {
	Provider string // "openai" or "ollama"
	APIKey   string
	BaseURL  string
	Model    string
	Debug    bool
}

// Extractor pulls structured product attributes out of noisy SERP titles
// with a language model. Implements domain.TitleEnricher.
type Extractor struct {
	model       caller
	rateLimiter *rate.Limiter
	debug       bool
}

const extractionPrompt = `Extrae los atributos del siguiente título de producto de una página de resultados de búsqueda.
Responde únicamente con un objeto JSON con estas claves:
  "brand": la marca del producto, o "" si no aparece
  "model": el código de modelo o SKU, o "" si no aparece
  "series": la familia o serie del producto, o "" si no aparece
  "keywords": lista de palabras descriptivas relevantes

Título: %s`

// NewExtractor builds an extractor for the configured provider. Requests
// are rate limited to one per second with a small burst to stay inside
// typical API quotas.
func NewExtractor(cfg Config) (*Extractor, error) {
	var model caller
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "ollama":
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		model, err = ollama.New(opts...)
	case "openai":
		opts := []openai.Option{openai.WithModel(cfg.Model), openai.WithToken(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm provider %s: %w", cfg.Provider, err)
	}

	return &Extractor{
		model:       model,
		rateLimiter: rate.NewLimiter(rate.Limit(1), 4),
		debug:       cfg.Debug,
	}, nil
}

// ExtractAttributes asks the model for the brand, model code and keywords in
// title. Transient failures are retried up to 3 times with linear backoff;
// a persistent failure surfaces as domain.ErrEnrichmentFailure so callers
// can fall back to heuristic parsing.
func (e *Extractor) ExtractAttributes(ctx context.Context, title string) (*domain.TitleAttributes, error) {
	prompt := fmt.Sprintf(extractionPrompt, title)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := e.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		response, err := e.model.Call(ctx, prompt, llms.WithJSONMode())
		if err != nil {
			if e.debug {
				log.Printf("[LLM] call error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt*500) * time.Millisecond):
			}
			continue
		}

		attrs, err := parseAttributes(response)
		if err != nil {
			if e.debug {
				log.Printf("[LLM] bad response (attempt %d): %v", attempt, err)
			}
			lastErr = err
			continue
		}
		if e.debug {
			log.Printf("[LLM] %q -> brand=%q model=%q", title, attrs.Brand, attrs.Model)
		}
		return attrs, nil
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrEnrichmentFailure, lastErr)
}

// parseAttributes decodes the model response, tolerating markdown code
// fences some models wrap around JSON output.
func parseAttributes(response string) (*domain.TitleAttributes, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var attrs domain.TitleAttributes
	if err := json.Unmarshal([]byte(cleaned), &attrs); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	return &attrs, nil
}
