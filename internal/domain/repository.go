package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// TitleEnricher is the optional LLM collaborator: raw title in, structured
// attributes out. Implementations own their own retries and timeouts; any
// error from them degrades to the heuristic token path, never aborts a run.
type TitleEnricher interface {
	ExtractAttributes(ctx context.Context, title string) (*TitleAttributes, error)
}
