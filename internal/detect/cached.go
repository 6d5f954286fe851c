package detect

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vigia-io/vigia/internal/cache"
)

// CachedProvider memoizes an external provider's candidates keyed by the
// document text, so re-ingesting near-identical batches and dry runs do not
// spend provider calls twice. Only successful extractions are cached.
type CachedProvider struct {
	inner Provider
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps a provider with a cache.
func NewCachedProvider(inner Provider, c cache.Cache, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &CachedProvider{inner: inner, cache: c, ttl: ttl}
}

// Name identifies the wrapped provider.
func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

// Extract returns cached candidates when the exact text was extracted
// before, otherwise calls through and caches the result.
func (p *CachedProvider) Extract(ctx context.Context, title, body string) ([]Candidate, error) {
	key := cache.CacheKey(p.inner.Name() + "\x00" + FullText(title, body))
	if data, ok := p.cache.Get(key); ok {
		var candidates []Candidate
		if err := json.Unmarshal(data, &candidates); err == nil {
			return candidates, nil
		}
		// Corrupt entry, fall through to a fresh extraction.
		_ = p.cache.Delete(key)
	}

	candidates, err := p.inner.Extract(ctx, title, body)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(candidates); err == nil {
		_ = p.cache.Set(key, data, p.ttl)
	}
	return candidates, nil
}

// Available defers to the wrapped provider.
func (p *CachedProvider) Available(ctx context.Context) bool {
	return p.inner.Available(ctx)
}
