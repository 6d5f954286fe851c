package detect

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vigia-io/vigia/internal/cache"
	"github.com/vigia-io/vigia/internal/gazetteer"
	"github.com/vigia-io/vigia/internal/model"
	"github.com/vigia-io/vigia/internal/observability"
)

// Detector runs a prioritized provider chain. A provider failure is logged
// and the next provider tried; Detect never returns an error. If every
// provider fails the document simply yields zero candidates.
type Detector struct {
	providers []Provider
	timeout   time.Duration
	metrics   *observability.Metrics
	verbose   bool
}

// NewDetector assembles the chain from configuration: AI extraction first
// when a key is configured, then the statistical NER service when one is
// configured, and always the pattern+gazetteer provider last so the detector
// works with zero external providers.
func NewDetector(cfg model.DetectorConfig, gaz *gazetteer.Holder, metrics *observability.Metrics, verbose bool) *Detector {
	var providers []Provider

	// External providers share one extraction cache; the pattern provider
	// is local and needs none.
	var extractionCache cache.Cache
	if cfg.CacheDir != "" {
		extractionCache = cache.NewLayeredCache(cfg.CacheTTL, cfg.CacheDir, cfg.CacheTTL)
	} else {
		extractionCache = cache.NewMemoryCache(cfg.CacheTTL, 10*time.Minute)
	}

	if cfg.Provider == "openai" && cfg.APIKey != "" {
		providers = append(providers, NewCachedProvider(NewAIProvider(cfg), extractionCache, cfg.CacheTTL))
	}
	if cfg.NERURL != "" {
		providers = append(providers, NewCachedProvider(NewNERProvider(cfg), extractionCache, cfg.CacheTTL))
	}
	providers = append(providers, NewPatternProvider(gaz, cfg.ContextWindow))

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Detector{providers: providers, timeout: timeout, metrics: metrics, verbose: verbose}
}

// NewChain builds a detector from an explicit provider list, highest
// priority first. Used by tests and by callers that assemble their own chain.
func NewChain(timeout time.Duration, providers ...Provider) *Detector {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Detector{providers: providers, timeout: timeout}
}

// Detect extracts toponym candidates for one document. The first provider
// that answers without error wins; its result is final even when empty.
func (d *Detector) Detect(ctx context.Context, title, body string) []Candidate {
	for _, p := range d.providers {
		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		candidates, err := p.Extract(callCtx, title, body)
		cancel()
		if err != nil {
			d.count(p.Name(), "error")
			fmt.Fprintf(os.Stderr, "detect: provider %s failed, falling through: %v\n", p.Name(), err)
			continue
		}
		if len(candidates) == 0 {
			d.count(p.Name(), "empty")
		} else {
			d.count(p.Name(), "success")
		}
		if d.verbose {
			fmt.Fprintf(os.Stderr, "detect: provider %s found %d candidates\n", p.Name(), len(candidates))
		}
		return candidates
	}
	return nil
}

func (d *Detector) count(provider, outcome string) {
	if d.metrics != nil {
		d.metrics.DetectRequests.WithLabelValues(provider, outcome).Inc()
	}
}

// Providers returns the chain in priority order.
func (d *Detector) Providers() []Provider {
	return d.providers
}
