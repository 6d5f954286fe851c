package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles ingestion per source so one noisy feed cannot starve the
// detection providers for everyone else.
type Limiter struct {
	limiters     map[int64]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a per-source limiter with shared defaults.
func NewLimiter(docsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		limiters:     make(map[int64]*rate.Limiter),
		defaultRate:  rate.Limit(docsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the source is clear to ingest another document.
func (l *Limiter) Wait(ctx context.Context, sourceID int64) error {
	return l.getLimiter(sourceID).Wait(ctx)
}

// Allow reports whether a document from the source may proceed right now.
func (l *Limiter) Allow(sourceID int64) bool {
	return l.getLimiter(sourceID).Allow()
}

func (l *Limiter) getLimiter(sourceID int64) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[sourceID]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists := l.limiters[sourceID]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[sourceID] = limiter
	return limiter
}

// SetSourceRate overrides the rate for one source.
func (l *Limiter) SetSourceRate(sourceID int64, docsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.limiters[sourceID] = rate.NewLimiter(rate.Limit(docsPerSecond), burst)
}
