package dedupe

import (
	"strconv"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/vigia-io/vigia/internal/model"
)

// DefaultWindowSize bounds the recent-fingerprint window when the
// configuration does not set one.
const DefaultWindowSize = 150

// Filter gates documents before they reach the detector. It keeps a bounded
// recent window of fingerprints (at most WindowSize entries, each expiring
// after WindowTTL) and suppresses any incoming document within the Hamming
// threshold of one of them. Exact duplicates are suppressed regardless of the
// threshold. The count cap keeps Seen's linear scan bounded under bursts.
type Filter struct {
	mu        sync.Mutex
	recent    *gocache.Cache
	order     []string // insertion order, oldest first
	limit     int
	threshold int
}

// NewFilter builds the near-duplicate filter.
func NewFilter(cfg model.DedupeConfig) *Filter {
	threshold := cfg.HammingThreshold
	if threshold <= 0 {
		threshold = 3
	}
	limit := cfg.WindowSize
	if limit <= 0 {
		limit = DefaultWindowSize
	}
	ttl := cfg.WindowTTL
	if ttl <= 0 {
		return &Filter{
			recent:    gocache.New(gocache.NoExpiration, 0),
			limit:     limit,
			threshold: threshold,
		}
	}
	return &Filter{
		recent:    gocache.New(ttl, ttl/2),
		limit:     limit,
		threshold: threshold,
	}
}

// Seen reports whether the fingerprint duplicates a recent document.
// It does not record the fingerprint; call Remember after the document is
// accepted so rejected documents leave no trace.
func (f *Filter) Seen(fp uint64) bool {
	key := fingerprintKey(fp)
	if _, exact := f.recent.Get(key); exact {
		return true
	}
	for k := range f.recent.Items() {
		prev, err := strconv.ParseUint(k, 16, 64)
		if err != nil {
			continue
		}
		if IsNearDuplicate(fp, prev, f.threshold) {
			return true
		}
	}
	return false
}

// Remember records an accepted document's fingerprint in the window,
// evicting the oldest entries once the window is full.
func (f *Filter) Remember(fp uint64) {
	key := fingerprintKey(fp)
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, live := f.recent.Get(key); !live {
		// A TTL-expired entry may have left a stale position behind; drop it
		// so a later eviction of that position cannot remove the fresh copy.
		for i, k := range f.order {
			if k == key {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
		f.order = append(f.order, key)
	}
	f.recent.SetDefault(key, struct{}{})

	for len(f.order) > f.limit {
		f.recent.Delete(f.order[0])
		f.order = f.order[1:]
	}
}

// Len returns the current window size.
func (f *Filter) Len() int {
	return f.recent.ItemCount()
}

func fingerprintKey(fp uint64) string {
	return strconv.FormatUint(fp, 16)
}
