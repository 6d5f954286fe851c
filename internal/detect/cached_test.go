package detect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vigia-io/vigia/internal/cache"
)

func TestCachedProviderMemoizesSuccess(t *testing.T) {
	inner := &stubProvider{name: "ai", cands: []Candidate{{Toponym: "Arica", Start: 3, Method: MethodAI, Confidence: 0.9}}}
	p := NewCachedProvider(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	first, err := p.Extract(context.Background(), "Arica", "cuerpo")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	second, err := p.Extract(context.Background(), "Arica", "cuerpo")
	if err != nil {
		t.Fatalf("cached Extract: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if len(second) != 1 || second[0] != first[0] {
		t.Errorf("cached candidates = %+v, want %+v", second, first)
	}
}

func TestCachedProviderKeyIncludesText(t *testing.T) {
	inner := &stubProvider{name: "ai"}
	p := NewCachedProvider(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	_, _ = p.Extract(context.Background(), "uno", "")
	_, _ = p.Extract(context.Background(), "dos", "")
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, distinct texts must not share entries", inner.calls)
	}
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	inner := &stubProvider{name: "ai", err: errors.New("rate limited")}
	p := NewCachedProvider(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	if _, err := p.Extract(context.Background(), "t", "b"); err == nil {
		t.Fatal("provider error must surface")
	}
	inner.err = nil
	inner.cands = []Candidate{{Toponym: "Arica"}}
	got, err := p.Extract(context.Background(), "t", "b")
	if err != nil || len(got) != 1 {
		t.Fatalf("recovered Extract = %+v, %v", got, err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, failures must not be cached", inner.calls)
	}
}

func TestCachedProviderRecoversFromCorruptEntry(t *testing.T) {
	inner := &stubProvider{name: "ai", cands: []Candidate{{Toponym: "Arica"}}}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	p := NewCachedProvider(inner, c, time.Minute)

	key := cache.CacheKey("ai\x00" + FullText("t", "b"))
	if err := c.Set(key, []byte("{not json"), time.Minute); err != nil {
		t.Fatal(err)
	}

	got, err := p.Extract(context.Background(), "t", "b")
	if err != nil || len(got) != 1 {
		t.Fatalf("Extract = %+v, %v", got, err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, corrupt entry must force a re-extract", inner.calls)
	}
}
