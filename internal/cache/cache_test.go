package cache

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCacheKeyStable(t *testing.T) {
	a := CacheKey("ai\x00Corte de ruta en la RM")
	b := CacheKey("ai\x00Corte de ruta en la RM")
	if a != b {
		t.Errorf("same text must derive the same key: %q vs %q", a, b)
	}
	if a == CacheKey("ner\x00Corte de ruta en la RM") {
		t.Error("different texts must derive different keys")
	}
	if !strings.HasPrefix(a, "vigia:v1:") {
		t.Errorf("key = %q, want the versioned prefix", a)
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("missing key must report not found")
	}
	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get("k")
	if !ok || !bytes.Equal(got, []byte("v")) {
		t.Errorf("Get = %q, %v", got, ok)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("deleted key must be gone")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry must report not found")
	}
}

func TestDiskCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := NewDiskCache(dir, time.Minute)
	if err := first.Set(CacheKey("texto"), []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	second := NewDiskCache(dir, time.Minute)
	got, ok := second.Get(CacheKey("texto"))
	if !ok || !bytes.Equal(got, []byte("payload")) {
		t.Errorf("Get = %q, %v; entries must survive a restart", got, ok)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry must report not found")
	}
}

func TestDiskCacheClear(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("cleared cache must be empty")
	}
}

func TestLayeredCachePromotesFromDisk(t *testing.T) {
	dir := t.TempDir()

	// Seed disk only, simulating a previous process.
	if err := NewDiskCache(dir, time.Minute).Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	got, ok := layered.Get("k")
	if !ok || !bytes.Equal(got, []byte("v")) {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	// After promotion the entry must be served even if the disk copy goes away.
	if err := NewDiskCache(dir, time.Minute).Delete("k"); err != nil {
		t.Fatalf("delete disk copy: %v", err)
	}
	if _, ok := layered.Get("k"); !ok {
		t.Error("promoted entry must be served from memory")
	}
}

func TestLayeredCacheWritesBothLayers(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Minute)

	if err := layered.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := NewDiskCache(dir, time.Minute).Get("k"); !ok {
		t.Error("layered Set must reach the disk layer")
	}
}
