package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a stable cache key from arbitrary text (typically the
// full document text handed to an extraction provider).
func CacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "vigia:v1:" + hex.EncodeToString(hash[:])
}
