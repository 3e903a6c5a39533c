package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CollectionKey generates a cache key for one platform's collected data
// for one identifier.
func CollectionKey(platform, identifier string) string {
	hash := sha256.Sum256([]byte(platform + "\x00" + identifier))
	return "shadowhorn:v1:collect:" + hex.EncodeToString(hash[:])
}

// CorrelationKey generates a cache key for a correlation document.
func CorrelationKey(identifier, mode string) string {
	hash := sha256.Sum256([]byte(identifier + "\x00" + mode))
	return "shadowhorn:v1:correlate:" + hex.EncodeToString(hash[:])
}
