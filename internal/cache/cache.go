package cache

import "time"

// EvictCallback is called when an entry is evicted from the cache.
// Not all providers support eviction callbacks (e.g., Redis relies on server-side eviction).
type EvictCallback func(key string, value []byte)

// Cache defines the interface for key-value caching of upstream responses.
// Implementations may use in-memory storage or external backends like Redis/Valkey.
type Cache interface {
	// Get retrieves a value by key. Returns the value and true if found and not expired.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given key for ttl. A ttl of zero or one above the
	// provider's configured TTL is clamped to the configured TTL.
	Set(key string, value []byte, ttl time.Duration)

	// Contains checks whether a live key exists without affecting LRU ordering.
	Contains(key string) bool

	// Len returns the number of entries currently in the cache.
	// For external backends like Redis, this may include entries not yet lazily expired.
	Len() int

	// Close releases any resources held by the cache (e.g., network connections).
	Close() error
}

// Logger receives error reports from cache backends.
type Logger interface {
	Error(msg string, err error)
}

// clampTTL bounds a per-entry ttl by the provider maximum.
func clampTTL(ttl, max time.Duration) time.Duration {
	if max <= 0 {
		return ttl
	}
	if ttl <= 0 || ttl > max {
		return max
	}
	return ttl
}
