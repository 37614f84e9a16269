package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryEntry carries its own deadline so entries can live shorter than the LRU-wide TTL.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memoryCache wraps hashicorp/golang-lru/v2/expirable to implement the Cache interface.
// The LRU enforces size and the maximum TTL; per-entry deadlines are checked on read.
type memoryCache struct {
	inner  *lru.LRU[string, memoryEntry]
	maxTTL time.Duration
	now    func() time.Time
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	var onEvict func(string, memoryEntry)
	if cfg.OnEvict != nil {
		onEvict = func(key string, entry memoryEntry) {
			cfg.OnEvict(key, entry.value)
		}
	}
	return &memoryCache{
		inner:  lru.NewLRU[string, memoryEntry](cfg.Size, onEvict, cfg.TTL),
		maxTTL: cfg.TTL,
		now:    time.Now,
	}, nil
}

func (m *memoryCache) Get(key string) ([]byte, bool) {
	entry, ok := m.inner.Get(key)
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.inner.Remove(key)
		return nil, false
	}
	return entry.value, true
}

func (m *memoryCache) Set(key string, value []byte, ttl time.Duration) {
	entry := memoryEntry{value: value}
	if ttl = clampTTL(ttl, m.maxTTL); ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.inner.Add(key, entry)
}

func (m *memoryCache) Contains(key string) bool {
	entry, ok := m.inner.Peek(key)
	if !ok {
		return false
	}
	return entry.expiresAt.IsZero() || m.now().Before(entry.expiresAt)
}

func (m *memoryCache) Len() int {
	return m.inner.Len()
}

func (m *memoryCache) Close() error {
	return nil
}
