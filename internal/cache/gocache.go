package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

func init() {
	Register("gocache", newGoCache)
}

// goCache implements Cache with patrickmn/go-cache, which tracks a deadline per item
// natively and sweeps expired items in the background. It has no size bound, so
// Size is ignored.
type goCache struct {
	inner  *gocache.Cache
	maxTTL time.Duration
}

func newGoCache(cfg ProviderConfig) (Cache, error) {
	cleanup := cfg.TTL
	if cleanup <= 0 || cleanup > 10*time.Minute {
		cleanup = 10 * time.Minute
	}
	inner := gocache.New(cfg.TTL, cleanup)
	if cfg.OnEvict != nil {
		inner.OnEvicted(func(key string, value interface{}) {
			b, _ := value.([]byte)
			cfg.OnEvict(key, b)
		})
	}
	return &goCache{inner: inner, maxTTL: cfg.TTL}, nil
}

func (g *goCache) Get(key string) ([]byte, bool) {
	v, ok := g.inner.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (g *goCache) Set(key string, value []byte, ttl time.Duration) {
	ttl = clampTTL(ttl, g.maxTTL)
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	g.inner.Set(key, value, ttl)
}

func (g *goCache) Contains(key string) bool {
	_, ok := g.inner.Get(key)
	return ok
}

func (g *goCache) Len() int {
	return g.inner.ItemCount()
}

func (g *goCache) Close() error {
	g.inner.Flush()
	return nil
}
