package cache

import "time"

// metered counts lookups and writes of the cache it wraps. Evictions are counted by the
// callback New installs, since only the provider sees them.
type metered struct {
	Cache
	group string
}

func instrument(inner Cache, group string) *metered {
	sizes.track(group, inner.Len)
	return &metered{Cache: inner, group: group}
}

func (m *metered) Get(key string) ([]byte, bool) {
	val, ok := m.Cache.Get(key)
	outcome := MissesTotal
	if ok {
		outcome = HitsTotal
	}
	outcome.WithLabelValues(m.group).Inc()
	return val, ok
}

func (m *metered) Set(key string, value []byte, ttl time.Duration) {
	m.Cache.Set(key, value, ttl)
	SetsTotal.WithLabelValues(m.group).Inc()
}

// Close stops reporting the group's size before closing the cache.
func (m *metered) Close() error {
	sizes.forget(m.group)
	return m.Cache.Close()
}
