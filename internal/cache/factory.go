package cache

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// ProviderConfig is what a provider needs to open a cache.
type ProviderConfig struct {
	// Size caps the entry count of in-process providers.
	Size int
	// TTL is the longest any entry lives; Set may ask for less.
	TTL time.Duration
	// OnEvict, when the provider supports it, sees every dropped entry.
	OnEvict EvictCallback
	// Logger gets backend failures. Nil discards them.
	Logger Logger

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	// KeyPrefix separates this app's keys in a shared Redis. Empty means "raznime:".
	KeyPrefix string

	// Group labels the cache metrics. An empty Group leaves the cache uninstrumented.
	Group string
}

// Provider opens a Cache.
type Provider func(cfg ProviderConfig) (Cache, error)

var providers = struct {
	sync.RWMutex
	byName map[string]Provider
}{byName: make(map[string]Provider)}

// Register makes a provider available to New under name. Registering nil or a taken
// name panics; providers register from init.
func Register(name string, p Provider) {
	if p == nil {
		panic("cache: nil provider for " + name)
	}
	providers.Lock()
	defer providers.Unlock()
	if _, taken := providers.byName[name]; taken {
		panic(fmt.Sprintf("cache: provider %q registered twice", name))
	}
	providers.byName[name] = p
}

// New opens a cache with the named provider. A non-empty cfg.Group adds hit, miss,
// set, eviction and size metrics under that label.
func New(name string, cfg ProviderConfig) (Cache, error) {
	providers.RLock()
	open, ok := providers.byName[name]
	providers.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q, have %v", name, RegisteredProviders())
	}
	if cfg.Group == "" {
		return open(cfg)
	}

	group, onEvict := cfg.Group, cfg.OnEvict
	cfg.OnEvict = func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if onEvict != nil {
			onEvict(key, value)
		}
	}
	inner, err := open(cfg)
	if err != nil {
		return nil, err
	}
	return instrument(inner, group), nil
}

// RegisteredProviders lists provider names in order.
func RegisteredProviders() []string {
	providers.RLock()
	defer providers.RUnlock()
	names := make([]string, 0, len(providers.byName))
	for name := range providers.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
