package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

var memoGroup singleflight.Group

// Memoize returns the cached JSON value for key, or runs fn once across concurrent
// callers, stores its result for ttl and returns it. Errors are never cached.
func Memoize[T any](c Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	if raw, ok := c.Get(key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	v, err, _ := memoGroup.Do(key, func() (interface{}, error) {
		result, err := fn()
		if err != nil {
			return result, err
		}
		raw, err := json.Marshal(result)
		if err != nil {
			return result, fmt.Errorf("memoize %s: encode: %w", key, err)
		}
		c.Set(key, raw, ttl)
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
