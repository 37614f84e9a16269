package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backed tests need a reachable server. Point REDIS_ADDRESS at one
// (e.g. "localhost:6379") to run them; DB 15 is flushed before each test.

const redisTestDB = 15

func redisAddrOrSkip(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_ADDRESS not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: redisTestDB})
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis test db: %v", err)
	}
	return addr
}

func openRedisCache(t *testing.T, size int, ttl time.Duration, onEvict EvictCallback) Cache {
	t.Helper()
	addr := redisAddrOrSkip(t)
	c, err := New("redis", ProviderConfig{
		Size:         size,
		TTL:          ttl,
		RedisAddress: addr,
		RedisDB:      redisTestDB,
		KeyPrefix:    "raznime-test:",
		OnEvict:      onEvict,
	})
	if err != nil {
		t.Fatalf("New redis cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c := openRedisCache(t, 100, time.Minute, nil)

	if val, ok := c.Get("anime/gogoanime/top-airing?page=1"); ok || val != nil {
		t.Fatalf("Expected miss on clean db, got %q", val)
	}

	c.Set("anime/gogoanime/top-airing?page=1", []byte(`{"results":[]}`), 30*time.Second)
	val, ok := c.Get("anime/gogoanime/top-airing?page=1")
	if !ok || string(val) != `{"results":[]}` {
		t.Fatalf("Expected stored body, got %q (hit=%v)", val, ok)
	}
	if !c.Contains("anime/gogoanime/top-airing?page=1") {
		t.Fatal("Expected Contains to report the stored key")
	}
	if c.Len() != 1 {
		t.Fatalf("Expected Len 1, got %d", c.Len())
	}
}

func TestRedisCache_PerEntryTTL(t *testing.T) {
	c := openRedisCache(t, 100, time.Minute, nil)

	c.Set("short", []byte("1"), 50*time.Millisecond)
	c.Set("long", []byte("2"), time.Minute)
	time.Sleep(150 * time.Millisecond)

	if c.Contains("short") {
		t.Fatal("Expected the short-lived field to have expired")
	}
	if !c.Contains("long") {
		t.Fatal("Expected the long-lived field to remain")
	}
}

func TestRedisCache_EvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := openRedisCache(t, 2, time.Minute, func(key string, _ []byte) {
		evicted = append(evicted, key)
	})

	c.Set("naruto", []byte("1"), 0)
	c.Set("bleach", []byte("2"), 0)
	_, _ = c.Get("naruto")
	c.Set("one-piece", []byte("3"), 0)

	if c.Contains("bleach") {
		t.Fatal("Expected the untouched entry to be evicted")
	}
	if !c.Contains("naruto") || !c.Contains("one-piece") {
		t.Fatal("Expected the touched and newest entries to remain")
	}
	if len(evicted) != 1 || evicted[0] != "bleach" {
		t.Fatalf("Expected eviction callback for bleach, got %v", evicted)
	}
}
