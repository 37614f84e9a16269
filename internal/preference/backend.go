package preference

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Belphemur/Raznime/internal/config"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// VisitorCookie identifies a browser for server-side media.
const VisitorCookie = "raznime_visitor"

const (
	defaultCookieMaxAge = 365 * 24 * time.Hour
	memoryVisitors      = 4096
	memoryVisitorTTL    = 24 * time.Hour
)

// Backend hands every request a Store over the configured medium.
type Backend struct {
	kind   string
	maxAge time.Duration
	bolt   *BoltDB

	mu       sync.Mutex
	visitors *lru.LRU[string, *MemoryMedium]
}

// NewBackend builds the backend named by cfg.Preferences.Backend: "cookie" (default),
// "bolt" or "memory".
func NewBackend(cfg *config.Config) (*Backend, error) {
	b := &Backend{
		kind:   cfg.Preferences.Backend,
		maxAge: config.ParseDuration("preferences.cookie_max_age", cfg.Preferences.CookieMaxAge, defaultCookieMaxAge),
	}
	switch b.kind {
	case "", "cookie":
		b.kind = "cookie"
	case "bolt":
		db, err := OpenBolt(cfg.Preferences.BoltPath)
		if err != nil {
			return nil, err
		}
		b.bolt = db
	case "memory":
		b.visitors = lru.NewLRU[string, *MemoryMedium](memoryVisitors, nil, memoryVisitorTTL)
	default:
		return nil, fmt.Errorf("preference: unknown backend %q", b.kind)
	}
	return b, nil
}

// Kind returns the resolved backend name.
func (b *Backend) Kind() string {
	return b.kind
}

// StoreFor returns the Store of the visitor making r. Server-side media issue a
// visitor cookie on first use.
func (b *Backend) StoreFor(w http.ResponseWriter, r *http.Request) *Store {
	switch b.kind {
	case "bolt":
		return NewStore(b.bolt.Medium(b.VisitorID(w, r)))
	case "memory":
		id := b.VisitorID(w, r)
		b.mu.Lock()
		defer b.mu.Unlock()
		m, ok := b.visitors.Get(id)
		if !ok {
			m = NewMemoryMedium()
			b.visitors.Add(id, m)
		}
		return NewStore(m)
	default:
		return NewStore(NewCookieMedium(w, r, b.maxAge))
	}
}

// Close releases the bolt file, if any.
func (b *Backend) Close() error {
	if b.bolt != nil {
		return b.bolt.Close()
	}
	return nil
}

// VisitorID returns the visitor cookie of r, issuing a new one on w when r has none.
// Every backend kind issues it.
func (b *Backend) VisitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(VisitorCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := newVisitorID()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(b.maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.AddCookie(&http.Cookie{Name: VisitorCookie, Value: id})
	return id
}

func newVisitorID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
