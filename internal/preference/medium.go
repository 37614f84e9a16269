package preference

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// MemoryMedium keeps values in process memory.
type MemoryMedium struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryMedium creates an empty MemoryMedium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{values: make(map[string][]byte)}
}

func (m *MemoryMedium) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryMedium) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// CookieMedium stores values in browser cookies, one cookie per key. It is bound to
// a single request: reads come from the request, writes go to the response and are
// visible to later reads of the same request.
type CookieMedium struct {
	w       http.ResponseWriter
	r       *http.Request
	maxAge  time.Duration
	written map[string][]byte
}

// NewCookieMedium binds a medium to one request/response pair.
func NewCookieMedium(w http.ResponseWriter, r *http.Request, maxAge time.Duration) *CookieMedium {
	return &CookieMedium{w: w, r: r, maxAge: maxAge, written: make(map[string][]byte)}
}

func (c *CookieMedium) Get(key string) ([]byte, bool, error) {
	if v, ok := c.written[key]; ok {
		return v, true, nil
	}
	cookie, err := c.r.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	decoded, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil, false, fmt.Errorf("decode cookie %s: %w", key, err)
	}
	return decoded, true, nil
}

func (c *CookieMedium) Set(key string, value []byte) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    base64.RawURLEncoding.EncodeToString(value),
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.written[key] = append([]byte(nil), value...)
	return nil
}
