package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Upstream is a fake catalog API. Routes are matched on the request path only; the
// query string is recorded so tests can assert on page numbers.
type Upstream struct {
	*httptest.Server

	mu      sync.Mutex
	routes  map[string]http.HandlerFunc
	hits    map[string]int
	queries map[string][]string
}

// NewUpstream starts a fake upstream that answers 404 for unknown paths. It is closed
// when the test ends.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{
		routes:  make(map[string]http.HandlerFunc),
		hits:    make(map[string]int),
		queries: make(map[string][]string),
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.hits[r.URL.Path]++
	u.queries[r.URL.Path] = append(u.queries[r.URL.Path], r.URL.RawQuery)
	h, ok := u.routes[r.URL.Path]
	u.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h(w, r)
}

// Handle registers h for path.
func (u *Upstream) Handle(path string, h http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[path] = h
}

// JSON answers path with v encoded as JSON and status 200.
func (u *Upstream) JSON(path string, v any) {
	u.Handle(path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	})
}

// Status answers path with an empty body and the given status.
func (u *Upstream) Status(path string, status int) {
	u.Handle(path, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	})
}

// Hits returns how many requests reached path.
func (u *Upstream) Hits(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[path]
}

// Queries returns the raw query strings received for path, in arrival order.
func (u *Upstream) Queries(path string) []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.queries[path]...)
}
