package pagination

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/Belphemur/Raznime/internal/metrics"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Inbox collects notifications until the page drains them.
type Inbox struct {
	mu       sync.Mutex
	messages []string
}

// Notify implements Notifier.
func (i *Inbox) Notify(message string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.messages = append(i.messages, message)
}

// Drain returns and clears the pending messages.
func (i *Inbox) Drain() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.messages
	i.messages = nil
	return out
}

// Session is one rendered list and its accumulator.
type Session[T any] struct {
	ID    string
	Kind  string
	Query string
	Acc   *Accumulator[T]
	Inbox *Inbox
}

// Registry keeps list sessions alive for a bounded time and count.
type Registry[T any] struct {
	// mu orders inserts so a refresh never re-adds a session a Create just evicted.
	mu       sync.Mutex
	sessions *lru.LRU[string, *Session[T]]
}

// NewRegistry creates a registry holding at most size sessions, each for ttl after its
// last use.
func NewRegistry[T any](size int, ttl time.Duration) *Registry[T] {
	onEvict := func(string, *Session[T]) {
		metrics.PaginationSessions.Dec()
	}
	return &Registry[T]{sessions: lru.NewLRU[string, *Session[T]](size, onEvict, ttl)}
}

// Create registers a session whose page 1 already holds initial.
func (r *Registry[T]) Create(kind, query string, initial []T, hasNextPage bool, fetch FetchFunc[T]) *Session[T] {
	inbox := &Inbox{}
	s := &Session[T]{
		ID:    newSessionID(),
		Kind:  kind,
		Query: query,
		Acc:   New(kind, initial, hasNextPage, fetch, inbox),
		Inbox: inbox,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	metrics.PaginationSessions.Inc()
	r.sessions.Add(s.ID, s)
	return s
}

// Get looks a session up and refreshes its expiry.
func (r *Registry[T]) Get(id string) (*Session[T], bool) {
	s, ok := r.sessions.Get(id)
	if !ok {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions.Contains(id) {
		r.sessions.Add(id, s)
	}
	return s, true
}

// Len returns the number of live sessions.
func (r *Registry[T]) Len() int {
	return r.sessions.Len()
}

func newSessionID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
