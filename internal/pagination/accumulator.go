// Package pagination accumulates the pages of a list as the visitor asks for more.
package pagination

import (
	"context"
	"errors"
	"sync"

	"github.com/Belphemur/Raznime/internal/apperrors"
	"github.com/Belphemur/Raznime/internal/config"
	"github.com/Belphemur/Raznime/internal/metrics"
)

// InitialPage is the first page an accumulator fetches; page 1 is rendered with the list.
const InitialPage = 2

// FetchFunc loads one page and reports whether another one follows.
type FetchFunc[T any] func(ctx context.Context, page int) (items []T, hasNextPage bool, err error)

// Notifier receives user-facing messages for failed fetches.
type Notifier interface {
	Notify(message string)
}

// State is a point-in-time copy of an accumulator.
type State[T any] struct {
	Items       []T
	CurrentPage int
	IsLoading   bool
	HasNextPage bool
}

// Accumulator appends successive pages of a list. Items are append-only and no page is
// fetched once the upstream reports there is no next page.
type Accumulator[T any] struct {
	mu          sync.Mutex
	kind        string
	items       []T
	currentPage int
	isLoading   bool
	hasNextPage bool
	fetch       FetchFunc[T]
	notifier    Notifier
}

// New starts an accumulator over the already rendered first page.
func New[T any](kind string, initial []T, hasNextPage bool, fetch FetchFunc[T], notifier Notifier) *Accumulator[T] {
	return &Accumulator[T]{
		kind:        kind,
		items:       append([]T(nil), initial...),
		currentPage: InitialPage,
		hasNextPage: hasNextPage,
		fetch:       fetch,
		notifier:    notifier,
	}
}

// FetchNextPage loads the current page and reports whether items were appended. It
// returns false straight away while a fetch is in flight or when the list is exhausted.
// A failed fetch leaves the state as it was so the next call retries the same page.
func (a *Accumulator[T]) FetchNextPage(ctx context.Context) bool {
	_, ok := a.NextPage(ctx)
	return ok
}

// NextPage is FetchNextPage that also returns the items this call appended.
func (a *Accumulator[T]) NextPage(ctx context.Context) ([]T, bool) {
	a.mu.Lock()
	if a.isLoading || !a.hasNextPage {
		a.mu.Unlock()
		metrics.PaginationFetchesTotal.WithLabelValues(a.kind, "skipped").Inc()
		return nil, false
	}
	a.isLoading = true
	page := a.currentPage
	a.mu.Unlock()

	items, hasNext, err := a.fetch(ctx, page)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.isLoading = false

	if err != nil {
		metrics.PaginationFetchesTotal.WithLabelValues(a.kind, "error").Inc()
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("kind", a.kind).Int("page", page).Msg("Failed to fetch next page")
		if a.notifier != nil {
			a.notifier.Notify(UserMessage(err))
		}
		return nil, false
	}

	metrics.PaginationFetchesTotal.WithLabelValues(a.kind, "success").Inc()
	a.items = append(a.items, items...)
	a.currentPage++
	a.hasNextPage = hasNext
	return append([]T(nil), items...), true
}

// Snapshot copies the current state.
func (a *Accumulator[T]) Snapshot() State[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State[T]{
		Items:       append([]T(nil), a.items...),
		CurrentPage: a.currentPage,
		IsLoading:   a.isLoading,
		HasNextPage: a.hasNextPage,
	}
}

// UserMessage is the toast text for a fetch error.
func UserMessage(err error) string {
	var upstream *apperrors.ErrUpstream
	if errors.As(err, &upstream) && upstream.Message != "" {
		return upstream.Message
	}
	var empty *apperrors.ErrEmptyResult
	if errors.As(err, &empty) {
		return empty.Error()
	}
	return apperrors.MsgListFetchFailed
}
