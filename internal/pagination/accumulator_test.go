package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Belphemur/Raznime/internal/apperrors"
	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func pageOf(page int) []string {
	return []string{fmt.Sprintf("p%d-a", page), fmt.Sprintf("p%d-b", page)}
}

func TestFetchNextPage_AppendsAndAdvances(t *testing.T) {
	var pages []int
	fetch := func(_ context.Context, page int) ([]string, bool, error) {
		pages = append(pages, page)
		return pageOf(page), page < 3, nil
	}
	acc := New("movies", pageOf(1), true, fetch, nil)

	if !acc.FetchNextPage(context.Background()) {
		t.Fatal("Expected page 2 to be appended")
	}
	if !acc.FetchNextPage(context.Background()) {
		t.Fatal("Expected page 3 to be appended")
	}

	state := acc.Snapshot()
	want := append(append(pageOf(1), pageOf(2)...), pageOf(3)...)
	if diff := cmp.Diff(want, state.Items); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
	if state.CurrentPage != 4 || state.HasNextPage || state.IsLoading {
		t.Errorf("Unexpected state %+v", state)
	}
	if diff := cmp.Diff([]int{2, 3}, pages); diff != "" {
		t.Errorf("Fetched pages mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchNextPage_ConcurrentTriggersFetchOnce(t *testing.T) {
	var calls int32
	entered := make(chan struct{})
	release := make(chan struct{})
	fetch := func(_ context.Context, page int) ([]string, bool, error) {
		atomic.AddInt32(&calls, 1)
		close(entered)
		<-release
		return pageOf(page), true, nil
	}
	acc := New("search", nil, true, fetch, nil)

	done := make(chan bool)
	go func() { done <- acc.FetchNextPage(context.Background()) }()
	<-entered

	if !acc.Snapshot().IsLoading {
		t.Error("Expected the accumulator to report loading")
	}
	if acc.FetchNextPage(context.Background()) {
		t.Error("Expected a trigger during loading to be ignored")
	}
	close(release)

	if !<-done {
		t.Error("Expected the first trigger to append")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected exactly one upstream call, got %d", got)
	}
}

func TestNextPage_ReturnsOnlyItsOwnPage(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	fetch := func(_ context.Context, page int) ([]string, bool, error) {
		entered <- struct{}{}
		<-release
		return pageOf(page), true, nil
	}
	acc := New("popular", pageOf(1), true, fetch, nil)

	type result struct {
		items []string
		ok    bool
	}
	done := make(chan result)
	go func() {
		items, ok := acc.NextPage(context.Background())
		done <- result{items, ok}
	}()
	<-entered

	if items, ok := acc.NextPage(context.Background()); ok || len(items) != 0 {
		t.Errorf("Expected a skipped trigger to return nothing, got %v", items)
	}
	close(release)

	first := <-done
	if !first.ok {
		t.Fatal("Expected the running trigger to append")
	}
	if diff := cmp.Diff(pageOf(2), first.items); diff != "" {
		t.Errorf("Page items mismatch (-want +got):\n%s", diff)
	}

	third, ok := acc.NextPage(context.Background())
	if !ok {
		t.Fatal("Expected page 3 to be appended")
	}
	if diff := cmp.Diff(pageOf(3), third); diff != "" {
		t.Errorf("Page items mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchNextPage_ExhaustedNeverFetches(t *testing.T) {
	var calls int
	fetch := func(_ context.Context, page int) ([]string, bool, error) {
		calls++
		return pageOf(page), false, nil
	}
	acc := New("popular", pageOf(1), true, fetch, nil)

	acc.FetchNextPage(context.Background())
	for range 3 {
		if acc.FetchNextPage(context.Background()) {
			t.Fatal("Expected no fetch after the last page")
		}
	}
	if calls != 1 {
		t.Errorf("Expected one call, got %d", calls)
	}

	empty := New("popular", pageOf(1), false, fetch, nil)
	empty.FetchNextPage(context.Background())
	if calls != 1 {
		t.Error("Expected a single-page list never to fetch")
	}
}

func TestFetchNextPage_FailureKeepsState(t *testing.T) {
	fail := true
	fetch := func(_ context.Context, page int) ([]string, bool, error) {
		if page == 3 && fail {
			return nil, false, &apperrors.ErrUpstream{StatusCode: 500, Message: "Internal Server Error"}
		}
		return pageOf(page), true, nil
	}
	notes := &recorder{}
	acc := New("genre", pageOf(1), true, fetch, notes)
	acc.FetchNextPage(context.Background())
	before := acc.Snapshot()

	if acc.FetchNextPage(context.Background()) {
		t.Fatal("Expected the page 3 fetch to fail")
	}
	after := acc.Snapshot()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("State changed on failure (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Internal Server Error"}, notes.messages); diff != "" {
		t.Errorf("Notifications mismatch (-want +got):\n%s", diff)
	}

	fail = false
	if !acc.FetchNextPage(context.Background()) {
		t.Fatal("Expected the retry to succeed")
	}
	if acc.Snapshot().CurrentPage != 4 {
		t.Errorf("Expected page 3 to be retried, got current page %d", acc.Snapshot().CurrentPage)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "upstream", err: &apperrors.ErrUpstream{StatusCode: 502, Message: "Bad Gateway"}, expected: "Bad Gateway"},
		{name: "wrapped upstream", err: fmt.Errorf("page 3: %w", &apperrors.ErrUpstream{Message: "connection refused"}), expected: "connection refused"},
		{name: "empty result", err: &apperrors.ErrEmptyResult{Message: apperrors.MsgSearchEmpty}, expected: apperrors.MsgSearchEmpty},
		{name: "upstream without message", err: &apperrors.ErrUpstream{StatusCode: 500}, expected: apperrors.MsgListFetchFailed},
		{name: "other", err: errors.New("boom"), expected: "An error occurred while retrieving anime data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage = %q, want %q", got, tt.expected)
			}
		})
	}
}
