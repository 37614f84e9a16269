package web

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/testutil"
)

// pagedMovies serves the movies list, hasNext on every page below last.
func pagedMovies(site *testSite, perPage, last int) {
	site.upstream.Handle("/anime/gogoanime/movies", func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		writeList(w, testutil.List(page, page < last, testutil.Movies((page-1)*perPage, perPage)...))
	})
}

func writeList[T any](w http.ResponseWriter, v anime.ListResponse[T]) {
	writeJSON(w, http.StatusOK, v)
}

func postNext(site *testSite, target string, fragment bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	if fragment {
		req.Header.Set("X-Fragment", "1")
	}
	return site.do(req)
}

func TestSearch_EmptyQueryIsNotFound(t *testing.T) {
	site := newTestSite(t)

	for _, target := range []string{"/search", "/search?query=", "/search?query=%20%20"} {
		if rec := site.get(t, target); rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, rec.Code)
		}
	}
}

func TestSearch_NoResultsRendersEmptyView(t *testing.T) {
	site := newTestSite(t)
	site.upstream.JSON("/anime/gogoanime/naruto", testutil.List[anime.Anime](1, false))

	rec := site.get(t, "/search?query=naruto")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for an empty search, got %d", rec.Code)
	}
	doc := document(t, rec)
	if msg := strings.TrimSpace(doc.Find(".empty-results p").Text()); msg != msgNotFound {
		t.Errorf("Unexpected empty view message %q", msg)
	}
	if doc.Find("[data-load-more]").Length() != 0 {
		t.Error("Expected no load more control on the empty view")
	}
}

func TestSearch_Results(t *testing.T) {
	site := newTestSite(t)
	site.upstream.JSON("/anime/gogoanime/naruto", testutil.List(1, false,
		anime.Anime{ID: "naruto", Title: "Naruto", SubOrDub: "sub"},
		anime.Anime{ID: "naruto-dub", Title: "Naruto (Dub)", SubOrDub: "dub"},
	))

	doc := document(t, site.get(t, "/search?query=naruto"))

	if title := doc.Find("title").Text(); title != `"naruto" Search Results - Raznime - Stream Anime Online` {
		t.Errorf("Unexpected title %q", title)
	}
	if v, _ := doc.Find(`input[name="query"]`).First().Attr("value"); v != "naruto" {
		t.Errorf("Expected the search box to keep the query, got %q", v)
	}
	if n := doc.Find(".list .card").Length(); n != 2 {
		t.Errorf("Expected 2 cards, got %d", n)
	}
	if doc.Find("[data-load-more]").Length() != 0 {
		t.Error("Expected no load more control on the last page")
	}
}

func TestListPage_UpstreamFailureIsServerError(t *testing.T) {
	site := newTestSite(t)
	site.upstream.Status("/anime/gogoanime/popular", http.StatusBadRequest)

	rec := site.get(t, "/popular")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
}

func TestListSession_LoadMore(t *testing.T) {
	site := newTestSite(t)
	pagedMovies(site, 2, 2)

	doc := document(t, site.get(t, "/movies"))
	if title := doc.Find("title").Text(); title != "Discover Anime Movies - Raznime - Stream Anime Online" {
		t.Errorf("Unexpected title %q", title)
	}
	session, ok := doc.Find("section.list").Attr("data-session")
	if !ok || session == "" {
		t.Fatal("Expected the list to carry its session")
	}
	action, _ := doc.Find("[data-load-more]").Attr("action")
	if action != "/lists/"+session+"/next" {
		t.Fatalf("Unexpected load more action %q", action)
	}

	rec := postNext(site, action, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 fragment, got %d", rec.Code)
	}
	chunk := document(t, rec)
	if n := chunk.Find(".card").Length(); n != 2 {
		t.Errorf("Expected the 2 cards of page 2, got %d", n)
	}
	if id, _ := chunk.Find(".card").First().Attr("data-id"); id != "movie-2" {
		t.Errorf("Expected page 2 to start at movie-2, got %q", id)
	}
	if chunk.Find("[data-load-more]").Length() != 0 {
		t.Error("Expected no load more control after the last page")
	}

	// Exhausted: no further upstream call.
	postNext(site, action, true)
	if hits := site.upstream.Hits("/anime/gogoanime/movies"); hits != 2 {
		t.Errorf("Expected 2 upstream calls, got %d", hits)
	}

	full := document(t, site.get(t, "/movies?session="+session))
	if n := full.Find(".list .card").Length(); n != 4 {
		t.Errorf("Expected the session to render all 4 accumulated cards, got %d", n)
	}
}

func TestListSession_FormPostRedirects(t *testing.T) {
	site := newTestSite(t)
	pagedMovies(site, 2, 3)

	doc := document(t, site.get(t, "/movies"))
	session, _ := doc.Find("section.list").Attr("data-session")

	rec := postNext(site, "/lists/"+session+"/next", false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/movies?session="+session {
		t.Errorf("Unexpected redirect %q", loc)
	}
}

func TestListSession_FailedPageNotifies(t *testing.T) {
	site := newTestSite(t)
	site.upstream.Handle("/anime/gogoanime/movies", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeList(w, testutil.List(1, true, testutil.Movies(0, 2)...))
	})

	doc := document(t, site.get(t, "/movies"))
	action, _ := doc.Find("[data-load-more]").Attr("action")

	chunk := document(t, postNext(site, action, true))
	if n := chunk.Find("[data-toast]").Length(); n != 1 {
		t.Errorf("Expected 1 toast, got %d", n)
	}
	if n := chunk.Find(".card").Length(); n != 0 {
		t.Errorf("Expected no new cards, got %d", n)
	}
	if chunk.Find("[data-load-more]").Length() != 1 {
		t.Error("Expected the load more control to stay for a retry")
	}
}

func TestListSession_ConcurrentLoadMoreSendsCardsOnce(t *testing.T) {
	site := newTestSite(t)
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	site.upstream.Handle("/anime/gogoanime/movies", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			entered <- struct{}{}
			<-release
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		writeList(w, testutil.List(page, true, testutil.Movies((page-1)*2, 2)...))
	})

	doc := document(t, site.get(t, "/movies"))
	action, _ := doc.Find("[data-load-more]").Attr("action")

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- postNext(site, action, true) }()
	<-entered

	other := document(t, postNext(site, action, true))
	close(release)

	if n := other.Find(".card").Length(); n != 0 {
		t.Errorf("Expected the overlapping load more to add no cards, got %d", n)
	}
	if other.Find("[data-load-more]").Length() != 1 {
		t.Error("Expected the overlapping load more to keep its control")
	}
	chunk := document(t, <-first)
	if n := chunk.Find(".card").Length(); n != 2 {
		t.Errorf("Expected the 2 cards of page 2, got %d", n)
	}
}

func TestNextPage_UnknownSession(t *testing.T) {
	site := newTestSite(t)

	if rec := postNext(site, "/lists/does-not-exist/next", true); rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestListSession_IgnoresForeignSession(t *testing.T) {
	site := newTestSite(t)
	pagedMovies(site, 2, 2)
	site.upstream.JSON("/anime/gogoanime/popular", testutil.List(1, false, testutil.Movies(50, 1)...))

	doc := document(t, site.get(t, "/movies"))
	session, _ := doc.Find("section.list").Attr("data-session")

	popular := document(t, site.get(t, "/popular?session="+session))
	if id, _ := popular.Find(".list .card").First().Attr("data-id"); id != "movie-50" {
		t.Errorf("Expected the popular list, got card %q", id)
	}
}
