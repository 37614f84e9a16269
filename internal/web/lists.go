package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/apperrors"
	"github.com/Belphemur/Raznime/internal/catalog"
	"github.com/Belphemur/Raznime/internal/pagination"
	"github.com/Belphemur/Raznime/internal/seo"
)

// listPage describes one paginated listing.
type listPage struct {
	Kind    catalog.ListKind
	Query   string
	Heading string
	Title   string
	Path    string
}

type listData struct {
	Heading     string
	Path        string
	SessionID   string
	NextURL     string
	Cards       []anime.Card
	HasNextPage bool
	Empty       bool
	Message     string
}

func (s *Server) movies(w http.ResponseWriter, r *http.Request) {
	s.renderList(w, r, listPage{Kind: catalog.ListMovies, Heading: "Anime Movies", Title: "Discover Anime Movies", Path: "/movies"})
}

func (s *Server) popular(w http.ResponseWriter, r *http.Request) {
	s.renderList(w, r, listPage{Kind: catalog.ListPopular, Heading: "Popular Anime", Title: "Discover Popular Anime", Path: "/popular"})
}

func (s *Server) recentRelease(w http.ResponseWriter, r *http.Request) {
	s.renderList(w, r, listPage{Kind: catalog.ListRecent, Heading: "Recent Released Episodes", Title: "Recent Released Episodes", Path: "/recent-release"})
}

func (s *Server) genreList(w http.ResponseWriter, r *http.Request) {
	genre, ok := anime.FindGenre(r.PathValue("genreId"))
	if !ok {
		s.renderNotFound(w, r, "")
		return
	}
	s.renderList(w, r, listPage{
		Kind:    catalog.ListGenre,
		Query:   genre.ID,
		Heading: genre.Title + " Anime",
		Title:   genre.Title + " Anime",
		Path:    "/genre/" + genre.ID,
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("query"))
	if q == "" {
		s.renderNotFound(w, r, "")
		return
	}
	s.renderList(w, r, listPage{
		Kind:    catalog.ListSearch,
		Query:   q,
		Heading: fmt.Sprintf("Search Results for %q", q),
		Title:   fmt.Sprintf("%q Search Results", q),
		Path:    "/search?" + url.Values{"query": []string{q}}.Encode(),
	})
}

// renderList renders page 1 of a listing and opens a load-more session for it. A
// ?session= of the same listing re-renders everything accumulated so far instead.
func (s *Server) renderList(w http.ResponseWriter, r *http.Request, lp listPage) {
	data := page{
		Meta:  s.seo.Build(seo.Params{Title: seo.PageTitle(lp.Title)}),
		Query: lp.Query,
	}
	if lp.Kind != catalog.ListSearch {
		data.Query = ""
	}

	if id := r.URL.Query().Get("session"); id != "" {
		if session, ok := s.lists.Get(id); ok && session.Kind == string(lp.Kind) && session.Query == lp.Query {
			data.Toasts = session.Inbox.Drain()
			data.Data = sessionData(lp, session)
			if err := s.pages.render(w, http.StatusOK, "list", "layout", data); err != nil {
				s.fail(w, r, err)
			}
			return
		}
	}

	first, err := s.catalog.FetchList(r.Context(), lp.Kind, lp.Query, 1)
	if err != nil {
		if lp.Kind == catalog.ListSearch && isEmptySearch(err) {
			data.Data = listData{Heading: lp.Heading, Path: lp.Path, Empty: true, Message: msgNotFound}
			if rerr := s.pages.render(w, http.StatusOK, "list", "layout", data); rerr != nil {
				s.fail(w, r, rerr)
			}
			return
		}
		s.fail(w, r, err)
		return
	}

	session := s.lists.Create(string(lp.Kind), lp.Query, first.Cards, first.HasNextPage, s.listFetcher(lp.Kind, lp.Query))
	data.Data = sessionData(lp, session)
	if err := s.pages.render(w, http.StatusOK, "list", "layout", data); err != nil {
		s.fail(w, r, err)
	}
}

// listFetcher adapts the catalog to a pagination fetch for one listing.
func (s *Server) listFetcher(kind catalog.ListKind, query string) pagination.FetchFunc[anime.Card] {
	return func(ctx context.Context, page int) ([]anime.Card, bool, error) {
		p, err := s.catalog.FetchList(ctx, kind, query, page)
		if err != nil {
			return nil, false, err
		}
		return p.Cards, p.HasNextPage, nil
	}
}

func sessionData(lp listPage, session *pagination.Session[anime.Card]) listData {
	state := session.Acc.Snapshot()
	return listData{
		Heading:     lp.Heading,
		Path:        lp.Path,
		SessionID:   session.ID,
		NextURL:     "/lists/" + session.ID + "/next",
		Cards:       state.Items,
		HasNextPage: state.HasNextPage,
	}
}

func isEmptySearch(err error) bool {
	var upstream *apperrors.ErrUpstream
	return errors.As(err, &upstream) && upstream.Message == apperrors.MsgSearchEmpty
}

type chunkData struct {
	Cards       []anime.Card
	HasNextPage bool
	NextURL     string
	Toasts      []string
}

// nextPage loads the next page of a session. Scripted clients send X-Fragment: 1 and
// get the new cards only; plain form posts are redirected back to the full list.
func (s *Server) nextPage(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lists.Get(r.PathValue("id"))
	if !ok {
		s.renderNotFound(w, r, "This list has expired, reload the page to continue")
		return
	}

	cards, _ := session.Acc.NextPage(r.Context())
	state := session.Acc.Snapshot()

	if r.Header.Get("X-Fragment") != "1" {
		http.Redirect(w, r, listPath(session)+"session="+session.ID, http.StatusSeeOther)
		return
	}

	data := chunkData{
		Cards:       cards,
		HasNextPage: state.HasNextPage,
		NextURL:     "/lists/" + session.ID + "/next",
		Toasts:      session.Inbox.Drain(),
	}
	if err := s.pages.render(w, http.StatusOK, "list", "list-chunk", data); err != nil {
		s.fail(w, r, err)
	}
}

// listPath returns the page a session was opened from, ready for one more query
// parameter.
func listPath(session *pagination.Session[anime.Card]) string {
	switch catalog.ListKind(session.Kind) {
	case catalog.ListMovies:
		return "/movies?"
	case catalog.ListPopular:
		return "/popular?"
	case catalog.ListRecent:
		return "/recent-release?"
	case catalog.ListGenre:
		return "/genre/" + url.PathEscape(session.Query) + "?"
	case catalog.ListSearch:
		return "/search?" + url.Values{"query": []string{session.Query}}.Encode() + "&"
	default:
		return "/?"
	}
}
