package catalog

import (
	"context"
	"fmt"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/gateway"
)

// ListKind names a paginated list.
type ListKind string

const (
	ListRecent  ListKind = "recent"
	ListSearch  ListKind = "search"
	ListMovies  ListKind = "movies"
	ListPopular ListKind = "popular"
	ListGenre   ListKind = "genre"
)

// Page is one page of any list, as cards.
type Page struct {
	Cards       []anime.Card
	HasNextPage bool
}

// FetchList fetches page of the list kind. query is the search term or genre id and is
// ignored by the other kinds. Error envelopes come back as *apperrors.ErrUpstream.
func (s *Service) FetchList(ctx context.Context, kind ListKind, query string, page int) (Page, error) {
	switch kind {
	case ListRecent:
		return toPage(s.RecentEpisodes(ctx, page))
	case ListSearch:
		return toPage(s.Search(ctx, query, page))
	case ListMovies:
		return toPage(s.Movies(ctx, page))
	case ListPopular:
		return toPage(s.Popular(ctx, page))
	case ListGenre:
		return toPage(s.ByGenre(ctx, query, page))
	default:
		return Page{}, fmt.Errorf("unknown list kind %q", kind)
	}
}

func toPage[T anime.Carder](resp gateway.Response[anime.ListResponse[T]]) (Page, error) {
	if resp.IsError {
		return Page{}, resp.Err()
	}
	if resp.Data == nil {
		return Page{Cards: []anime.Card{}}, nil
	}
	return Page{Cards: anime.Cards(resp.Data.Results), HasNextPage: resp.Data.HasNextPage}, nil
}
