// Package catalog exposes one operation per upstream endpoint and reinterprets empty
// and missing results as domain failures.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/apperrors"
	"github.com/Belphemur/Raznime/internal/cache"
	"github.com/Belphemur/Raznime/internal/gateway"
)

const providerPrefix = "anime/gogoanime/"

// Revalidation windows per endpoint. Search, watch and servers are never cached.
const (
	RecentEpisodesRevalidate = 30 * time.Minute
	TopAiringRevalidate      = 30 * time.Minute
	DetailRevalidate         = time.Hour
	MoviesRevalidate         = time.Hour
	PopularRevalidate        = time.Hour
	GenreRevalidate          = time.Hour
)

// Service is the catalog facade over the gateway.
type Service struct {
	gw    *gateway.Gateway
	cache cache.Cache
}

// New creates a catalog service. c backs the popular carousel memo and may be nil.
func New(gw *gateway.Gateway, c cache.Cache) *Service {
	return &Service{gw: gw, cache: c}
}

func pageQuery(page int) string {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": []string{strconv.Itoa(page)}}.Encode()
}

// emptyAsError turns a successful response without results into an error envelope.
func emptyAsError[T any](resp gateway.Response[anime.ListResponse[T]], message string) gateway.Response[anime.ListResponse[T]] {
	if resp.IsSuccess && resp.Data != nil && len(resp.Data.Results) == 0 {
		return gateway.Response[anime.ListResponse[T]]{IsError: true, Error: message, StatusCode: resp.StatusCode}
	}
	return resp
}

// RecentEpisodes lists recently released episodes. An empty page is an error.
func (s *Service) RecentEpisodes(ctx context.Context, page int) gateway.Response[anime.ListResponse[anime.RecentEpisode]] {
	resp := gateway.Call[anime.ListResponse[anime.RecentEpisode]](ctx, s.gw, gateway.Request{
		Operation:  "recent-episodes",
		Endpoint:   providerPrefix + "recent-episodes?" + pageQuery(page),
		Revalidate: RecentEpisodesRevalidate,
	})
	return emptyAsError(resp, apperrors.MsgRecentEpisodeEmpty)
}

// Search looks anime up by title. No match is an error.
func (s *Service) Search(ctx context.Context, query string, page int) gateway.Response[anime.ListResponse[anime.Anime]] {
	resp := gateway.Call[anime.ListResponse[anime.Anime]](ctx, s.gw, gateway.Request{
		Operation: "search",
		Endpoint:  providerPrefix + url.PathEscape(query) + "?" + pageQuery(page),
	})
	return emptyAsError(resp, apperrors.MsgSearchEmpty)
}

// Detail fetches the full record of animeID.
func (s *Service) Detail(ctx context.Context, animeID string) gateway.Response[anime.Detail] {
	resp := gateway.Call[anime.Detail](ctx, s.gw, gateway.Request{
		Operation:  "detail",
		Endpoint:   providerPrefix + "info/" + url.PathEscape(animeID),
		Revalidate: DetailRevalidate,
	})
	if resp.IsError && resp.Data == nil {
		resp.Error = apperrors.MsgAnimeNotFound
	}
	return resp
}

// StreamingLinks fetches the direct sources of an episode from server.
func (s *Service) StreamingLinks(ctx context.Context, episodeID, server string) gateway.Response[anime.StreamingLinks] {
	if server == "" {
		server = "gogocdn"
	}
	return gateway.Call[anime.StreamingLinks](ctx, s.gw, gateway.Request{
		Operation: "watch",
		Endpoint:  fmt.Sprintf("%swatch/%s?%s", providerPrefix, url.PathEscape(episodeID), url.Values{"server": []string{server}}.Encode()),
	})
}

// OtherServers lists the embeddable players of an episode.
func (s *Service) OtherServers(ctx context.Context, episodeID string) gateway.Response[[]anime.EmbeddedServer] {
	return gateway.Call[[]anime.EmbeddedServer](ctx, s.gw, gateway.Request{
		Operation: "servers",
		Endpoint:  providerPrefix + "servers/" + url.PathEscape(episodeID),
	})
}

func (s *Service) TopAiring(ctx context.Context, page int) gateway.Response[anime.ListResponse[anime.TopAiring]] {
	return gateway.Call[anime.ListResponse[anime.TopAiring]](ctx, s.gw, gateway.Request{
		Operation:  "top-airing",
		Endpoint:   providerPrefix + "top-airing?" + pageQuery(page),
		Revalidate: TopAiringRevalidate,
	})
}

func (s *Service) Movies(ctx context.Context, page int) gateway.Response[anime.ListResponse[anime.Movie]] {
	return gateway.Call[anime.ListResponse[anime.Movie]](ctx, s.gw, gateway.Request{
		Operation:  "movies",
		Endpoint:   providerPrefix + "movies?" + pageQuery(page),
		Revalidate: MoviesRevalidate,
	})
}

func (s *Service) Popular(ctx context.Context, page int) gateway.Response[anime.ListResponse[anime.Movie]] {
	return gateway.Call[anime.ListResponse[anime.Movie]](ctx, s.gw, gateway.Request{
		Operation:  "popular",
		Endpoint:   providerPrefix + "popular?" + pageQuery(page),
		Revalidate: PopularRevalidate,
	})
}

// ByGenre lists anime tagged with genreID.
func (s *Service) ByGenre(ctx context.Context, genreID string, page int) gateway.Response[anime.ListResponse[anime.GenreEntry]] {
	return gateway.Call[anime.ListResponse[anime.GenreEntry]](ctx, s.gw, gateway.Request{
		Operation:  "genre",
		Endpoint:   providerPrefix + "genre/" + url.PathEscape(genreID) + "?" + pageQuery(page),
		Revalidate: GenreRevalidate,
	})
}
