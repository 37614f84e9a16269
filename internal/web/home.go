package web

import (
	"context"
	"net/http"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/seo"
	"golang.org/x/sync/errgroup"
)

// section is a home page card row that degrades to a message on failure.
type section struct {
	Cards []anime.Card
	Error string
}

type homeData struct {
	Carousel  []anime.Detail
	Recent    section
	Movies    section
	TopAiring section
}

func (s *Server) loadHome(ctx context.Context) homeData {
	var d homeData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		carousel, err := s.catalog.PopularCarousel(gctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Hiding popular carousel")
			return nil
		}
		d.Carousel = carousel
		return nil
	})
	g.Go(func() error {
		resp := s.catalog.RecentEpisodes(gctx, 1)
		if resp.IsError || resp.Data == nil {
			d.Recent.Error = fallback(resp.Error, "Error occured during fetching recent anime episode list")
			return nil
		}
		d.Recent.Cards = anime.Cards(resp.Data.Results)
		return nil
	})
	g.Go(func() error {
		resp := s.catalog.Movies(gctx, 1)
		if resp.IsError || resp.Data == nil {
			d.Movies.Error = fallback(resp.Error, "Error occured during fetching anime movie list")
			return nil
		}
		d.Movies.Cards = anime.Cards(resp.Data.Results)
		return nil
	})
	g.Go(func() error {
		d.TopAiring = s.topAiring(gctx)
		return nil
	})
	_ = g.Wait()
	return d
}

// topAiring loads the sidebar shown on the home and watch pages.
func (s *Server) topAiring(ctx context.Context) section {
	resp := s.catalog.TopAiring(ctx, 1)
	if resp.IsError || resp.Data == nil {
		return section{Error: fallback(resp.Error, "Error occured during fetching top airing anime list")}
	}
	return section{Cards: anime.Cards(resp.Data.Results)}
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	data := page{
		Meta: s.seo.Build(seo.Params{Title: seo.PageTitle("Home")}),
		Data: s.loadHome(r.Context()),
	}
	if err := s.pages.render(w, http.StatusOK, "home", "layout", data); err != nil {
		s.fail(w, r, err)
	}
}

func fallback(message, def string) string {
	if message == "" {
		return def
	}
	return message
}
