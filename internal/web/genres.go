package web

import (
	"net/http"
	"strings"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/seo"
)

type genreIndexData struct {
	Filter string
	Groups []anime.GenreGroup
}

func (s *Server) genreIndex(w http.ResponseWriter, r *http.Request) {
	filter := strings.TrimSpace(r.URL.Query().Get("q"))
	data := page{
		Meta: s.seo.Build(seo.Params{Title: seo.PageTitle("Genre List")}),
		Data: genreIndexData{
			Filter: filter,
			Groups: anime.GroupGenres(anime.FilterGenres(anime.Genres, filter)),
		},
	}
	if err := s.pages.render(w, http.StatusOK, "genres", "layout", data); err != nil {
		s.fail(w, r, err)
	}
}
