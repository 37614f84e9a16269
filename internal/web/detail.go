package web

import (
	"net/http"

	"github.com/Belphemur/Raznime/internal/anime"
)

type detailData struct {
	Anime        anime.Detail
	Episodes     anime.EpisodeWindow
	FirstEpisode *anime.Episode
	ShowEpisodes bool
	Error        string
	Home         *homeData
}

// detail renders an anime. With ?fragment=modal only the modal body is returned, for
// the listing pages that open details in place; otherwise it is shown over the home page.
func (s *Server) detail(w http.ResponseWriter, r *http.Request) {
	animeID := r.PathValue("animeId")
	modal := r.URL.Query().Get("fragment") == "modal"

	resp := s.catalog.Detail(r.Context(), animeID)

	status := http.StatusOK
	var d detailData
	if resp.IsError || resp.Data == nil {
		status = http.StatusNotFound
		d.Error = resp.Error
	} else {
		d.Anime = *resp.Data
		sorted := anime.SortEpisodes(d.Anime.Episodes, anime.SortDesc)
		d.Episodes = anime.Window(sorted, anime.DetailDisplayedEpisodes)
		if len(d.Anime.Episodes) > 0 {
			first := d.Anime.Episodes[0]
			d.FirstEpisode = &first
		}
		d.ShowEpisodes = d.Anime.Type != "MOVIE" && len(sorted) > 0
	}

	if modal {
		if err := s.pages.render(w, status, "detail", "detail-body", d); err != nil {
			s.fail(w, r, err)
		}
		return
	}

	home := s.loadHome(r.Context())
	d.Home = &home
	data := page{
		Meta: s.seo.Media(d.Anime.Title, d.Anime.Description, d.Anime.Image, "/detail/"+animeID, d.Anime.Genres),
		Data: d,
	}
	if err := s.pages.render(w, status, "detail", "layout", data); err != nil {
		s.fail(w, r, err)
	}
}
