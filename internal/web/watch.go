package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/player"
	"github.com/Belphemur/Raznime/internal/preference"
	"github.com/Belphemur/Raznime/internal/slug"
	"golang.org/x/sync/errgroup"
)

type watchData struct {
	Anime     anime.Detail
	Player    player.View
	Episodes  anime.EpisodeWindow
	Sort      anime.SortOrder
	Filter    string
	ShowMore  string
	PrevURL   string
	NextURL   string
	TopAiring section
}

func playerQuery(r *http.Request) player.Query {
	q := r.URL.Query()
	return player.Query{PlayerType: q.Get("playerType"), Server: q.Get("server")}
}

// episodeURL links another episode, keeping the playback overrides of the current URL.
func episodeURL(episodeID string, r *http.Request) string {
	target := "/watch/" + url.PathEscape(episodeID)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	return target
}

func (s *Server) watch(w http.ResponseWriter, r *http.Request) {
	episodeID := r.PathValue("slug")
	ep := slug.Decode(episodeID)

	resp := s.catalog.Detail(r.Context(), ep.AnimeID)
	if resp.IsError || resp.Data == nil {
		s.renderNotFound(w, r, resp.Error)
		return
	}
	detail := *resp.Data

	machine := player.New(episodeID, detail.Episodes, s.prefs.StoreFor(w, r), playerQuery(r))

	var top section
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		machine.Fetch(gctx, s.catalog)
		return nil
	})
	g.Go(func() error {
		top = s.topAiring(gctx)
		return nil
	})
	_ = g.Wait()

	q := r.URL.Query()
	order := anime.ParseSortOrder(q.Get("sort"))
	filter := q.Get("episode")
	shown, _ := strconv.Atoi(q.Get("shown"))
	window := anime.Window(anime.FilterEpisodes(anime.SortEpisodes(detail.Episodes, order), filter), shown)

	view := machine.View()
	data := watchData{
		Anime:     detail,
		Player:    view,
		Episodes:  window,
		Sort:      order,
		Filter:    filter,
		TopAiring: top,
	}
	if window.HasMore {
		more := r.URL.Query()
		more.Set("shown", strconv.Itoa(window.NextShow))
		data.ShowMore = "/watch/" + url.PathEscape(episodeID) + "?" + more.Encode()
	}
	if view.PrevEpisodeID != "" {
		data.PrevURL = episodeURL(view.PrevEpisodeID, r)
	}
	if view.NextEpisodeID != "" {
		data.NextURL = episodeURL(view.NextEpisodeID, r)
	}

	name := fmt.Sprintf("%s Episode %s", detail.Title, ep.EpisodeNumber)
	out := page{
		Meta: s.seo.Media(name, detail.Description, detail.Image, "/watch/"+episodeID, detail.Genres),
		Data: data,
	}
	if err := s.pages.render(w, http.StatusOK, "watch", "layout", out); err != nil {
		s.fail(w, r, err)
	}
}

// switchServer applies a server button. persist=false changes the URL only.
func (s *Server) switchServer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	kind, ok := preference.ParseKind(r.PostForm.Get("playerType"))
	server := r.PostForm.Get("server")
	if !ok || server == "" {
		http.Error(w, "playerType and server are required", http.StatusBadRequest)
		return
	}
	persist := r.PostForm.Get("persist") != "false"

	machine := player.New(r.PathValue("slug"), nil, s.prefs.StoreFor(w, r), player.Query{})
	target, err := machine.SwitchServer(kind, server, persist)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist playback preference")
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// videoEnded advances to the next episode when default playback ends. 204 means
// there is nowhere to go. Clients accepting JSON get {"url": ...} instead of a 303 so
// they can navigate without fetching the next page.
func (s *Server) videoEnded(w http.ResponseWriter, r *http.Request) {
	episodeID := r.PathValue("slug")
	resp := s.catalog.Detail(r.Context(), slug.Decode(episodeID).AnimeID)
	if resp.IsError || resp.Data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	machine := player.New(episodeID, resp.Data.Episodes, s.prefs.StoreFor(w, r), playerQuery(r))
	next, ok := machine.VideoEnded()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	target := episodeURL(next, r)
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeJSON(w, http.StatusOK, map[string]string{"url": target})
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// watchState returns the resolved player view as JSON.
func (s *Server) watchState(w http.ResponseWriter, r *http.Request) {
	episodeID := r.PathValue("slug")
	resp := s.catalog.Detail(r.Context(), slug.Decode(episodeID).AnimeID)
	if resp.IsError || resp.Data == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": resp.Error})
		return
	}

	machine := player.New(episodeID, resp.Data.Episodes, s.prefs.StoreFor(w, r), playerQuery(r))
	machine.Fetch(r.Context(), s.catalog)
	writeJSON(w, http.StatusOK, machine.View())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
