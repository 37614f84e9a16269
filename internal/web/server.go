// Package web serves the Raznime site: HTML pages, the watch page player, list
// pagination and search suggestions.
package web

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/catalog"
	"github.com/Belphemur/Raznime/internal/config"
	"github.com/Belphemur/Raznime/internal/debounce"
	"github.com/Belphemur/Raznime/internal/pagination"
	"github.com/Belphemur/Raznime/internal/preference"
	"github.com/Belphemur/Raznime/internal/seo"
	"github.com/rs/zerolog"
)

const (
	defaultSessionSize = 1024
	defaultSessionTTL  = 30 * time.Minute
	defaultDebounce    = 500 * time.Millisecond
)

// Server holds the handlers of the public site.
type Server struct {
	catalog *catalog.Service
	prefs   *preference.Backend
	lists   *pagination.Registry[anime.Card]
	suggest *debounce.Debouncer
	seo     *seo.Builder
	pages   *renderer
	logger  zerolog.Logger
}

// NewServer wires the handlers over the catalog and preference backend.
func NewServer(cfg *config.Config, svc *catalog.Service, prefs *preference.Backend) (*Server, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	size := cfg.Pagination.SessionSize
	if size <= 0 {
		size = defaultSessionSize
	}

	return &Server{
		catalog: svc,
		prefs:   prefs,
		lists:   pagination.NewRegistry[anime.Card](size, config.ParseDuration("pagination.session_ttl", cfg.Pagination.SessionTTL, defaultSessionTTL)),
		suggest: debounce.New(config.ParseDuration("search.debounce", cfg.Search.Debounce, defaultDebounce)),
		seo:     seo.NewBuilder(cfg.PublicBaseURL),
		pages:   pages,
		logger:  config.GetLogger().With().Str("component", "web").Logger(),
	}, nil
}

// Handler returns the routed and instrumented site.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.home)
	mux.HandleFunc("GET /detail/{animeId}", s.detail)
	mux.HandleFunc("GET /genre", s.genreIndex)
	mux.HandleFunc("GET /genre/{genreId}", s.genreList)
	mux.HandleFunc("GET /movies", s.movies)
	mux.HandleFunc("GET /popular", s.popular)
	mux.HandleFunc("GET /recent-release", s.recentRelease)
	mux.HandleFunc("GET /search", s.search)
	mux.HandleFunc("POST /lists/{id}/next", s.nextPage)

	mux.HandleFunc("GET /watch/{slug}", s.watch)
	mux.HandleFunc("POST /watch/{slug}/server", s.switchServer)
	mux.HandleFunc("GET /watch/{slug}/next", s.videoEnded)
	mux.HandleFunc("GET /api/watch/{slug}", s.watchState)

	mux.HandleFunc("GET /api/search/suggest", s.searchSuggest)
	mux.HandleFunc("GET /healthz", s.healthz)

	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	mux.HandleFunc("/", s.notFound)

	return s.withMiddleware(mux)
}

// NewHTTPServer creates the public listener.
func NewHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
