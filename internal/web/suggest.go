package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/debounce"
	"github.com/Belphemur/Raznime/internal/metrics"
)

const suggestionLimit = 5

type suggestData struct {
	Query   string
	Cards   []anime.Card
	MoreURL string
	Message string
	Initial bool
}

// searchSuggest answers search-as-you-type. Requests carrying the same visitor cookie
// are debounced together; a request overtaken by a newer one gets 204 and nothing is
// fetched for it.
func (s *Server) searchSuggest(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("query"))
	if q == "" {
		metrics.SearchSuggestionsTotal.WithLabelValues("initial").Inc()
		s.renderSuggest(w, r, suggestData{Initial: true, Message: "Type to start searching"})
		return
	}

	data, err := debounce.Do(r.Context(), s.suggest, s.prefs.VisitorID(w, r), func(ctx context.Context) (suggestData, error) {
		return s.loadSuggestions(ctx, q), nil
	})
	switch {
	case errors.Is(err, debounce.ErrSuperseded):
		metrics.SearchSuggestionsTotal.WithLabelValues("superseded").Inc()
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		metrics.SearchSuggestionsTotal.WithLabelValues("cancelled").Inc()
		return
	}

	if data.Message != "" {
		metrics.SearchSuggestionsTotal.WithLabelValues("error").Inc()
	} else {
		metrics.SearchSuggestionsTotal.WithLabelValues("served").Inc()
	}
	s.renderSuggest(w, r, data)
}

func (s *Server) loadSuggestions(ctx context.Context, q string) suggestData {
	resp := s.catalog.Search(ctx, q, 1)
	if resp.IsError || resp.Data == nil {
		return suggestData{Query: q, Message: fallback(resp.Error, msgUnexpected)}
	}

	cards := anime.Cards(resp.Data.Results)
	data := suggestData{Query: q, Cards: cards}
	if len(cards) > suggestionLimit {
		data.Cards = cards[:suggestionLimit]
		data.MoreURL = "/search?" + url.Values{"query": []string{q}}.Encode()
	}
	return data
}

func (s *Server) renderSuggest(w http.ResponseWriter, r *http.Request, data suggestData) {
	if err := s.pages.render(w, http.StatusOK, "suggest", "suggestions", data); err != nil {
		s.fail(w, r, err)
	}
}
