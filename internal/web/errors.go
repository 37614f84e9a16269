package web

import (
	"net/http"

	"github.com/Belphemur/Raznime/internal/seo"
	"github.com/getsentry/sentry-go"
)

const (
	msgNotFound   = "Oops! Seems page or anime that you are looking for is not found"
	msgUnexpected = "An unexpected error occurred"
)

type errorPage struct {
	Status  int
	Heading string
	Message string
}

// fail is the error boundary: the error is logged, reported to Sentry and rendered as
// the 500 page.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")

	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)

	s.renderError(w, err)
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	message := msgUnexpected
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	data := page{
		Meta: s.seo.Build(seo.Params{Title: seo.PageTitle("Internal Server Error")}),
		Data: errorPage{Status: http.StatusInternalServerError, Heading: "Internal Server Error", Message: message},
	}
	if rerr := s.pages.render(w, http.StatusInternalServerError, "error", "layout", data); rerr != nil {
		s.logger.Error().Err(rerr).Msg("Failed to render error page")
		http.Error(w, message, http.StatusInternalServerError)
	}
}

// renderNotFound renders the 404 page with message, or the generic one when empty.
func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = msgNotFound
	}
	data := page{
		Meta: s.seo.Build(seo.Params{Title: seo.PageTitle("Not Found")}),
		Data: errorPage{Status: http.StatusNotFound, Heading: "Not Found", Message: message},
	}
	if err := s.pages.render(w, http.StatusNotFound, "error", "layout", data); err != nil {
		s.fail(w, r, err)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.renderNotFound(w, r, "")
}
