package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Belphemur/Raznime/internal/metrics"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// instrument records request counts and durations labelled by the matched route
// pattern, which the mux stores on the request it is given. A panicking handler is
// counted as a 500.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		panicked := true
		defer func() {
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			status := rec.status
			switch {
			case panicked:
				status = http.StatusInternalServerError
			case status == 0:
				status = http.StatusOK
			}
			metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}()
		next.ServeHTTP(rec, r)
		panicked = false
	})
}

// recoverer turns a panic into the error page. Sentry has already seen the panic by
// the time it gets here.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.logger.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("Recovered from handler panic")
				s.renderError(w, nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withMiddleware(mux http.Handler) http.Handler {
	sentryHandler := sentryhttp.New(sentryhttp.Options{Repanic: true})
	return s.recoverer(sentryHandler.Handle(instrument(mux)))
}
