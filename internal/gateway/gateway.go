// Package gateway is the single caller of the upstream catalog API. Every call returns a
// uniform envelope instead of an error so callers can decide locally how to degrade.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Belphemur/Raznime/internal/apperrors"
	"github.com/Belphemur/Raznime/internal/cache"
	"github.com/Belphemur/Raznime/internal/config"
	"github.com/Belphemur/Raznime/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Request describes one upstream call.
type Request struct {
	// Operation labels the call in logs and metrics, e.g. "recent-episodes".
	Operation string
	// Endpoint is the path relative to the API base URL, query string included.
	Endpoint string
	// Method defaults to GET.
	Method string
	// Body is JSON encoded when non-nil.
	Body any
	// Revalidate tags a GET for caching: a successful body is reused for this long.
	// Zero means the call is never cached.
	Revalidate time.Duration
}

// Response is the envelope returned for every call. Exactly one of IsSuccess and IsError
// is true; Data is nil whenever IsError is set. StatusCode is 0 when no HTTP response
// was received or the body could not be decoded.
type Response[T any] struct {
	IsSuccess  bool
	IsError    bool
	Data       *T
	Error      string
	StatusCode int
}

// Err converts an error envelope into an *apperrors.ErrUpstream, or nil on success.
func (r Response[T]) Err() error {
	if r.IsSuccess {
		return nil
	}
	return &apperrors.ErrUpstream{StatusCode: r.StatusCode, Message: r.Error}
}

// Gateway issues upstream requests through the shared transport and cache.
type Gateway struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	cache      cache.Cache
	inflight   singleflight.Group
	logger     zerolog.Logger
}

// New builds a gateway from configuration. c may be nil to disable caching.
func New(cfg *config.Config, c cache.Cache) *Gateway {
	timeout := config.ParseDuration("client_timeout", cfg.ClientTimeout, 30*time.Second)

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}

	return &Gateway{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(cfg.ProxyConnectionString),
		},
		baseURL:   strings.TrimRight(cfg.ConsumetAPIBaseURL, "/"),
		userAgent: userAgent,
		cache:     c,
		logger:    config.GetLogger().With().Str("component", "gateway").Logger(),
	}
}

// rawResult is what one network round trip produced, shared by collapsed callers.
type rawResult struct {
	status int
	body   []byte
}

// Call performs req and decodes a successful body into T. It never returns an error
// and never panics on HTTP level failures.
func Call[T any](ctx context.Context, g *Gateway, req Request) Response[T] {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := g.baseURL + "/" + strings.TrimLeft(req.Endpoint, "/")
	cacheable := g.cache != nil && method == http.MethodGet && req.Body == nil && req.Revalidate > 0

	var (
		res rawResult
		err error
	)
	if cacheable {
		if body, ok := g.cache.Get(target); ok {
			metrics.UpstreamRequestsTotal.WithLabelValues(req.Operation, "cached").Inc()
			g.logger.Debug().Str("operation", req.Operation).Str("url", target).Msg("Serving upstream response from cache")
			return decode[T](req.Operation, http.StatusOK, body)
		}
		// The shared fetch outlives any single caller; each caller only stops waiting.
		shared := context.WithoutCancel(ctx)
		ch := g.inflight.DoChan(target, func() (any, error) {
			r, err := g.do(shared, method, target, req)
			if err == nil && isSuccess(r.status) {
				g.cache.Set(target, r.body, req.Revalidate)
			}
			return r, err
		})
		select {
		case out := <-ch:
			err = out.Err
			if out.Val != nil {
				res = out.Val.(rawResult)
			}
		case <-ctx.Done():
			err = ctx.Err()
		}
	} else {
		res, err = g.do(ctx, method, target, req)
	}

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(req.Operation, "error").Inc()
		g.logger.Warn().Err(err).Str("operation", req.Operation).Str("url", target).Msg("Upstream request failed")
		return failure[T](0, err.Error())
	}
	if !isSuccess(res.status) {
		metrics.UpstreamRequestsTotal.WithLabelValues(req.Operation, "error").Inc()
		g.logger.Warn().Int("status", res.status).Str("operation", req.Operation).Str("url", target).Msg("Upstream returned non-success status")
		return failure[T](res.status, http.StatusText(res.status))
	}

	out := decode[T](req.Operation, res.status, res.body)
	outcome := "success"
	if out.IsError {
		outcome = "error"
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(req.Operation, outcome).Inc()
	return out
}

func (g *Gateway) do(ctx context.Context, method, target string, req Request) (rawResult, error) {
	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return rawResult{}, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return rawResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", g.userAgent)

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	metrics.UpstreamRequestDuration.WithLabelValues(req.Operation).Observe(time.Since(start).Seconds())
	if err != nil {
		return rawResult{}, unwrapURLError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return rawResult{}, fmt.Errorf("read response body: %w", err)
	}
	g.logger.Debug().Str("operation", req.Operation).Int("status", resp.StatusCode).Int("bytes", len(payload)).Msg("Upstream response received")
	return rawResult{status: resp.StatusCode, body: payload}, nil
}

func decode[T any](operation string, status int, body []byte) Response[T] {
	var data T
	if err := json.Unmarshal(body, &data); err != nil {
		config.GetLogger().Warn().Err(err).Str("operation", operation).Msg("Failed to decode upstream response")
		return failure[T](0, err.Error())
	}
	return Response[T]{IsSuccess: true, Data: &data, StatusCode: status}
}

func failure[T any](status int, message string) Response[T] {
	if message == "" {
		message = apperrors.MsgUnknown
	}
	return Response[T]{IsError: true, Error: message, StatusCode: status}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// unwrapURLError drops the "Get \"url\":" prefix net/http adds so the envelope carries
// the underlying message.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
