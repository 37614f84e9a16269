package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Upstream gateway metrics
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream API calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream API calls that reached the network.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Player and list metrics
var (
	PlayerSelfCorrectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "player_self_corrections_total",
			Help: "Total number of times the embedded server was switched to the first available one.",
		},
	)

	PlayerServerSwitchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "player_server_switches_total",
			Help: "Total number of user initiated server switches by player kind.",
		},
		[]string{"player_type"},
	)

	PaginationFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagination_fetches_total",
			Help: "Total number of load-more page fetches by list kind and status.",
		},
		[]string{"kind", "status"},
	)

	PaginationSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pagination_sessions",
			Help: "Current number of live list sessions.",
		},
	)

	SearchSuggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_suggestions_total",
			Help: "Total number of search-as-you-type requests by status.",
		},
		[]string{"status"},
	)
)

// HTTP surface metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served by route and status code.",
		},
		[]string{"route", "code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		PlayerSelfCorrectionsTotal,
		PlayerServerSwitchesTotal,
		PaginationFetchesTotal,
		PaginationSessions,
		SearchSuggestionsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
