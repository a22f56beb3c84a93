package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_http_requests_total",
		Help: "Total number of HTTP requests to the web adapter",
	}, []string{"method", "path", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookshelf_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookshelf_http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})

	RPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_rpc_requests_total",
		Help: "Total number of gRPC catalog calls",
	}, []string{"method", "code"})

	FilterMatches = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookshelf_filter_matches",
		Help:    "Number of books matched by a filter submission",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	PagesRevealed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookshelf_pages_revealed_total",
		Help: "Pages revealed by show-more requests",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookshelf_sessions_active",
		Help: "Browsing sessions currently held in memory",
	})
)
