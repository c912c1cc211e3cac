// Package metrics exposes Prometheus collectors for the blog backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// Fallback kinds recorded by RecordFallback.
const (
	FallbackStale       = "stale"
	FallbackPlaceholder = "placeholder"
)

var (
	// FetchTotal counts blog data fetches by outcome.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Total number of blog data fetches",
		},
		[]string{"status"},
	)

	// FetchDuration measures fetch plus normalization time.
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of blog data fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// FallbackTotal counts responses served from stale or placeholder data.
	FallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_total",
			Help:      "Total number of reads served from fallback data",
		},
		[]string{"kind"},
	)

	// CachedPosts is the size of the last fetched collection.
	CachedPosts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_posts",
			Help:      "Number of posts in the last fetched collection",
		},
	)

	// HTTPRequestsTotal counts HTTP requests by route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request handling time.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordFetch records one fetch attempt. postCount is ignored on failure.
func RecordFetch(err error, postCount int, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	FetchTotal.WithLabelValues(status).Inc()
	FetchDuration.Observe(duration.Seconds())
	if err == nil {
		CachedPosts.Set(float64(postCount))
	}
}

// RecordFallback records a read served from stale or placeholder data.
func RecordFallback(kind string) {
	FallbackTotal.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records a handled request. route should be the router
// pattern, not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
