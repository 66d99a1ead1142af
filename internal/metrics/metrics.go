// Package metrics exposes prometheus counters for the gateway client, the
// web server and the snapshot cache.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for gateway requests.
const (
	OutcomeOK          = "ok"
	OutcomeTransport   = "transport_error"
	OutcomeNotFound    = "not_found"
	OutcomeBusiness    = "business_rejected"
	OutcomeInternal    = "internal_error"
	OutcomeUnavailable = "unavailable"
)

var (
	// GatewayRequests counts REST gateway calls by operation and outcome.
	GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_gateway_requests_total",
		Help: "REST gateway requests by operation and outcome",
	}, []string{"operation", "outcome"})

	// GatewayDuration observes gateway request latency per operation.
	GatewayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fintrack_gateway_request_duration_seconds",
		Help:    "REST gateway request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// HTTPRequests counts served web requests by path and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_http_requests_total",
		Help: "Web requests by path and status code",
	}, []string{"path", "status"})

	// CacheHits and CacheMisses count snapshot cache lookups by cache name.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_cache_hits_total",
		Help: "Snapshot cache hits",
	}, []string{"cache"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_cache_misses_total",
		Help: "Snapshot cache misses",
	}, []string{"cache"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
