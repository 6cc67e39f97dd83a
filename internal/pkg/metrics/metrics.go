// Package metrics exposes Prometheus instruments for outbound backend traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	backendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dataplunge",
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Backend API calls by endpoint and HTTP status (0 = transport error).",
	}, []string{"endpoint", "status"})

	backendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dataplunge",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Backend API call latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	staleResponses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dataplunge",
		Name:      "stale_responses_total",
		Help:      "Backend responses discarded because the date range changed while in flight.",
	})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		backendRequests,
		backendLatency,
		staleResponses,
	)
}

// ObserveBackend records one completed backend call.
func ObserveBackend(endpoint string, status int, elapsed time.Duration) {
	backendRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	backendLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func IncStale() {
	staleResponses.Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func Registry() *prometheus.Registry {
	return registry
}
