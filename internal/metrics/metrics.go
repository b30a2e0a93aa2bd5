// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ridematch"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// UpstreamFallbacks counts fallback values substituted for failed upstream reads.
	UpstreamFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "fallbacks_total",
		Help:      "Upstream reads replaced by a fallback value",
	}, []string{"operation", "upstream"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of upstream reads",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	}, []string{"upstream"})

	surgeMultiplier = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pricing",
		Name:      "surge_multiplier",
		Help:      "Distribution of computed surge multipliers",
		Buckets:   []float64{1.0, 1.1, 1.25, 1.5, 1.75, 2.0, 2.5, 3.0},
	})

	// Predictions counts prediction outcomes by result (ok, fallback, invalid).
	Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "prediction",
		Name:      "requests_total",
		Help:      "Prediction requests by result",
	}, []string{"result"})

	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "prediction",
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state (0=closed, 0.5=half-open, 1=open)",
	}, []string{"breaker"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by cache and result",
	}, []string{"cache", "result"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveUpstream records the latency of one upstream read.
func ObserveUpstream(upstream string, elapsed time.Duration) {
	upstreamDuration.WithLabelValues(upstream).Observe(elapsed.Seconds())
}

// RecordFallback counts a fallback substituted by operation for upstream.
func RecordFallback(operation, upstream string) {
	UpstreamFallbacks.WithLabelValues(operation, upstream).Inc()
}

// ObserveSurge records a computed surge multiplier.
func ObserveSurge(multiplier float64) {
	surgeMultiplier.Observe(multiplier)
}

// SetBreakerState publishes a breaker state value.
func SetBreakerState(name string, value float64) {
	breakerState.WithLabelValues(name).Set(value)
}

// RecordCacheLookup counts hits and misses of a named cache.
func RecordCacheLookup(cache string, hits, misses int) {
	if hits > 0 {
		cacheLookups.WithLabelValues(cache, "hit").Add(float64(hits))
	}
	if misses > 0 {
		cacheLookups.WithLabelValues(cache, "miss").Add(float64(misses))
	}
}
