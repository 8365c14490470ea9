package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)
	// RateLimited counts requests rejected by the limiter
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "http_rate_limited_total", Help: "Requests rejected with 429."},
	)

	// RouteOptimizations counts optimize-route calls by outcome (ok or a failure reason)
	RouteOptimizations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_optimizations_total", Help: "Route optimizations by outcome."},
		[]string{"outcome"},
	)
	// RouteOptimizeDuration tracks end-to-end optimizer wall time in seconds
	RouteOptimizeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_optimize_duration_seconds", Help: "Optimizer wall time in seconds.", Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10}},
	)
	// SearchIterations tracks local search iterations per run
	SearchIterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_search_iterations", Help: "Local search iterations per run.", Buckets: prometheus.ExponentialBuckets(1, 4, 10)},
	)
	// RouteImprovement tracks the relative cost reduction of search over construction
	RouteImprovement = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_search_improvement_ratio", Help: "1 - final/initial tour cost.", Buckets: []float64{0, 0.01, 0.02, 0.05, 0.1, 0.2, 0.3, 0.5}},
	)

	// DemandPredictions counts prediction requests by result
	DemandPredictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "demand_predictions_total", Help: "Demand predictions by result."},
		[]string{"result"},
	)
	// StreamSubscribers gauges open SSE and websocket subscribers
	StreamSubscribers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "stream_subscribers", Help: "Open event stream subscribers."},
		[]string{"transport"},
	)
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(RateLimited)
		Registry.MustRegister(RouteOptimizations)
		Registry.MustRegister(RouteOptimizeDuration)
		Registry.MustRegister(SearchIterations)
		Registry.MustRegister(RouteImprovement)
		Registry.MustRegister(DemandPredictions)
		Registry.MustRegister(StreamSubscribers)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
