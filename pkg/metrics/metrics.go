// Package metrics exposes layout, cache and HTTP instrumentation to
// Prometheus.
//
// A [Registry] implements the hook interfaces of pkg/observability, so
// wiring it up is a matter of registering it at startup:
//
//	reg := metrics.NewRegistry()
//	reg.Install()
//	http.Handle("/metrics", reg.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/forceatlas/pkg/observability"
)

const namespace = "forceatlas"

// Registry holds all metrics for the application.
type Registry struct {
	// Layout Metrics
	LayoutsTotal      *prometheus.CounterVec
	LayoutDuration    prometheus.Histogram
	LayoutIterations  prometheus.Counter
	LayoutGlobalSpeed prometheus.Gauge
	LayoutsInFlight   prometheus.Gauge
	LayoutGraphNodes  prometheus.Histogram
	RendersTotal      *prometheus.CounterVec
	RenderDuration    prometheus.Histogram

	// Cache Metrics
	CacheHitsTotal    *prometheus.CounterVec
	CacheMissesTotal  *prometheus.CounterVec
	CacheSetsTotal    *prometheus.CounterVec
	CacheSetSizeBytes *prometheus.HistogramVec

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

var (
	_ observability.LayoutHooks = (*Registry)(nil)
	_ observability.CacheHooks  = (*Registry)(nil)
	_ observability.HTTPHooks   = (*Registry)(nil)
)

// NewRegistry creates a registry with all metrics plus the Go runtime and
// process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.initLayoutMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

// Install registers r as the global layout, cache and HTTP hooks.
func (r *Registry) Install() {
	observability.SetLayoutHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *Registry) initLayoutMetrics() {
	f := promauto.With(r.registry)

	r.LayoutsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Total number of layout runs by outcome",
		},
		[]string{"status"},
	)

	r.LayoutDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Wall time of layout runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	r.LayoutIterations = f.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_iterations_total",
			Help:      "Total number of completed layout iterations",
		},
	)

	r.LayoutGlobalSpeed = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layout_global_speed",
			Help:      "Global speed after the most recent iteration",
		},
	)

	r.LayoutsInFlight = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layouts_in_flight",
			Help:      "Current number of running layouts",
		},
	)

	r.LayoutGraphNodes = f.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_graph_nodes",
			Help:      "Number of nodes per laid out graph",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	r.RendersTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of render runs by outcome",
		},
		[]string{"status"},
	)

	r.RenderDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Wall time of render runs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)

	r.CacheHitsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits by key type",
		},
		[]string{"type"},
	)

	r.CacheMissesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses by key type",
		},
		[]string{"type"},
	)

	r.CacheSetsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_sets_total",
			Help:      "Total number of cache writes by key type",
		},
		[]string{"type"},
	)

	r.CacheSetSizeBytes = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cache_set_size_bytes",
			Help:      "Size of cache entries written in bytes",
			Buckets:   []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		},
		[]string{"type"},
	)
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)

	r.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestsInFlight = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
}

// =============================================================================
// Hook implementations
// =============================================================================

func (r *Registry) OnLayoutStart(_ context.Context, nodeCount, _ int) {
	r.LayoutsInFlight.Inc()
	r.LayoutGraphNodes.Observe(float64(nodeCount))
}

func (r *Registry) OnIteration(_ context.Context, _ int, speed, _, _ float64) {
	r.LayoutIterations.Inc()
	r.LayoutGlobalSpeed.Set(speed)
}

func (r *Registry) OnLayoutComplete(_ context.Context, _ int, duration time.Duration, err error) {
	r.LayoutsInFlight.Dec()
	r.LayoutsTotal.WithLabelValues(status(err)).Inc()
	r.LayoutDuration.Observe(duration.Seconds())
}

func (r *Registry) OnRenderStart(context.Context, []string) {}

func (r *Registry) OnRenderComplete(_ context.Context, _ []string, duration time.Duration, err error) {
	r.RendersTotal.WithLabelValues(status(err)).Inc()
	r.RenderDuration.Observe(duration.Seconds())
}

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheSetsTotal.WithLabelValues(keyType).Inc()
	r.CacheSetSizeBytes.WithLabelValues(keyType).Observe(float64(size))
}

func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

func (r *Registry) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	code := strconv.Itoa(statusCode)
	r.HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
