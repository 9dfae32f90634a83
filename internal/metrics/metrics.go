package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aghi_cache_hits_total",
		Help: "Response cache hits (fresh entries)",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aghi_cache_misses_total",
		Help: "Response cache misses, including stale entries",
	})
	CacheSharedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aghi_cache_shared_fetches_total",
		Help: "Fetches answered by an identical in-flight request",
	})
	GatewayRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aghi_gateway_requests_total",
		Help: "Upstream API requests by endpoint",
	}, []string{"endpoint"})
	GatewayFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aghi_gateway_failures_total",
		Help: "Upstream API failures by endpoint",
	}, []string{"endpoint"})
	GatewayDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aghi_gateway_duration_ms",
		Help:    "Upstream API call duration in milliseconds",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	}, []string{"endpoint"})
	GeometryLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aghi_geometry_loads_total",
		Help: "Boundary bundle loads by granularity and source",
	}, []string{"level", "source"})
	PanelFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aghi_panel_failures_total",
		Help: "Panel reloads that ended in a failure notice",
	}, []string{"panel"})
	StaleDiscardedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aghi_stale_results_discarded_total",
		Help: "Fetch results dropped because a newer reload superseded them",
	}, []string{"panel"})
)

func init() {
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(CacheSharedTotal)
	prometheus.MustRegister(GatewayRequestsTotal)
	prometheus.MustRegister(GatewayFailuresTotal)
	prometheus.MustRegister(GatewayDurationMs)
	prometheus.MustRegister(GeometryLoadsTotal)
	prometheus.MustRegister(PanelFailuresTotal)
	prometheus.MustRegister(StaleDiscardedTotal)
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
