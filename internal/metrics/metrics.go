// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Resolutions counts resolver outcomes by result: tenant, admin,
	// not_found, or error.
	Resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_resolutions_total",
			Help: "Cumulative number of host resolutions by result.",
		}, []string{"result"})

	ResolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tenant_resolve_duration_seconds",
			Help:    "Time spent resolving a request host, including cache and store.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		})

	// CacheRequests counts cache reads by result: hit, negative_hit, or miss.
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_cache_requests_total",
			Help: "Cumulative number of tenant cache reads by result.",
		}, []string{"result"})

	StoreLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_store_load_total",
			Help: "Cumulative number of tenant store queries issued by the cache.",
		})

	StoreLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_store_load_errors_total",
			Help: "Cumulative number of tenant store queries that failed.",
		})
)

func init() {
	prometheus.MustRegister(
		Resolutions,
		ResolveDuration,
		CacheRequests,
		StoreLoadTotal,
		StoreLoadErrorsTotal,
	)
}
