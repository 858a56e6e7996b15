// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalogo"

var (
	// CatalogReloads counts reload attempts.
	// Labels: result (success, failure, stale)
	CatalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "reloads_total",
		Help:      "Catalog reload attempts by result",
	}, []string{"result"})

	CatalogReloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "reload_duration_seconds",
		Help:      "Time to load and index the catalog",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	CatalogProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "products",
		Help:      "Products in the installed catalog snapshot",
	})

	// CatalogLoadFailed is 1 while the last reload attempt failed.
	CatalogLoadFailed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "load_failed",
		Help:      "Whether the last catalog reload failed",
	})

	FilterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "filter",
		Name:      "duration_seconds",
		Help:      "Time to evaluate a filter state against the catalog",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	FilterResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "filter",
		Name:      "results",
		Help:      "Products returned per filter evaluation",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	// HTTPRequests counts handled requests.
	// Labels: method, route, status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)
