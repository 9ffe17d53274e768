// Package metrics provides Prometheus metrics for the catalog API:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - catalog_query_total: Counter of catalog queries by filtered/unfiltered
//   - catalog_export_total: Counter of CSV exports
//   - contact_inquiry_total: Counter of contact submissions by outcome
//
// All metrics register with the Prometheus default registry at package
// initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	CatalogQueryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_query_total",
			Help: "Catalog queries served, by whether any filter was active",
		},
		[]string{"filtered"},
	)

	CatalogExportTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_export_total",
			Help: "CSV exports served",
		},
	)

	ContactInquiryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_inquiry_total",
			Help: "Contact inquiries, by outcome (relayed, rejected, failed)",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(CatalogQueryTotal)
	prometheus.MustRegister(CatalogExportTotal)
	prometheus.MustRegister(ContactInquiryTotal)
}
