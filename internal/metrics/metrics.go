// Package metrics holds the Prometheus instruments of the API server.
//
// Metrics live on a private registry so that tests can build as many
// servers as they like without duplicate-registration panics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "casetracker"

// Metrics is the set of instruments exported at /metrics.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTPRequests counts API requests. Labels: route, method, status
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration observes API latency. Labels: route, method
	HTTPDuration *prometheus.HistogramVec
	// Warnings counts postmark warnings returned. Labels: kind (entry_age, release, spacing)
	Warnings *prometheus.CounterVec
	// RecordMutations counts successful writes. Labels: record (request, comment), op (create, update, delete)
	RecordMutations *prometheus.CounterVec
	// LabelsPrinted counts labels spooled for printing. Labels: delivery (mail, spool)
	LabelsPrinted *prometheus.CounterVec
	// SearchProviderErrors counts failed provider lookups. Labels: provider
	SearchProviderErrors *prometheus.CounterVec
}

// New creates and registers every instrument on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "API requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		Warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "postmark_warnings_total",
			Help: "Warnings returned for prospective filled requests.",
		}, []string{"kind"}),
		RecordMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "record_mutations_total",
			Help: "Successful request and comment writes.",
		}, []string{"record", "op"}),
		LabelsPrinted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "labels_printed_total",
			Help: "Labels sent to the print queue.",
		}, []string{"delivery"}),
		SearchProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "search_provider_errors_total",
			Help: "Failed inmate provider lookups.",
		}, []string{"provider"}),
	}
	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.Warnings, m.RecordMutations, m.LabelsPrinted, m.SearchProviderErrors)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
