// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "leasedoc"

// Metrics groups the collectors recorded by services and handlers
type Metrics struct {
	registry *prometheus.Registry

	DocumentsGenerated   *prometheus.CounterVec
	DocumentsRegenerated *prometheus.CounterVec
	GenerationFailures   *prometheus.CounterVec
	GenerationDuration   *prometheus.HistogramVec
	WebhookEvents        *prometheus.CounterVec
	SignatureRequests    *prometheus.CounterVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		DocumentsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_generated_total",
			Help:      "Documents generated and stored, by document type.",
		}, []string{"document_type"}),
		DocumentsRegenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_regenerated_total",
			Help:      "Documents regenerated from stored form data, by document type.",
		}, []string{"document_type"}),
		GenerationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "Failed generate or regenerate calls, by reason.",
		}, []string{"reason"}),
		GenerationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Latency of generation backend calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 90},
		}, []string{"provider"}),
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signature_webhook_events_total",
			Help:      "Signature webhook invocations, by event type and outcome.",
		}, []string{"event_type", "outcome"}),
		SignatureRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signature_requests_total",
			Help:      "Documents sent for signature, by result.",
		}, []string{"result"}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
