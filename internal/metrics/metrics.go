// Package metrics exposes the app's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one application instance
type Metrics struct {
	registry *prometheus.Registry

	RemindersFired prometheus.Counter
	SOSDispatched  prometheus.Counter
	SOSFailed      prometheus.Counter
	AIRequests     *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
}

// New creates a metrics set on its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RemindersFired: factory.NewCounter(prometheus.CounterOpts{
			Name: "vitalpulse_reminders_fired_total",
			Help: "Medication reminder notifications emitted.",
		}),
		SOSDispatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "vitalpulse_sos_dispatched_total",
			Help: "Emergency alerts successfully dispatched.",
		}),
		SOSFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "vitalpulse_sos_failed_total",
			Help: "Emergency dispatches abandoned on location failure.",
		}),
		AIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vitalpulse_ai_requests_total",
			Help: "Assistant backend requests by operation and outcome.",
		}, []string{"op", "status"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vitalpulse_http_requests_total",
			Help: "HTTP requests by method and status class.",
		}, []string{"method", "status"}),
	}
}

// Handler returns the scrape endpoint handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
