// Package metrics exposes service counters in the Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics records service activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	prometheus Prometheus
}

// New creates a metrics set on its own registry, including Go runtime and process collectors
func New() *Metrics {
	m := &Metrics{
		registry:   prometheus.NewRegistry(),
		prometheus: NewPrometheusMetrics(),
	}
	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.prometheus.Requests,
		m.prometheus.RequestDuration,
		m.prometheus.Predictions,
		m.prometheus.Scenarios,
		m.prometheus.DatasetRows,
	)
	return m
}

// Handler serves the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.prometheus.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.prometheus.RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// AddPredictions counts rows scored through endpoint
func (m *Metrics) AddPredictions(endpoint string, rows int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.prometheus.Predictions.WithLabelValues(endpoint, OutcomeError).Inc()
		return
	}
	m.prometheus.Predictions.WithLabelValues(endpoint, OutcomeOK).Add(float64(rows))
}

// IncScenario counts one simulation
func (m *Metrics) IncScenario(err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.prometheus.Scenarios.WithLabelValues(outcome).Inc()
}

// SetDatasetRows publishes the current dataset size
func (m *Metrics) SetDatasetRows(rows int) {
	if m == nil {
		return
	}
	m.prometheus.DatasetRows.Set(float64(rows))
}
