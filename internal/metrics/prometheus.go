package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "retail"

// Prometheus holds the collectors exported at /metrics
type Prometheus struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Predictions     *prometheus.CounterVec
	Scenarios       *prometheus.CounterVec
	DatasetRows     prometheus.Gauge
}

// NewPrometheusMetrics creates the collectors. They are not registered yet.
func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code.",
			}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route"}),
		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Rows scored by the demand model.",
			}, []string{"endpoint", "outcome"}),
		Scenarios: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scenarios_total",
				Help:      "What-if price simulations.",
			}, []string{"outcome"}),
		DatasetRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_rows",
				Help:      "Rows in the currently loaded dataset snapshot.",
			}),
	}
}
