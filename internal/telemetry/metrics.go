package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bfhl service.
type Metrics struct {
	RequestTotal       *prometheus.CounterVec
	RequestDurationMs  *prometheus.HistogramVec
	DelegateDurationMs *prometheus.HistogramVec
	FilterActionTotal  *prometheus.CounterVec
	PolicyReloadTotal  *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bfhl_request_total",
			Help: "Total number of /bfhl requests by operation and response status.",
		}, []string{"operation", "status"}),

		RequestDurationMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bfhl_request_duration_ms",
			Help:    "Request duration in milliseconds, including delegate latency.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000, 5000, 30000, 60000},
		}, []string{"operation"}),

		DelegateDurationMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bfhl_delegate_duration_ms",
			Help:    "Latency of calls to the text-generation delegate in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"provider", "outcome"}),

		FilterActionTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bfhl_filter_action_total",
			Help: "Total filter actions taken.",
		}, []string{"filter", "action"}),

		PolicyReloadTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bfhl_policy_reload_total",
			Help: "Policy bundle reload attempts.",
		}, []string{"outcome"}),
	}
}

// RecordRequest records metrics for a completed request.
func (m *Metrics) RecordRequest(labels RequestLabels) {
	m.RequestTotal.WithLabelValues(labels.Operation, labels.Status).Inc()
	m.RequestDurationMs.WithLabelValues(labels.Operation).Observe(labels.DurationMs)
}

// RecordDelegateCall records the latency and outcome of one delegate call.
func (m *Metrics) RecordDelegateCall(provider, outcome string, durationMs float64) {
	m.DelegateDurationMs.WithLabelValues(provider, outcome).Observe(durationMs)
}

// RecordFilterAction records a filter action metric.
func (m *Metrics) RecordFilterAction(filter, action string) {
	m.FilterActionTotal.WithLabelValues(filter, action).Inc()
}

// RecordPolicyReload counts a policy reload attempt.
func (m *Metrics) RecordPolicyReload(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.PolicyReloadTotal.WithLabelValues(outcome).Inc()
}

// RequestLabels holds the label values for recording a request.
type RequestLabels struct {
	Operation  string
	Status     string
	DurationMs float64
}
