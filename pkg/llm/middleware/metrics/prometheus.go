package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// PrometheusRecorder implements the Recorder interface using Prometheus metrics.
type PrometheusRecorder struct {
	requestsTotal   *prometheus.CounterVec
	tokensTotal     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a new Prometheus-based metrics recorder
// registered with the given registerer. Tests pass an isolated registry.
func NewPrometheusRecorder(namespace string, reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_requests_total",
				Help:      "Total number of model requests by model, agent, and status",
			},
			[]string{"model", "agent", "status", "error_type"},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_tokens_total",
				Help:      "Total number of tokens used in model requests",
			},
			[]string{"model", "agent", "type"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_request_duration_seconds",
				Help:      "Duration of model requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"model", "agent"},
		),
	}
	reg.MustRegister(r.requestsTotal, r.tokensTotal, r.requestDuration)
	return r
}

// ObserveRequest records metrics for a completed model request.
func (p *PrometheusRecorder) ObserveRequest(
	model, agent string,
	promptTokens, completionTokens int,
	success bool,
	errorType string,
	duration time.Duration,
) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	p.requestsTotal.WithLabelValues(model, agent, status, errorType).Inc()
	p.requestDuration.WithLabelValues(model, agent).Observe(duration.Seconds())

	if promptTokens > 0 {
		p.tokensTotal.WithLabelValues(model, agent, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		p.tokensTotal.WithLabelValues(model, agent, "completion").Add(float64(completionTokens))
	}
}
