// Package metrics provides metrics recording middleware for model clients.
package metrics

import "time"

// Recorder defines the interface for recording model call metrics.
type Recorder interface {
	// ObserveRequest records metrics for a completed model request.
	ObserveRequest(
		model, agent string,
		promptTokens, completionTokens int,
		success bool,
		errorType string,
		duration time.Duration,
	)
}

// NoopRecorder implements Recorder with no-op behavior for when metrics are disabled.
type NoopRecorder struct{}

// Nop returns a no-op metrics recorder that discards all metrics.
func Nop() Recorder {
	return &NoopRecorder{}
}

// ObserveRequest does nothing in the no-op recorder.
func (n *NoopRecorder) ObserveRequest(_, _ string, _, _ int, _ bool, _ string, _ time.Duration) {
}
