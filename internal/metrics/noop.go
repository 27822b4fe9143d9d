package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncGeneration is a no-op.
func (n *NoopRecorder) IncGeneration(outcome string) {}

// ObserveGenerationDuration is a no-op.
func (n *NoopRecorder) ObserveGenerationDuration(duration time.Duration) {}

// ObserveUpstreamRequest is a no-op.
func (n *NoopRecorder) ObserveUpstreamRequest(endpoint, status string, duration time.Duration) {}

// IncImageServed is a no-op.
func (n *NoopRecorder) IncImageServed(status string) {}
