// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Generation outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Upstream call statuses.
const (
	UpstreamSuccess  = "success"
	UpstreamError    = "error"
	UpstreamRejected = "rejected"
)

// Upstream endpoints.
const (
	EndpointToken    = "token"
	EndpointUser     = "user"
	EndpointRankings = "rankings"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// Generation pipeline metrics
	IncGeneration(outcome string) // outcome: "success" or "failed"
	ObserveGenerationDuration(duration time.Duration)

	// Upstream osu! API metrics
	ObserveUpstreamRequest(endpoint, status string, duration time.Duration)

	// Image serving metrics
	IncImageServed(status string) // status: "success" or "failed"
}
