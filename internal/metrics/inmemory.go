package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	GenerationsSucceeded      uint64
	GenerationsFailed         uint64
	GenerationDurationCount   uint64
	GenerationDurationTotalNs int64
	ImagesServed              uint64
	ImagesMissing             uint64
	// Upstream maps "endpoint/status" to a request count.
	Upstream map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	generationsSucceeded      uint64
	generationsFailed         uint64
	generationDurationCount   uint64
	generationDurationTotalNs int64
	imagesServed              uint64
	imagesMissing             uint64

	mu       sync.Mutex
	upstream map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{upstream: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	upstream := make(map[string]uint64, len(m.upstream))
	for k, v := range m.upstream {
		upstream[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		GenerationsSucceeded:      atomic.LoadUint64(&m.generationsSucceeded),
		GenerationsFailed:         atomic.LoadUint64(&m.generationsFailed),
		GenerationDurationCount:   atomic.LoadUint64(&m.generationDurationCount),
		GenerationDurationTotalNs: atomic.LoadInt64(&m.generationDurationTotalNs),
		ImagesServed:              atomic.LoadUint64(&m.imagesServed),
		ImagesMissing:             atomic.LoadUint64(&m.imagesMissing),
		Upstream:                  upstream,
	}
}

// IncGeneration increments the generation counter for an outcome.
func (m *InMemoryRecorder) IncGeneration(outcome string) {
	if outcome == OutcomeSuccess {
		atomic.AddUint64(&m.generationsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.generationsFailed, 1)
}

// ObserveGenerationDuration records pipeline duration.
func (m *InMemoryRecorder) ObserveGenerationDuration(duration time.Duration) {
	atomic.AddUint64(&m.generationDurationCount, 1)
	atomic.AddInt64(&m.generationDurationTotalNs, duration.Nanoseconds())
}

// ObserveUpstreamRequest counts an upstream call by endpoint and status.
func (m *InMemoryRecorder) ObserveUpstreamRequest(endpoint, status string, duration time.Duration) {
	m.mu.Lock()
	m.upstream[endpoint+"/"+status]++
	m.mu.Unlock()
}

// IncImageServed increments the image serve counter.
func (m *InMemoryRecorder) IncImageServed(status string) {
	if status == OutcomeSuccess {
		atomic.AddUint64(&m.imagesServed, 1)
		return
	}
	atomic.AddUint64(&m.imagesMissing, 1)
}
