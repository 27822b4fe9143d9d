package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInMemoryRecorder_Counts(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncGeneration(OutcomeSuccess)
	m.IncGeneration(OutcomeFailed)
	m.IncGeneration(OutcomeFailed)
	m.ObserveGenerationDuration(2 * time.Second)
	m.ObserveUpstreamRequest(EndpointToken, UpstreamSuccess, time.Millisecond)
	m.ObserveUpstreamRequest(EndpointToken, UpstreamSuccess, time.Millisecond)
	m.ObserveUpstreamRequest(EndpointUser, UpstreamError, time.Millisecond)
	m.IncImageServed(OutcomeSuccess)
	m.IncImageServed(OutcomeFailed)

	snap := m.Snapshot()

	if snap.GenerationsSucceeded != 1 || snap.GenerationsFailed != 2 {
		t.Errorf("generations = %d/%d, want 1/2", snap.GenerationsSucceeded, snap.GenerationsFailed)
	}
	if snap.GenerationDurationCount != 1 || snap.GenerationDurationTotalNs != int64(2*time.Second) {
		t.Errorf("unexpected duration stats: %+v", snap)
	}
	if snap.Upstream["token/success"] != 2 {
		t.Errorf("token/success = %d, want 2", snap.Upstream["token/success"])
	}
	if snap.Upstream["user/error"] != 1 {
		t.Errorf("user/error = %d, want 1", snap.Upstream["user/error"])
	}
	if snap.ImagesServed != 1 || snap.ImagesMissing != 1 {
		t.Errorf("images = %d/%d, want 1/1", snap.ImagesServed, snap.ImagesMissing)
	}
}

func TestInMemoryRecorder_SnapshotIsCopy(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.ObserveUpstreamRequest(EndpointRankings, UpstreamSuccess, 0)

	snap := m.Snapshot()
	snap.Upstream["rankings/success"] = 99

	if got := m.Snapshot().Upstream["rankings/success"]; got != 1 {
		t.Errorf("snapshot mutation leaked into recorder: got %d", got)
	}
}

func TestPrometheusRecorder_Counters(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.IncGeneration(OutcomeSuccess)
	p.IncGeneration(OutcomeSuccess)
	p.ObserveUpstreamRequest(EndpointUser, UpstreamRejected, 0)

	if got := testutil.ToFloat64(p.generations.WithLabelValues(OutcomeSuccess)); got != 2 {
		t.Errorf("generations{success} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.upstreamRequests.WithLabelValues(EndpointUser, UpstreamRejected)); got != 1 {
		t.Errorf("upstream{user,rejected} = %v, want 1", got)
	}
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.IncImageServed(OutcomeSuccess)

	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `osustats_images_served_total{status="success"} 1`) {
		t.Errorf("metrics output missing images_served_total:\n%s", body)
	}
}
