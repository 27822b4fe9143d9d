package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "osustats"

// PrometheusRecorder exports metrics through a private Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	generations        *prometheus.CounterVec
	generationDuration prometheus.Histogram
	upstreamRequests   *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
	imagesServed       *prometheus.CounterVec
}

// NewPrometheus creates a recorder with its own registry.
// Go runtime and process collectors are registered alongside the app metrics.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Total number of image generation runs by outcome",
			},
			[]string{"outcome"},
		),
		generationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Duration of a full generation run in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		upstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of osu! API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Duration of osu! API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		imagesServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "images_served_total",
				Help:      "Total number of stats image requests by status",
			},
			[]string{"status"},
		),
	}
}

// IncGeneration increments the generation counter for an outcome.
func (p *PrometheusRecorder) IncGeneration(outcome string) {
	p.generations.WithLabelValues(outcome).Inc()
}

// ObserveGenerationDuration records pipeline duration.
func (p *PrometheusRecorder) ObserveGenerationDuration(duration time.Duration) {
	p.generationDuration.Observe(duration.Seconds())
}

// ObserveUpstreamRequest records one upstream call.
func (p *PrometheusRecorder) ObserveUpstreamRequest(endpoint, status string, duration time.Duration) {
	p.upstreamRequests.WithLabelValues(endpoint, status).Inc()
	if status != UpstreamRejected {
		p.upstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	}
}

// IncImageServed increments the image serve counter.
func (p *PrometheusRecorder) IncImageServed(status string) {
	p.imagesServed.WithLabelValues(status).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
