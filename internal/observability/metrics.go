package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts conversation turns by the stage that answered them.
type Metrics struct {
	registry *prometheus.Registry
	turns    *prometheus.CounterVec
	fallback prometheus.Histogram
}

// NewMetrics registers the assistant collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storebuddy_turns_total",
			Help: "Conversation turns by answering stage.",
		}, []string{"stage"}),
		fallback: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storebuddy_fallback_seconds",
			Help:    "Latency of fallback text generation calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.turns,
		m.fallback,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Turn records a turn answered by stage. Safe on a nil receiver.
func (m *Metrics) Turn(stage string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(stage).Inc()
}

// FallbackDuration records the latency of one fallback call.
func (m *Metrics) FallbackDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.fallback.Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
