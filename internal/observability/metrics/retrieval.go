package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RetrievalMetrics instruments context assembly. Registered on the same
// registry as the worker metrics so one /metrics endpoint serves both.
type RetrievalMetrics struct {
	phaseDuration *prometheus.HistogramVec
	contextTokens prometheus.Histogram
	fallbackTotal *prometheus.CounterVec
}

func NewRetrievalMetrics(m *WorkerMetrics) *RetrievalMetrics {
	phaseDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Subsystem: "retrieval",
			Name:      "phase_duration_seconds",
			Help:      "Duration of each retrieval phase.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"phase"},
	)
	contextTokens := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Subsystem: "retrieval",
			Name:      "context_tokens",
			Help:      "Estimated token size of assembled contexts.",
			Buckets:   []float64{100, 250, 500, 1000, 1500, 2000, 3000, 4000, 6000},
		},
	)
	fallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Subsystem: "retrieval",
			Name:      "fallback_total",
			Help:      "Retrievals that degraded, by fallback type.",
		},
		[]string{"type"},
	)

	m.registry.MustRegister(phaseDuration, contextTokens, fallbackTotal)

	return &RetrievalMetrics{
		phaseDuration: phaseDuration,
		contextTokens: contextTokens,
		fallbackTotal: fallbackTotal,
	}
}

func (m *RetrievalMetrics) ObservePhase(phase string, d time.Duration) {
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (m *RetrievalMetrics) ObserveContextTokens(tokens int) {
	m.contextTokens.Observe(float64(tokens))
}

func (m *RetrievalMetrics) CountFallback(fallbackType string) {
	m.fallbackTotal.WithLabelValues(fallbackType).Inc()
}
