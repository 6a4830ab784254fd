package troubleshoot

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
)

// Metrics holds Prometheus metrics for the troubleshoot service.
//
// Metrics:
//   - faultdx_diagnosis_steps_total{operation,kind} - steps returned by start and continue
//   - faultdx_diagnosis_errors_total{operation,reason} - rejected requests
//   - faultdx_diagnosis_duration_seconds{operation} - engine call latency
//   - faultdx_similarity_matches - number of faults per ranking
//   - faultdx_knowledge_reloads_total{result} - reload attempts
//   - faultdx_knowledge_faults - faults in the active base
//
// A nil *Metrics records nothing.
type Metrics struct {
	StepsTotal    *prometheus.CounterVec
	ErrorsTotal   *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	MatchCount    prometheus.Histogram
	ReloadsTotal  *prometheus.CounterVec
	KnowledgeSize prometheus.Gauge
}

// NewMetrics creates the service metrics and registers them with reg.
// Registering twice on the same registerer panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "faultdx",
				Subsystem: "diagnosis",
				Name:      "steps_total",
				Help:      "Total number of diagnosis steps returned",
			},
			[]string{"operation", "kind"},
		),

		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "faultdx",
				Subsystem: "diagnosis",
				Name:      "errors_total",
				Help:      "Total number of rejected diagnosis requests",
			},
			[]string{"operation", "reason"},
		),

		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "faultdx",
				Subsystem: "diagnosis",
				Name:      "duration_seconds",
				Help:      "Duration of diagnosis operations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12), // 50µs to ~100ms
			},
			[]string{"operation"},
		),

		MatchCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "faultdx",
				Subsystem: "similarity",
				Name:      "matches",
				Help:      "Number of faults at or above the threshold per ranking",
				Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
			},
		),

		ReloadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "faultdx",
				Subsystem: "knowledge",
				Name:      "reloads_total",
				Help:      "Total number of knowledge base reload attempts",
			},
			[]string{"result"}, // "changed", "unchanged", "error"
		),

		KnowledgeSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "faultdx",
				Subsystem: "knowledge",
				Name:      "faults",
				Help:      "Number of faults in the active knowledge base",
			},
		),
	}
}

func (m *Metrics) recordStep(operation string, kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.StepsTotal.WithLabelValues(operation, kind).Inc()
	m.Duration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) recordError(operation, reason string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) recordMatches(n int, d time.Duration) {
	if m == nil {
		return
	}
	m.MatchCount.Observe(float64(n))
	m.Duration.WithLabelValues(opMatch).Observe(d.Seconds())
}

func (m *Metrics) recordReload(ev knowledge.ReloadEvent) {
	if m == nil {
		return
	}
	switch {
	case ev.Err != nil:
		m.ReloadsTotal.WithLabelValues("error").Inc()
	case ev.Changed():
		m.ReloadsTotal.WithLabelValues("changed").Inc()
	default:
		m.ReloadsTotal.WithLabelValues("unchanged").Inc()
	}
	if ev.Current != nil {
		m.KnowledgeSize.Set(float64(ev.Current.Len()))
	}
}

func (m *Metrics) setKnowledgeSize(n int) {
	if m == nil {
		return
	}
	m.KnowledgeSize.Set(float64(n))
}
