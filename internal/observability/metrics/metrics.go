// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "audio_privacy_pipeline"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Run metrics
	RunsTotal   prometheus.Counter
	RunsActive  prometheus.Gauge
	RunsSuccess prometheus.Counter
	RunsFailed  *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Stage metrics
	StageLatency *prometheus.HistogramVec

	// Trust metrics
	TrustLevels *prometheus.CounterVec

	// Redaction metrics
	RedactionsApplied *prometheus.CounterVec
	SpanConflicts     prometheus.Counter

	// Summarization metrics
	SummariesSkipped prometheus.Counter

	// External engine metrics
	EngineErrors *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// Audit metrics
	AuditWrites      prometheus.Counter
	AuditWriteErrors prometheus.Counter
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of pipeline runs started",
		}),
		RunsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_active",
			Help:      "Number of currently executing pipeline runs",
		}),
		RunsSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_success_total",
			Help:      "Total number of successfully completed runs",
		}),
		RunsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_failed_total",
			Help:      "Total number of failed runs by failing stage",
		}, []string{"stage"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "End-to-end pipeline run duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),

		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_latency_seconds",
			Help:      "Per-stage processing latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"stage"}),

		TrustLevels: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trust_levels_total",
			Help:      "Total transcripts by assigned trust level",
		}, []string{"level"}),

		RedactionsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redactions_applied_total",
			Help:      "Total redactions applied by label and detector source",
		}, []string{"label", "source"}),
		SpanConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "span_conflicts_resolved_total",
			Help:      "Total overlapping spans discarded during conflict resolution",
		}),

		SummariesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_skipped_total",
			Help:      "Total summarizations skipped by the length gate",
		}),

		EngineErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_errors_total",
			Help:      "Total external engine errors by engine and provider",
		}, []string{"engine", "provider"}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		AuditWrites: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_writes_total",
			Help:      "Total audit artifacts written",
		}),
		AuditWriteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_errors_total",
			Help:      "Total audit artifact write failures",
		}),
	}
}

// RecordRunStart records a pipeline run starting.
func (m *Metrics) RecordRunStart() {
	m.RunsTotal.Inc()
	m.RunsActive.Inc()
}

// RecordRunEnd records a pipeline run ending. failedStage is empty on
// success.
func (m *Metrics) RecordRunEnd(failedStage string, durationSeconds float64) {
	m.RunsActive.Dec()
	m.RunDuration.Observe(durationSeconds)
	if failedStage == "" {
		m.RunsSuccess.Inc()
	} else {
		m.RunsFailed.WithLabelValues(failedStage).Inc()
	}
}

// RecordStage records one stage's latency.
func (m *Metrics) RecordStage(stage string, seconds float64) {
	m.StageLatency.WithLabelValues(stage).Observe(seconds)
}

// RecordTrustLevel records the assigned trust level of a run.
func (m *Metrics) RecordTrustLevel(level string) {
	m.TrustLevels.WithLabelValues(level).Inc()
}

// RecordRedaction records one applied redaction.
func (m *Metrics) RecordRedaction(label, source string) {
	m.RedactionsApplied.WithLabelValues(label, source).Inc()
}

// RecordSpanConflicts records spans discarded during overlap resolution.
func (m *Metrics) RecordSpanConflicts(n int) {
	if n > 0 {
		m.SpanConflicts.Add(float64(n))
	}
}

// RecordSummarySkipped records a length-gated summarization.
func (m *Metrics) RecordSummarySkipped() {
	m.SummariesSkipped.Inc()
}

// RecordEngineError records an external engine error.
func (m *Metrics) RecordEngineError(engine, provider string) {
	m.EngineErrors.WithLabelValues(engine, provider).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic).Inc()
	}
}

// RecordAuditWrite records an audit artifact write attempt.
func (m *Metrics) RecordAuditWrite(err error) {
	if err != nil {
		m.AuditWriteErrors.Inc()
		return
	}
	m.AuditWrites.Inc()
}
