// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "conversation_insights"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Pipeline run metrics
	RunsTotal   prometheus.Counter
	RunsFailed  prometheus.Counter
	RunDuration prometheus.Histogram

	// Metadata lookup metrics
	LookupMisses prometheus.Counter

	// Model metrics
	ModelCalls    prometheus.Counter
	ModelFailures *prometheus.CounterVec
	ModelLatency  prometheus.Histogram

	// Sink metrics
	SinkWrites *prometheus.CounterVec

	// Alert metrics
	AlertsPublished    prometheus.Counter
	AlertPublishErrors prometheus.Counter
	PublishLatency     prometheus.Histogram

	// Notification relay metrics
	NotificationsDelivered prometheus.Counter
	NotificationsFailed    prometheus.Counter
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
		RunsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_failed_total",
			Help:      "Total number of pipeline runs that failed the invocation",
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of pipeline runs in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),

		LookupMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_misses_total",
			Help:      "Total number of uploads with no matching case record",
		}),

		ModelCalls: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "Total number of generative model invocations",
		}),
		ModelFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_failures_total",
			Help:      "Total number of failed model invocations",
		}, []string{"reason"}),
		ModelLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_latency_seconds",
			Help:      "Generative model invocation latency in seconds",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}),

		SinkWrites: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_writes_total",
			Help:      "Total number of persistence sink writes",
		}, []string{"sink", "status"}),

		AlertsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      "Total number of sentiment alerts published",
		}),
		AlertPublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_publish_errors_total",
			Help:      "Total number of alert publish failures",
		}),
		PublishLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "alert_publish_latency_seconds",
			Help:      "Alert topic publish latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}),

		NotificationsDelivered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_delivered_total",
			Help:      "Total number of chat notifications delivered",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_failed_total",
			Help:      "Total number of chat notification delivery failures",
		}),
	}
}

// RecordRun records a completed pipeline run.
func (m *Metrics) RecordRun(failed bool, durationSeconds float64) {
	m.RunsTotal.Inc()
	m.RunDuration.Observe(durationSeconds)
	if failed {
		m.RunsFailed.Inc()
	}
}

// RecordLookupMiss records an upload with no matching case.
func (m *Metrics) RecordLookupMiss() {
	m.LookupMisses.Inc()
}

// RecordModelCall records a model invocation and its outcome.
func (m *Metrics) RecordModelCall(reason string, latencySeconds float64) {
	m.ModelCalls.Inc()
	m.ModelLatency.Observe(latencySeconds)
	if reason != "" {
		m.ModelFailures.WithLabelValues(reason).Inc()
	}
}

// RecordSinkWrite records a persistence write attempt for one sink.
func (m *Metrics) RecordSinkWrite(sink string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SinkWrites.WithLabelValues(sink, status).Inc()
}

// RecordAlertPublish records an alert publish attempt.
func (m *Metrics) RecordAlertPublish(err error, latencySeconds float64) {
	m.PublishLatency.Observe(latencySeconds)
	if err != nil {
		m.AlertPublishErrors.Inc()
		return
	}
	m.AlertsPublished.Inc()
}

// RecordNotification records a chat webhook delivery attempt.
func (m *Metrics) RecordNotification(err error) {
	if err != nil {
		m.NotificationsFailed.Inc()
		return
	}
	m.NotificationsDelivered.Inc()
}
