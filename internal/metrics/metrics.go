// Package metrics exposes Prometheus instruments for the sync orchestrator.
//
// Exported series:
//
//	life_sync_operations_enqueued_total{kind}
//	life_sync_operations_completed_total{kind}
//	life_sync_operations_retried_total{kind,error_kind}
//	life_sync_operations_failed_total{kind,error_kind}
//	life_sync_conflicts_detected_total{module}
//	life_sync_operations_pending
//	life_sync_operations_failed
//	life_sync_online
//	life_sync_drain_duration_seconds
package metrics

import (
	"time"

	"github.com/MKhiriev/life-sync/internal/classifier"
	"github.com/MKhiriev/life-sync/models"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "life_sync"

// SyncCollector records orchestrator activity.
type SyncCollector struct {
	enqueued  *prometheus.CounterVec
	completed *prometheus.CounterVec
	retried   *prometheus.CounterVec
	failed    *prometheus.CounterVec
	conflicts *prometheus.CounterVec

	pending     prometheus.Gauge
	failedQueue prometheus.Gauge
	online      prometheus.Gauge

	drainDuration prometheus.Histogram
}

// NewSyncCollector creates the instruments and registers them with reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
func NewSyncCollector(reg prometheus.Registerer) *SyncCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &SyncCollector{
		enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_enqueued_total",
			Help:      "Total number of sync operations enqueued",
		}, []string{"kind"}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_completed_total",
			Help:      "Total number of sync operations completed",
		}, []string{"kind"}),
		retried: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_retried_total",
			Help:      "Total number of sync operation attempts scheduled for retry",
		}, []string{"kind", "error_kind"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_failed_total",
			Help:      "Total number of sync operations that failed terminally",
		}, []string{"kind", "error_kind"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflicts_detected_total",
			Help:      "Total number of conflicts between local and remote module documents",
		}, []string{"module"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "operations_pending",
			Help:      "Current number of pending or processing sync operations",
		}),
		failedQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "operations_failed",
			Help:      "Current number of failed sync operations kept for diagnostics",
		}),
		online: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online",
			Help:      "1 when the client considers itself online",
		}),
		drainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "drain_duration_seconds",
			Help:      "Duration of queue drain passes in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}

	reg.MustRegister(
		c.enqueued,
		c.completed,
		c.retried,
		c.failed,
		c.conflicts,
		c.pending,
		c.failedQueue,
		c.online,
		c.drainDuration,
	)

	return c
}

func (c *SyncCollector) RecordEnqueued(kind models.OperationKind) {
	c.enqueued.WithLabelValues(string(kind)).Inc()
}

func (c *SyncCollector) RecordCompleted(kind models.OperationKind) {
	c.completed.WithLabelValues(string(kind)).Inc()
}

func (c *SyncCollector) RecordRetry(kind models.OperationKind, errKind classifier.ErrorKind) {
	c.retried.WithLabelValues(string(kind), string(errKind)).Inc()
}

func (c *SyncCollector) RecordFailed(kind models.OperationKind, errKind classifier.ErrorKind) {
	c.failed.WithLabelValues(string(kind), string(errKind)).Inc()
}

func (c *SyncCollector) RecordConflict(module string) {
	c.conflicts.WithLabelValues(module).Inc()
}

// ObserveDrain records the duration of one drain pass.
func (c *SyncCollector) ObserveDrain(d time.Duration) {
	c.drainDuration.Observe(d.Seconds())
}

// SetStatus mirrors the queue gauges from the current status.
func (c *SyncCollector) SetStatus(status models.SyncStatus) {
	c.pending.Set(float64(status.PendingCount))
	c.failedQueue.Set(float64(status.FailedCount))
	if status.Online {
		c.online.Set(1)
	} else {
		c.online.Set(0)
	}
}
