package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SyncRuns      prometheus.Counter
	RecordsSynced prometheus.Counter
	SyncDuration  prometheus.Histogram
	ErrorsCount   *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SyncRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "The total number of sync runs started",
		}),
		RecordsSynced: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_synced_total",
			Help:      "The total number of forecast records accepted by the backend",
		}),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Time taken by a full sync run",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_errors_total",
			Help:      "The total number of sync errors",
		}, []string{"code"}),
	}
}
