package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Sync job metrics
	JobRunsTotal    *prometheus.CounterVec
	JobRowsTotal    *prometheus.CounterVec
	JobDuration     *prometheus.HistogramVec
	JobLockSkipped  *prometheus.CounterVec
	GatewayRequests *prometheus.CounterVec
)

func init() {
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Total number of sync job runs",
		},
		[]string{"job", "partition", "result"},
	)

	JobRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_rows_total",
			Help: "Total number of rows written or removed by sync jobs",
		},
		[]string{"job", "partition", "action"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_duration_seconds",
			Help:    "Duration of sync job runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"job", "partition"},
	)

	JobLockSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_lock_skipped_total",
			Help: "Total number of scheduled runs skipped because another run held the lock",
		},
		[]string{"job"},
	)

	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_erp_requests_total",
			Help: "Total number of ERP gateway requests",
		},
		[]string{"operation", "result"},
	)
}

// RecordRun records the outcome of one sync job run
func RecordRun(job, partition, result string, duration time.Duration) {
	JobRunsTotal.WithLabelValues(job, partition, result).Inc()
	JobDuration.WithLabelValues(job, partition).Observe(duration.Seconds())
}

// RecordRows records the row changes of one sync job run
func RecordRows(job, partition string, created, updated, deleted int) {
	JobRowsTotal.WithLabelValues(job, partition, "created").Add(float64(created))
	JobRowsTotal.WithLabelValues(job, partition, "updated").Add(float64(updated))
	JobRowsTotal.WithLabelValues(job, partition, "deleted").Add(float64(deleted))
}

// RecordLockSkipped records a run that was skipped due to a held run lock
func RecordLockSkipped(job string) {
	JobLockSkipped.WithLabelValues(job).Inc()
}

// RecordGatewayRequest records one ERP gateway call
func RecordGatewayRequest(operation, result string) {
	GatewayRequests.WithLabelValues(operation, result).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
