package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folio_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CommentsSubmitted counts comments stored locally, split by top-level and reply.
	CommentsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_comments_submitted_total",
		Help: "Total number of comments accepted",
	}, []string{"kind"})

	// MirrorWriteFailures counts remote mirror writes that did not succeed.
	MirrorWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_mirror_write_failures_total",
		Help: "Total number of failed remote mirror writes",
	}, []string{"table"})

	// ContactMessages counts contact-form submissions by outcome.
	ContactMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_contact_messages_total",
		Help: "Total number of contact-form messages by result",
	}, []string{"result"})
)

// DatabaseMetrics records query latency for a repository.
type DatabaseMetrics struct {
	table string
}

// NewDatabaseMetrics returns a new DatabaseMetrics bound to table.
func NewDatabaseMetrics(table string) *DatabaseMetrics {
	return &DatabaseMetrics{table: table}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, m.table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, start)
	}
}
