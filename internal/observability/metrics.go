// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Decode metrics
	RecordsDecoded prometheus.Counter
	RecordsDropped *prometheus.CounterVec

	// Ingestion metrics
	TransactionsStored   prometheus.Counter
	DuplicatesSkipped    prometheus.Counter
	FeedReconnects       prometheus.Counter
	IngestionErrors      *prometheus.CounterVec
	FeedMessagesReceived prometheus.Counter

	// Pipeline metrics
	WalletsFeatured   prometheus.Counter
	WalletsScored     prometheus.Counter
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec
	ReportsGenerated  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_credit_lab"
	}

	return &Metrics{
		RecordsDecoded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "records_decoded_total",
			Help:      "Total number of raw records decoded into transactions",
		}),
		RecordsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "records_dropped_total",
			Help:      "Total number of raw records dropped by reason",
		}, []string{"reason"}),

		TransactionsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_stored_total",
			Help:      "Total number of transactions stored to database",
		}),
		DuplicatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "duplicates_skipped_total",
			Help:      "Total number of duplicate transactions skipped on insert",
		}),
		FeedReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "feed_reconnects_total",
			Help:      "Total number of WebSocket feed reconnect attempts",
		}),
		IngestionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "errors_total",
			Help:      "Total number of ingestion errors by type",
		}, []string{"error_type"}),
		FeedMessagesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "feed_messages_received_total",
			Help:      "Total number of messages received from the feed",
		}),

		WalletsFeatured: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "wallets_featured_total",
			Help:      "Total number of wallets with extracted features",
		}),
		WalletsScored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "wallets_scored_total",
			Help:      "Total number of wallets scored",
		}),
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve starts a metrics HTTP server on addr. It blocks.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordDecoded increments the decoded records counter.
func RecordDecoded(n int) {
	DefaultMetrics.RecordsDecoded.Add(float64(n))
}

// RecordDropped records dropped raw records by reason.
func RecordDropped(reason string, n int) {
	DefaultMetrics.RecordsDropped.WithLabelValues(reason).Add(float64(n))
}

// RecordStored increments the stored transactions counter.
func RecordStored(n int) {
	DefaultMetrics.TransactionsStored.Add(float64(n))
}

// RecordDuplicate increments the duplicates skipped counter.
func RecordDuplicate() {
	DefaultMetrics.DuplicatesSkipped.Inc()
}

// RecordFeedReconnect increments the feed reconnect counter.
func RecordFeedReconnect() {
	DefaultMetrics.FeedReconnects.Inc()
}

// RecordIngestionError records an ingestion error by type.
func RecordIngestionError(errorType string) {
	DefaultMetrics.IngestionErrors.WithLabelValues(errorType).Inc()
}

// RecordPipelineRun records a pipeline run outcome.
func RecordPipelineRun(status string) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(status).Inc()
}

// RecordStageDuration records a pipeline stage duration.
func RecordStageDuration(stage string, seconds float64) {
	DefaultMetrics.PipelineDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
