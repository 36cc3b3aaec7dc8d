// Package metrics provides Prometheus metrics for the filesystem gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spfs_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spfs_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Filesystem operation metrics
	fsOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spfs_operations_total",
			Help: "Total filesystem operations against the document library",
		},
		[]string{"operation", "status"},
	)

	fsOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spfs_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	bytesUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spfs_bytes_uploaded_total",
			Help: "Total bytes written to the document library",
		},
	)

	bytesDownloaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spfs_bytes_downloaded_total",
			Help: "Total bytes read from the document library",
		},
	)

	listedEntries = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spfs_list_entries",
			Help:    "Entries returned per directory listing",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	journalFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spfs_journal_failures_total",
			Help: "Operation journal writes that failed",
		},
	)

	journalPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spfs_journal_pruned_total",
			Help: "Journal entries removed by retention",
		},
	)

	// Change notification metrics
	sseClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spfs_sse_clients",
			Help: "Connected change notification streams",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordOperation records a filesystem operation outcome.
func RecordOperation(operation string, duration time.Duration, err error) {
	fsOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	fsOperationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

// RecordUpload adds to the uploaded byte counter.
func RecordUpload(bytes int64) {
	if bytes > 0 {
		bytesUploaded.Add(float64(bytes))
	}
}

// RecordDownload adds to the downloaded byte counter.
func RecordDownload(bytes int64) {
	if bytes > 0 {
		bytesDownloaded.Add(float64(bytes))
	}
}

// RecordListing observes the size of a directory listing.
func RecordListing(entries int) {
	listedEntries.Observe(float64(entries))
}

// RecordJournalFailure counts a journal write that was dropped.
func RecordJournalFailure() {
	journalFailuresTotal.Inc()
}

// RecordJournalPruned counts entries removed by retention.
func RecordJournalPruned(n int64) {
	if n > 0 {
		journalPrunedTotal.Add(float64(n))
	}
}

// SetSSEClients reports the number of connected change streams.
func SetSSEClients(n int) {
	sseClients.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Middleware returns HTTP middleware that records request metrics.
// Requests are labelled by chi route pattern so query strings and paths do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordHTTPRequest(r.Method, routePattern(r), status, time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
