package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taskboard_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	storeMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_store_mutations_total",
		Help: "Committed store mutations by collection and operation",
	}, []string{"collection", "operation"})

	storageSaveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taskboard_storage_save_duration_seconds",
		Help:    "Duration of whole-collection writes",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "result"})

	storageLoadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_storage_load_failures_total",
		Help: "Collections that degraded to empty on load",
	}, []string{"collection", "reason"})

	collectionSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "taskboard_collection_size",
		Help: "Number of records held in memory per collection",
	}, []string{"collection"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_auth_attempts_total",
		Help: "Login and signup attempts by result",
	}, []string{"operation", "result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveMutation counts a committed store mutation.
func ObserveMutation(collection, operation string) {
	storeMutations.WithLabelValues(collection, operation).Inc()
}

// ObserveSave records the duration of a collection write with a result label.
func ObserveSave(collection, result string, duration time.Duration) {
	storageSaveDuration.WithLabelValues(collection, result).Observe(duration.Seconds())
}

// ObserveLoadFailure counts a load that degraded to an empty collection.
func ObserveLoadFailure(collection, reason string) {
	storageLoadFailures.WithLabelValues(collection, reason).Inc()
}

func SetCollectionSize(collection string, count int) {
	if count < 0 {
		count = 0
	}
	collectionSize.WithLabelValues(collection).Set(float64(count))
}

// ObserveAuth counts a login or signup attempt.
func ObserveAuth(operation string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	authAttempts.WithLabelValues(operation, result).Inc()
}
