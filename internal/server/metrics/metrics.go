// Package metrics provides Prometheus metrics for the treefs server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treefs_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "treefs_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Tree metrics
	treeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treefs_tree_operations_total",
			Help: "Total tree operations by outcome",
		},
		[]string{"operation", "result"},
	)

	treeSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "treefs_tree_size",
			Help: "Number of files and directories in the tree, root included",
		},
	)

	rateLimitHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "treefs_rate_limit_hits_total",
			Help: "Total rate limit rejections (429s)",
		},
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treefs_auth_attempts_total",
			Help: "Total admin authentication attempts",
		},
		[]string{"result"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric. path should be the route
// pattern, not the raw URL.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOperation records the outcome of one tree operation.
func RecordOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	treeOperationsTotal.WithLabelValues(operation, result).Inc()
}

func SetTreeSize(size int) {
	treeSize.Set(float64(size))
}

func RecordRateLimitHit() {
	rateLimitHitsTotal.Inc()
}

func RecordAuthAttempt(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	authAttemptsTotal.WithLabelValues(result).Inc()
}
