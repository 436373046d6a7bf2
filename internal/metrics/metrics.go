// Package metrics provides Prometheus metrics for the API server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of handled HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of handled HTTP requests in seconds",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15},
		},
		[]string{"method", "path"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_notifications_total",
			Help: "Total number of lifecycle notification sends",
		},
		[]string{"event", "status"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(notificationsTotal)
}

// RecordHTTPRequest records one handled request. path should be the route
// template, not the raw URL, to keep cardinality bounded.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordNotification records a notification send attempt.
// event: welcome/created/updated/cancelled/deleted; status: sent/failed/skipped.
func RecordNotification(event, status string) {
	notificationsTotal.WithLabelValues(event, status).Inc()
}
