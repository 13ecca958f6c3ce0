// Package observability holds the prometheus collectors of the gateway.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "gateway",
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests served, labeled by route template, method and status.",
	}, []string{"route", "method", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitness",
		Subsystem: "gateway",
		Name:      "http_request_duration_seconds",
		Help:      "Time spent serving HTTP requests, including downstream RPCs.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"route", "method"})
)

func init() {
	prometheus.MustRegister(requestsCounter, requestDuration)
}

// RecordRequest counts one served request.
func RecordRequest(route, method string, status int, elapsed time.Duration) {
	requestsCounter.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
