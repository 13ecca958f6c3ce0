package rpc

import "github.com/prometheus/client_golang/prometheus"

var (
	handledCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "rpc_server",
		Name:      "handled_total",
		Help:      "Number of unary RPCs completed, labeled by method and status code.",
	}, []string{"method", "code"})

	handlingSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitness",
		Subsystem: "rpc_server",
		Name:      "handling_seconds",
		Help:      "Time spent serving unary RPCs.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"method"})
)

func init() {
	prometheus.MustRegister(handledCounter, handlingSeconds)
}
