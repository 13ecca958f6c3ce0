package events

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	publishedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Number of change notifications written to the event log.",
	}, []string{"kind", "action"})

	failedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Number of change notifications dropped after a failed publish.",
	}, []string{"kind", "action"})

	droppedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "events",
		Name:      "publish_dropped_total",
		Help:      "Number of change notifications dropped because too many publishes were pending.",
	}, []string{"kind", "action"})

	publishDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fitness",
		Subsystem: "events",
		Name:      "publish_duration_seconds",
		Help:      "Time spent writing a change notification to the event log.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(publishedCounter, failedCounter, droppedCounter, publishDuration)
}

func recordPublish(change Change, elapsed time.Duration, err error) {
	publishDuration.Observe(elapsed.Seconds())
	if err != nil {
		failedCounter.WithLabelValues(string(change.Kind), string(change.Action)).Inc()
		return
	}
	publishedCounter.WithLabelValues(string(change.Kind), string(change.Action)).Inc()
}

func recordDrop(change Change) {
	droppedCounter.WithLabelValues(string(change.Kind), string(change.Action)).Inc()
}
