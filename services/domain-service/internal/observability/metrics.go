// Package observability holds the prometheus collectors of the domain service.
package observability

import "github.com/prometheus/client_golang/prometheus"

// Outcomes recorded for writes and owner checks.
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeValidation = "validation"
	OutcomeInternal   = "internal"
)

var (
	writesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "domain",
		Name:      "writes_total",
		Help:      "Number of create, update and delete operations, labeled by entity, operation and outcome.",
	}, []string{"entity", "operation", "outcome"})

	ownerChecksCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "domain",
		Name:      "owner_checks_total",
		Help:      "Number of foreign key lookups against an owning service, labeled by owner kind and outcome.",
	}, []string{"owner", "outcome"})
)

func init() {
	prometheus.MustRegister(writesCounter, ownerChecksCounter)
}

// RecordWrite counts one mutation attempt.
func RecordWrite(entity, operation, outcome string) {
	writesCounter.WithLabelValues(entity, operation, outcome).Inc()
}

// RecordOwnerCheck counts one foreign key lookup.
func RecordOwnerCheck(owner, outcome string) {
	ownerChecksCounter.WithLabelValues(owner, outcome).Inc()
}
