package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		enrollmentsTotal,
		accessDecisionsTotal,
	)
}

var (
	enrollmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollments_total",
			Help: "Enrollment reconciliations by outcome (created/duplicate).",
		},
		[]string{"outcome"},
	)

	accessDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_decisions_total",
			Help: "Course access checks by decision (allow/deny).",
		},
		[]string{"decision"},
	)
)

func IncEnrollment(outcome string) {
	enrollmentsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncAccessDecision(decision string) {
	accessDecisionsTotal.WithLabelValues(norm(decision)).Inc()
}
