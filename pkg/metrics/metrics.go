package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking wizard metrics
	BookingSessionsStarted prometheus.Counter
	BookingsSubmitted      *prometheus.CounterVec
	BookingStepFailures    *prometheus.CounterVec

	// Assignment resolver metrics
	CandidateLoads      prometheus.Counter
	CandidateLoadErrors prometheus.Counter
	AssignmentsTotal    *prometheus.CounterVec
	AssignmentConflicts prometheus.Counter
	BusyCheckUnknown    prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingSessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_sessions_started_total",
			Help:      "Total number of booking wizard sessions started",
		}),
		BookingsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_submitted_total",
			Help:      "Total number of booking submissions",
		}, []string{"status"}),
		BookingStepFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_step_failures_total",
			Help:      "Total number of rejected wizard step inputs",
		}, []string{"step"}),
		CandidateLoads: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_loads_total",
			Help:      "Total number of doctor candidate list computations",
		}),
		CandidateLoadErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_load_errors_total",
			Help:      "Total number of failed candidate list computations",
		}),
		AssignmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_total",
			Help:      "Total number of doctor assignment attempts",
		}, []string{"status"}),
		AssignmentConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_conflicts_total",
			Help:      "Total number of assignments rejected by a guard",
		}),
		BusyCheckUnknown: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "busy_check_unknown_total",
			Help:      "Total number of per-doctor busy checks that could not be verified",
		}),
	}
}
