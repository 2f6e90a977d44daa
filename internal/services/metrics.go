package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// bookingsCreated counts successful booking inserts by initial status.
	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings created, by initial status.",
		},
		[]string{"status"},
	)

	// bookingConflicts counts requests rejected by the overlap check.
	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Booking requests rejected because of an overlapping active booking.",
		},
	)

	// bookingTransitions counts status updates by target status and whether
	// a row actually changed.
	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Booking status transitions, by target status and outcome.",
		},
		[]string{"to", "applied"},
	)

	// messagesPosted counts persisted thread messages.
	messagesPosted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "thread_messages_posted_total",
			Help: "Messages appended to threads.",
		},
	)

	// auditDropped counts audit entries discarded because the queue was full
	// or the sink was closed.
	auditDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_entries_dropped_total",
			Help: "Audit log entries dropped before reaching storage.",
		},
	)
)

func init() {
	prometheus.MustRegister(bookingsCreated, bookingConflicts, bookingTransitions, messagesPosted, auditDropped)
}

func appliedLabel(n int64) string {
	if n > 0 {
		return "true"
	}
	return "false"
}
