package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Reservations successfully created",
		},
	)

	reservationConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservation_conflicts_total",
			Help: "Reservation create attempts rejected for overlapping an existing booking",
		},
	)

	reservationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_transitions_total",
			Help: "Reservation status transitions by target status",
		},
		[]string{"status"},
	)

	viabilitySweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viability_sweeps_total",
			Help: "Group viability sweeps executed",
		},
	)

	groupsDisbanded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "groups_disbanded_total",
			Help: "Groups disbanded for missing their participant threshold",
		},
	)

	notificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Best-effort notification deliveries that failed",
		},
	)
)

func ReservationCreated() { reservationsCreated.Inc() }

func ReservationConflict() { reservationConflicts.Inc() }

func ReservationTransition(status string) {
	reservationTransitions.WithLabelValues(status).Inc()
}

func ViabilitySweep() { viabilitySweeps.Inc() }

func GroupDisbanded() { groupsDisbanded.Inc() }

func NotificationFailure() { notificationFailures.Inc() }
