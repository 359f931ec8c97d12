package lib

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodievent_orders_placed_total",
			Help: "Orders placed per event category and ticket type",
		},
		[]string{"category", "ticket_type"},
	)

	ticketsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodievent_tickets_sold_total",
			Help: "Tickets sold per event category",
		},
		[]string{"category"},
	)

	purchaseRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodievent_purchase_rejections_total",
			Help: "Purchases rejected by business rules",
		},
		[]string{"reason"},
	)

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodievent_status_transitions_total",
			Help: "Event status transitions",
		},
		[]string{"from", "to"},
	)

	validationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodievent_validation_failures_total",
			Help: "Submissions rejected with field errors",
		},
		[]string{"form"},
	)

	recomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodievent_status_recompute_seconds",
			Help:    "Duration of a full status recompute pass",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)

func RecordOrder(category, ticketType string, qty int) {
	ordersPlaced.WithLabelValues(category, ticketType).Inc()
	ticketsSold.WithLabelValues(category).Add(float64(qty))
}

func RecordPurchaseRejected(reason string) {
	purchaseRejections.WithLabelValues(reason).Inc()
}

func RecordStatusChange(from, to string) {
	statusTransitions.WithLabelValues(from, to).Inc()
}

func RecordValidationFailure(form string) {
	validationFailures.WithLabelValues(form).Inc()
}

func ObserveRecompute(d time.Duration) {
	recomputeDuration.Observe(d.Seconds())
}
