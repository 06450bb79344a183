package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mkravtsov/checkout-service/internal/entities"
)

var (
	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Total number of successfully placed orders.",
	})

	ordersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "orders",
		Name:      "rejected_total",
		Help:      "Total number of rejected order placements.",
	}, []string{"reason"})

	orderPlacementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "checkout_service",
		Subsystem: "orders",
		Name:      "placement_duration_seconds",
		Help:      "Histogram of order placement durations in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	statusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout_service",
		Subsystem: "orders",
		Name:      "status_changes_total",
		Help:      "Total number of order status changes.",
	}, []string{"to"})
)

func rejectionReason(err error) string {
	var (
		validationErr *entities.ValidationError
		stockErr      *entities.InsufficientStockError
	)
	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &stockErr):
		return "insufficient_stock"
	case errors.Is(err, entities.ErrProductNotFound):
		return "not_found"
	default:
		return "storage"
	}
}
