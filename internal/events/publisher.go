// Package events publishes order lifecycle events to Kafka for
// downstream consumers (notifications, analytics). Publishing is
// best-effort: the order is already committed by the time an event is
// written.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"

	"github.com/mkravtsov/checkout-service/internal/config"
	"github.com/mkravtsov/checkout-service/internal/entities"
)

const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

var eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "checkout_service",
	Subsystem: "events",
	Name:      "published_total",
	Help:      "Total number of order events written to Kafka.",
}, []string{"type"})

type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	PrevStatus  string    `json:"prev_status,omitempty"`
	TotalAmount string    `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Publisher struct {
	logger *slog.Logger
	writer *kafka.Writer
}

func NewPublisher(logger *slog.Logger, cfg config.Kafka) *Publisher {
	return &Publisher{
		logger: logger.With(slog.String("component", "events")),
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (p *Publisher) OrderPlaced(ctx context.Context, order entities.Order) error {
	return p.publish(ctx, OrderEvent{
		Type:        TypeOrderPlaced,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.String(),
		OccurredAt:  time.Now().UTC(),
	})
}

func (p *Publisher) OrderStatusChanged(ctx context.Context, order entities.Order, from entities.OrderStatus) error {
	return p.publish(ctx, OrderEvent{
		Type:        TypeOrderStatusChanged,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		PrevStatus:  string(from),
		TotalAmount: order.TotalAmount.String(),
		OccurredAt:  time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, event OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Keyed by order id so per-order events stay in one partition.
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	eventsPublished.WithLabelValues(event.Type).Inc()
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
