package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkravtsov/checkout-service/internal/entities"
	"github.com/mkravtsov/checkout-service/internal/pricing"
	"github.com/mkravtsov/checkout-service/pkg/trm"
	"github.com/mkravtsov/checkout-service/pkg/utils"
)

type OrderRepo interface {
	CreateOrder(ctx context.Context, o entities.Order) error
	CreateOrderItems(ctx context.Context, items []entities.OrderItem) error
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	GetOrderForUpdate(ctx context.Context, orderID string) (entities.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]entities.Order, error)
	LatestOrders(ctx context.Context, count int) ([]entities.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status entities.OrderStatus) error
}

type InventoryRepo interface {
	Reserve(ctx context.Context, productID string, quantity int) (decimal.Decimal, error)
	Release(ctx context.Context, productID string, quantity int) error
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Remove(key string)
}

type EventPublisher interface {
	OrderPlaced(ctx context.Context, order entities.Order) error
	OrderStatusChanged(ctx context.Context, order entities.Order, from entities.OrderStatus) error
}

type PlaceOrderItem struct {
	ProductID string
	Quantity  int
}

type orderService struct {
	logger       *slog.Logger
	txManager    trm.Manager
	orders       OrderRepo
	inventory    InventoryRepo
	cache        Cache
	events       EventPublisher
	placeTimeout time.Duration
}

func NewOrderService(
	logger *slog.Logger,
	txManager trm.Manager,
	orders OrderRepo,
	inventory InventoryRepo,
	cache Cache,
	events EventPublisher,
	placeTimeout time.Duration,
) *orderService {
	return &orderService{
		logger:       logger.With(slog.String("service", "order")),
		txManager:    txManager,
		orders:       orders,
		inventory:    inventory,
		cache:        cache,
		events:       events,
		placeTimeout: placeTimeout,
	}
}

// PlaceOrder reserves stock for every requested item, prices the order
// from the reserved snapshots and persists the order with its items,
// all inside one transaction. Any failure rolls the whole scope back:
// no partially decremented inventory, no orphaned rows.
func (s *orderService) PlaceOrder(ctx context.Context, userID string, items []PlaceOrderItem) (entities.Order, error) {
	start := time.Now()

	if err := validatePlaceOrder(userID, items); err != nil {
		ordersRejected.WithLabelValues("validation").Inc()
		return entities.Order{}, err
	}

	// Reserving in ascending product id keeps the lock order stable
	// across competing requests, two orders sharing products cannot
	// deadlock each other.
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b PlaceOrderItem) int {
		return strings.Compare(a.ProductID, b.ProductID)
	})

	ctx, cancel := context.WithTimeout(ctx, s.placeTimeout)
	defer cancel()

	var order entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		orderID := uuid.NewString()

		orderItems := make([]entities.OrderItem, 0, len(sorted))
		lines := make([]pricing.Line, 0, len(sorted))

		for _, item := range sorted {
			price, err := s.inventory.Reserve(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			orderItems = append(orderItems, entities.OrderItem{
				ID:        uuid.NewString(),
				OrderID:   orderID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: price,
			})
			lines = append(lines, pricing.Line{Quantity: item.Quantity, UnitPrice: price})
		}

		total, err := pricing.Total(lines)
		if err != nil {
			return err
		}

		order = entities.Order{
			ID:          orderID,
			UserID:      userID,
			Status:      entities.StatusPending,
			TotalAmount: total,
			CreatedAt:   now,
			UpdatedAt:   now,
			Items:       orderItems,
		}

		if err := s.orders.CreateOrder(ctx, order); err != nil {
			return err
		}
		return s.orders.CreateOrderItems(ctx, order.Items)
	})
	if err != nil {
		ordersRejected.WithLabelValues(rejectionReason(err)).Inc()
		return entities.Order{}, fmt.Errorf("failed to place order: %w", err)
	}

	ordersPlaced.Inc()
	orderPlacementDuration.Observe(time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.String("total", order.TotalAmount.String()),
	)

	s.publishOrderPlaced(ctx, order)
	return order, nil
}

// SetStatus moves an order along its lifecycle. Transitions outside
// the table are rejected, terminal orders stay terminal. Moving to
// CANCELLED returns every item's reserved quantity to the ledger
// within the same transaction.
func (s *orderService) SetStatus(ctx context.Context, orderID string, target entities.OrderStatus) (entities.Order, error) {
	var order entities.Order
	var from entities.OrderStatus

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := s.orders.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		from = current.Status
		if !from.CanTransitionTo(target) {
			return &entities.InvalidTransitionError{From: from, To: target}
		}

		if err := s.orders.UpdateStatus(ctx, orderID, target); err != nil {
			return err
		}

		if target == entities.StatusCancelled {
			for _, item := range current.Items {
				if err := s.inventory.Release(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		order = current
		order.Status = target
		order.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to set order status: %w", err)
	}

	statusChanges.WithLabelValues(string(target)).Inc()
	s.cache.Remove(orderID)
	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", orderID),
		slog.String("from", string(from)),
		slog.String("to", string(target)),
	)

	s.publishStatusChanged(ctx, order, from)
	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	if data, ok := s.cache.Get(orderID); ok {
		var order entities.Order
		if err := order.Unmarshal(data); err != nil {
			s.logger.Error("failed to unmarshal cached order", slog.String("order_id", orderID), slog.Any("error", err))
			return entities.Order{}, err
		}
		return order, nil
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}

	data, err := order.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal order", slog.String("order_id", orderID), slog.Any("error", err))
		return entities.Order{}, err
	}
	s.cache.Set(orderID, data)
	return order, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, userID string) ([]entities.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

func (s *orderService) WarmUpCache(ctx context.Context, count int) error {
	orders, err := s.orders.LatestOrders(ctx, count)
	if err != nil {
		return fmt.Errorf("failed to warm up cache: %w", err)
	}

	for _, order := range orders {
		data, err := order.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal order: %w", err)
		}
		s.cache.Set(order.ID, data)
	}

	s.logger.Info("cache warmed up", slog.Int("orders", len(orders)))
	return nil
}

// Events are published after commit and never fail the operation, a
// broker outage must not turn a committed order into an error.
func (s *orderService) publishOrderPlaced(ctx context.Context, order entities.Order) {
	ctx = context.WithoutCancel(ctx)
	err := utils.Retry(publishRetryConfig, func() error {
		return s.events.OrderPlaced(ctx, order)
	})
	if err != nil {
		s.logger.Error("failed to publish order placed event",
			slog.String("order_id", order.ID), slog.Any("error", err))
	}
}

func (s *orderService) publishStatusChanged(ctx context.Context, order entities.Order, from entities.OrderStatus) {
	ctx = context.WithoutCancel(ctx)
	err := utils.Retry(publishRetryConfig, func() error {
		return s.events.OrderStatusChanged(ctx, order, from)
	})
	if err != nil {
		s.logger.Error("failed to publish status changed event",
			slog.String("order_id", order.ID), slog.Any("error", err))
	}
}

var publishRetryConfig = utils.RetryConfig{
	InitialDelay: 100 * time.Millisecond,
	MaxAttempts:  3,
	Multiplier:   2,
}

func validatePlaceOrder(userID string, items []PlaceOrderItem) error {
	if userID == "" {
		return entities.NewValidationError("user id is required")
	}
	if len(items) == 0 {
		return entities.NewValidationError("order must contain at least one item")
	}
	for i, item := range items {
		if _, err := uuid.Parse(item.ProductID); err != nil {
			return entities.NewValidationError("item %d: invalid product id %q", i+1, item.ProductID)
		}
		if item.Quantity <= 0 {
			return entities.NewValidationError("item %d: quantity must be positive, got %d", i+1, item.Quantity)
		}
	}
	return nil
}
