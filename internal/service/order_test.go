package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkravtsov/checkout-service/internal/entities"
	"github.com/mkravtsov/checkout-service/internal/service"
	mocks "github.com/mkravtsov/checkout-service/internal/service/mocks"
	txMocks "github.com/mkravtsov/checkout-service/pkg/trm/mocks"
)

const (
	testUserID = "7b9e6d7c-3f1a-4a9b-8f30-0f6c2a9d1e42"

	// productA < productB lexicographically, reservations must follow
	// that order.
	productA = "11111111-1111-4111-8111-111111111111"
	productB = "22222222-2222-4222-8222-222222222222"
)

type orderMocks struct {
	orders    *mocks.MockOrderRepo
	inventory *mocks.MockInventoryRepo
	cache     *mocks.MockCache
	events    *mocks.MockEventPublisher
	tx        *txMocks.MockManager
}

type orderAPI interface {
	PlaceOrder(ctx context.Context, userID string, items []service.PlaceOrderItem) (entities.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]entities.Order, error)
	SetStatus(ctx context.Context, orderID string, target entities.OrderStatus) (entities.Order, error)
	WarmUpCache(ctx context.Context, count int) error
}

func newOrderService(t *testing.T) (*orderMocks, orderAPI) {
	t.Helper()

	m := &orderMocks{
		orders:    mocks.NewMockOrderRepo(t),
		inventory: mocks.NewMockInventoryRepo(t),
		cache:     mocks.NewMockCache(t),
		events:    mocks.NewMockEventPublisher(t),
		tx:        txMocks.NewMockManager(t),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := service.NewOrderService(logger, m.tx, m.orders, m.inventory, m.cache, m.events, 5*time.Second)
	return m, svc
}

// passthroughTx makes the transaction manager run the callback
// directly, commit/rollback behavior is covered by the callback's
// error.
func passthroughTx(m *orderMocks) {
	m.tx.EXPECT().
		Do(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, cb func(ctx context.Context) error) error {
			return cb(ctx)
		})
}

func TestOrderService_PlaceOrder(t *testing.T) {
	dbError := errors.New("db error")

	t.Run("places order and reserves stock in product id order", func(t *testing.T) {
		m, svc := newOrderService(t)
		passthroughTx(m)

		var reserved []string
		m.inventory.EXPECT().
			Reserve(mock.Anything, productA, 2).
			RunAndReturn(func(ctx context.Context, id string, qty int) (decimal.Decimal, error) {
				reserved = append(reserved, id)
				return decimal.RequireFromString("10.00"), nil
			}).Once()
		m.inventory.EXPECT().
			Reserve(mock.Anything, productB, 1).
			RunAndReturn(func(ctx context.Context, id string, qty int) (decimal.Decimal, error) {
				reserved = append(reserved, id)
				return decimal.RequireFromString("5.50"), nil
			}).Once()

		m.orders.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(nil).Once()
		m.orders.EXPECT().CreateOrderItems(mock.Anything, mock.Anything).Return(nil).Once()
		m.events.EXPECT().OrderPlaced(mock.Anything, mock.Anything).Return(nil).Once()

		// items arrive in reverse product order on purpose
		order, err := svc.PlaceOrder(context.Background(), testUserID, []service.PlaceOrderItem{
			{ProductID: productB, Quantity: 1},
			{ProductID: productA, Quantity: 2},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{productA, productB}, reserved)
		assert.Equal(t, entities.StatusPending, order.Status)
		assert.Equal(t, testUserID, order.UserID)
		assert.Equal(t, "25.50", order.TotalAmount.StringFixed(2))

		require.Len(t, order.Items, 2)
		_, err = uuid.Parse(order.ID)
		assert.NoError(t, err)
		for _, item := range order.Items {
			assert.Equal(t, order.ID, item.OrderID)
			_, err := uuid.Parse(item.ID)
			assert.NoError(t, err)
		}
		assert.Equal(t, "10.00", order.Items[0].UnitPrice.StringFixed(2))
		assert.Equal(t, "20.00", order.Items[0].Subtotal().StringFixed(2))
	})

	t.Run("insufficient stock aborts the whole order", func(t *testing.T) {
		m, svc := newOrderService(t)
		passthroughTx(m)

		m.inventory.EXPECT().
			Reserve(mock.Anything, productA, 1).
			Return(decimal.RequireFromString("10.00"), nil).Once()
		m.inventory.EXPECT().
			Reserve(mock.Anything, productB, 3).
			Return(decimal.Zero, &entities.InsufficientStockError{
				ProductID: productB,
				Available: 2,
				Requested: 3,
			}).Once()
		// no CreateOrder, no CreateOrderItems, no event

		_, err := svc.PlaceOrder(context.Background(), testUserID, []service.PlaceOrderItem{
			{ProductID: productA, Quantity: 1},
			{ProductID: productB, Quantity: 3},
		})

		var stockErr *entities.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, productB, stockErr.ProductID)
		assert.Equal(t, 2, stockErr.Available)
		assert.Equal(t, 3, stockErr.Requested)
	})

	t.Run("unknown product aborts the whole order", func(t *testing.T) {
		m, svc := newOrderService(t)
		passthroughTx(m)

		m.inventory.EXPECT().
			Reserve(mock.Anything, productA, 1).
			Return(decimal.Zero, entities.ErrProductNotFound).Once()

		_, err := svc.PlaceOrder(context.Background(), testUserID, []service.PlaceOrderItem{
			{ProductID: productA, Quantity: 1},
		})
		assert.ErrorIs(t, err, entities.ErrProductNotFound)
	})

	t.Run("storage fault on persist surfaces and rolls back", func(t *testing.T) {
		m, svc := newOrderService(t)
		passthroughTx(m)

		m.inventory.EXPECT().
			Reserve(mock.Anything, productA, 1).
			Return(decimal.RequireFromString("10.00"), nil).Once()
		m.orders.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(dbError).Once()

		_, err := svc.PlaceOrder(context.Background(), testUserID, []service.PlaceOrderItem{
			{ProductID: productA, Quantity: 1},
		})
		assert.ErrorIs(t, err, dbError)
	})

	t.Run("event publish failure does not fail a committed order", func(t *testing.T) {
		m, svc := newOrderService(t)
		passthroughTx(m)

		m.inventory.EXPECT().
			Reserve(mock.Anything, productA, 1).
			Return(decimal.RequireFromString("10.00"), nil).Once()
		m.orders.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(nil).Once()
		m.orders.EXPECT().CreateOrderItems(mock.Anything, mock.Anything).Return(nil).Once()
		m.events.EXPECT().
			OrderPlaced(mock.Anything, mock.Anything).
			Return(errors.New("broker down")).Times(3)

		order, err := svc.PlaceOrder(context.Background(), testUserID, []service.PlaceOrderItem{
			{ProductID: productA, Quantity: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, entities.StatusPending, order.Status)
	})

	validationCases := []struct {
		name   string
		userID string
		items  []service.PlaceOrderItem
	}{
		{
			name:   "empty item list",
			userID: testUserID,
			items:  nil,
		},
		{
			name:   "zero quantity",
			userID: testUserID,
			items:  []service.PlaceOrderItem{{ProductID: productA, Quantity: 0}},
		},
		{
			name:   "negative quantity",
			userID: testUserID,
			items:  []service.PlaceOrderItem{{ProductID: productA, Quantity: -2}},
		},
		{
			name:   "malformed product id",
			userID: testUserID,
			items:  []service.PlaceOrderItem{{ProductID: "not-a-uuid", Quantity: 1}},
		},
		{
			name:   "missing user id",
			userID: "",
			items:  []service.PlaceOrderItem{{ProductID: productA, Quantity: 1}},
		},
	}

	for _, tc := range validationCases {
		t.Run("validation: "+tc.name, func(t *testing.T) {
			// no expectations at all: validation must fail before any
			// transaction or repo call
			_, svc := newOrderService(t)

			_, err := svc.PlaceOrder(context.Background(), tc.userID, tc.items)

			var validationErr *entities.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestOrderService_SetStatus(t *testing.T) {
	dbError := errors.New("db error")
	orderID := "99999999-9999-4999-8999-999999999999"

	pendingOrder := entities.Order{
		ID:          orderID,
		UserID:      testUserID,
		Status:      entities.StatusPending,
		TotalAmount: decimal.RequireFromString("25.50"),
		Items: []entities.OrderItem{
			{ID: uuid.NewString(), OrderID: orderID, ProductID: productA, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{ID: uuid.NewString(), OrderID: orderID, ProductID: productB, Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")},
		},
	}

	t.Run("pending to processing", func(t *testing.T) {
		m, svc := newOrderService(t)
		passthroughTx(m)

		m.orders.EXPECT().GetOrderForUpdate(mock.Anything, orderID).Return(pendingOrder, nil).Once()
		m.orders.EXPECT().UpdateStatus(mock.Anything, orderID, entities.StatusProcessing).Return(nil).Once()
		m.cache.EXPECT().Remove(orderID).Return().Once()
		m.events.EXPECT().
			OrderStatusChanged(mock.Anything, mock.Anything, entities.StatusPending).
			Return(nil).Once()

		order, err := svc.SetStatus(context.Background(), orderID, entities.StatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusProcessing, order.Status)
	})

	t.Run("cancellation releases reserved stock", func(t *testing.T) {
		m, svc := newOrderService(t)
		passthroughTx(m)

		m.orders.EXPECT().GetOrderForUpdate(mock.Anything, orderID).Return(pendingOrder, nil).Once()
		m.orders.EXPECT().UpdateStatus(mock.Anything, orderID, entities.StatusCancelled).Return(nil).Once()
		m.inventory.EXPECT().Release(mock.Anything, productA, 2).Return(nil).Once()
		m.inventory.EXPECT().Release(mock.Anything, productB, 1).Return(nil).Once()
		m.cache.EXPECT().Remove(orderID).Return().Once()
		m.events.EXPECT().
			OrderStatusChanged(mock.Anything, mock.Anything, entities.StatusPending).
			Return(nil).Once()

		order, err := svc.SetStatus(context.Background(), orderID, entities.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusCancelled, order.Status)
	})

	t.Run("skipping a stage is rejected", func(t *testing.T) {
		m, svc := newOrderService(t)
		passthroughTx(m)

		m.orders.EXPECT().GetOrderForUpdate(mock.Anything, orderID).Return(pendingOrder, nil).Once()
		// no UpdateStatus, no Release, no cache invalidation

		_, err := svc.SetStatus(context.Background(), orderID, entities.StatusDelivered)

		var transitionErr *entities.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, entities.StatusPending, transitionErr.From)
		assert.Equal(t, entities.StatusDelivered, transitionErr.To)
	})

	t.Run("terminal order stays terminal", func(t *testing.T) {
		m, svc := newOrderService(t)
		passthroughTx(m)

		delivered := pendingOrder
		delivered.Status = entities.StatusDelivered
		m.orders.EXPECT().GetOrderForUpdate(mock.Anything, orderID).Return(delivered, nil).Once()

		_, err := svc.SetStatus(context.Background(), orderID, entities.StatusCancelled)

		var transitionErr *entities.InvalidTransitionError
		assert.ErrorAs(t, err, &transitionErr)
	})

	t.Run("unknown order", func(t *testing.T) {
		m, svc := newOrderService(t)
		passthroughTx(m)

		m.orders.EXPECT().
			GetOrderForUpdate(mock.Anything, orderID).
			Return(entities.Order{}, entities.ErrOrderNotFound).Once()

		_, err := svc.SetStatus(context.Background(), orderID, entities.StatusProcessing)
		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
	})

	t.Run("release failure rolls the transition back", func(t *testing.T) {
		m, svc := newOrderService(t)
		passthroughTx(m)

		m.orders.EXPECT().GetOrderForUpdate(mock.Anything, orderID).Return(pendingOrder, nil).Once()
		m.orders.EXPECT().UpdateStatus(mock.Anything, orderID, entities.StatusCancelled).Return(nil).Once()
		m.inventory.EXPECT().Release(mock.Anything, productA, 2).Return(dbError).Once()
		// no cache invalidation, no event: the transaction failed

		_, err := svc.SetStatus(context.Background(), orderID, entities.StatusCancelled)
		assert.ErrorIs(t, err, dbError)
	})
}

func TestOrderService_GetOrderByID(t *testing.T) {
	orderID := "99999999-9999-4999-8999-999999999999"
	validOrder := entities.Order{ID: orderID, Status: entities.StatusPending}
	validData, err := (&validOrder).Marshal()
	require.NoError(t, err)

	t.Run("served from cache", func(t *testing.T) {
		m, svc := newOrderService(t)
		m.cache.EXPECT().Get(orderID).Return(validData, true).Once()

		got, err := svc.GetOrderByID(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, validOrder.ID, got.ID)
	})

	t.Run("cache miss falls back to repo and fills cache", func(t *testing.T) {
		m, svc := newOrderService(t)
		m.cache.EXPECT().Get(orderID).Return(nil, false).Once()
		m.orders.EXPECT().GetOrderByID(mock.Anything, orderID).Return(validOrder, nil).Once()
		m.cache.EXPECT().Set(orderID, validData).Return().Once()

		got, err := svc.GetOrderByID(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, validOrder.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		m, svc := newOrderService(t)
		m.cache.EXPECT().Get(orderID).Return(nil, false).Once()
		m.orders.EXPECT().
			GetOrderByID(mock.Anything, orderID).
			Return(entities.Order{}, entities.ErrOrderNotFound).Once()

		_, err := svc.GetOrderByID(context.Background(), orderID)
		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
	})

	t.Run("corrupted cache entry surfaces an error", func(t *testing.T) {
		m, svc := newOrderService(t)
		m.cache.EXPECT().Get(orderID).Return([]byte("broken"), true).Once()

		_, err := svc.GetOrderByID(context.Background(), orderID)
		assert.Error(t, err)
	})
}
