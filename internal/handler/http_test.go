package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkravtsov/checkout-service/internal/entities"
	"github.com/mkravtsov/checkout-service/internal/handler"
	"github.com/mkravtsov/checkout-service/internal/handler/mocks"
	"github.com/mkravtsov/checkout-service/internal/service"
	"github.com/mkravtsov/checkout-service/pkg/utils"
)

const (
	userID  = "7b9e6d7c-3f1a-4a9b-8f30-0f6c2a9d1e42"
	adminID = "0a8c4e1d-5b2f-4c6a-9d3e-7f1b2c3d4e5f"
	orderID = "99999999-9999-4999-8999-999999999999"

	productA = "11111111-1111-4111-8111-111111111111"
)

type handlerMocks struct {
	orders   *mocks.MockOrderService
	products *mocks.MockProductService
}

func newTestRouter(t *testing.T) (*handlerMocks, chi.Router) {
	t.Helper()

	m := &handlerMocks{
		orders:   mocks.NewMockOrderService(t),
		products: mocks.NewMockProductService(t),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewHTTPHandler(logger, m.orders, m.products)

	r := chi.NewRouter()
	h.Init(r)
	return m, r
}

func doRequest(r chi.Router, method, target, body, asUser, asRole string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if asUser != "" {
		req.Header.Set("X-User-Id", asUser)
	}
	if asRole != "" {
		req.Header.Set("X-User-Role", asRole)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorBody {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func sampleOrder() entities.Order {
	return entities.Order{
		ID:          orderID,
		UserID:      userID,
		Status:      entities.StatusPending,
		TotalAmount: decimal.RequireFromString("25.50"),
		Items: []entities.OrderItem{
			{
				ID:        "33333333-3333-4333-8333-333333333333",
				OrderID:   orderID,
				ProductID: productA,
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("10.00"),
			},
		},
	}
}

func TestHTTPHandler_PlaceOrder(t *testing.T) {
	validBody := `{"items":[{"product_id":"` + productA + `","quantity":2}]}`

	t.Run("created", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.orders.EXPECT().
			PlaceOrder(mock.Anything, userID, []service.PlaceOrderItem{{ProductID: productA, Quantity: 2}}).
			Return(sampleOrder(), nil).Once()

		rec := doRequest(r, http.MethodPost, "/orders", validBody, userID, "")
		require.Equal(t, http.StatusCreated, rec.Code)

		var got handler.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, orderID, got.ID)
		assert.Equal(t, "PENDING", got.Status)
		assert.Equal(t, "25.50", got.TotalAmount)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "10.00", got.Items[0].UnitPrice)
		assert.Equal(t, "20.00", got.Items[0].Subtotal)
	})

	t.Run("no principal", func(t *testing.T) {
		_, r := newTestRouter(t)

		rec := doRequest(r, http.MethodPost, "/orders", validBody, "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHENTICATED", decodeError(t, rec).Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, r := newTestRouter(t)

		rec := doRequest(r, http.MethodPost, "/orders", "{not json", userID, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	})

	t.Run("empty items rejected before the service", func(t *testing.T) {
		_, r := newTestRouter(t)

		rec := doRequest(r, http.MethodPost, "/orders", `{"items":[]}`, userID, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	})

	t.Run("zero quantity rejected before the service", func(t *testing.T) {
		_, r := newTestRouter(t)

		body := `{"items":[{"product_id":"` + productA + `","quantity":0}]}`
		rec := doRequest(r, http.MethodPost, "/orders", body, userID, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.orders.EXPECT().
			PlaceOrder(mock.Anything, userID, mock.Anything).
			Return(entities.Order{}, &entities.InsufficientStockError{
				ProductID: productA,
				Available: 1,
				Requested: 2,
			}).Once()

		rec := doRequest(r, http.MethodPost, "/orders", validBody, userID, "")
		require.Equal(t, http.StatusConflict, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
		assert.Equal(t, productA, body.Details["product_id"])
		assert.Equal(t, float64(1), body.Details["available"])
		assert.Equal(t, float64(2), body.Details["requested"])
	})

	t.Run("storage failure", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.orders.EXPECT().
			PlaceOrder(mock.Anything, userID, mock.Anything).
			Return(entities.Order{}, assert.AnError).Once()

		rec := doRequest(r, http.MethodPost, "/orders", validBody, userID, "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "STORAGE_FAILURE", decodeError(t, rec).Code)
	})
}

func TestHTTPHandler_GetOrderByID(t *testing.T) {
	t.Run("owner reads own order", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.orders.EXPECT().GetOrderByID(mock.Anything, orderID).Return(sampleOrder(), nil).Once()

		rec := doRequest(r, http.MethodGet, "/orders/"+orderID, "", userID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got handler.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, orderID, got.ID)
	})

	t.Run("foreign order reads as absent", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.orders.EXPECT().GetOrderByID(mock.Anything, orderID).Return(sampleOrder(), nil).Once()

		rec := doRequest(r, http.MethodGet, "/orders/"+orderID, "", adminID, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
	})

	t.Run("admin reads any order", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.orders.EXPECT().GetOrderByID(mock.Anything, orderID).Return(sampleOrder(), nil).Once()

		rec := doRequest(r, http.MethodGet, "/orders/"+orderID, "", adminID, "admin")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.orders.EXPECT().
			GetOrderByID(mock.Anything, orderID).
			Return(entities.Order{}, entities.ErrOrderNotFound).Once()

		rec := doRequest(r, http.MethodGet, "/orders/"+orderID, "", userID, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
	})

	t.Run("malformed order id", func(t *testing.T) {
		_, r := newTestRouter(t)

		rec := doRequest(r, http.MethodGet, "/orders/not-a-uuid", "", userID, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	})
}

func TestHTTPHandler_ListOrders(t *testing.T) {
	t.Run("own orders", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.orders.EXPECT().
			ListUserOrders(mock.Anything, userID).
			Return([]entities.Order{sampleOrder()}, nil).Once()

		rec := doRequest(r, http.MethodGet, "/orders", "", userID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got []handler.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
	})

	t.Run("another user's orders require admin", func(t *testing.T) {
		_, r := newTestRouter(t)

		rec := doRequest(r, http.MethodGet, "/orders?user_id="+userID, "", adminID, "")
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)
	})

	t.Run("admin lists another user's orders", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.orders.EXPECT().
			ListUserOrders(mock.Anything, userID).
			Return([]entities.Order{}, nil).Once()

		rec := doRequest(r, http.MethodGet, "/orders?user_id="+userID, "", adminID, "admin")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestHTTPHandler_SetStatus(t *testing.T) {
	t.Run("admin moves an order forward", func(t *testing.T) {
		m, r := newTestRouter(t)
		updated := sampleOrder()
		updated.Status = entities.StatusProcessing
		m.orders.EXPECT().
			SetStatus(mock.Anything, orderID, entities.StatusProcessing).
			Return(updated, nil).Once()

		rec := doRequest(r, http.MethodPatch, "/orders/"+orderID+"/status", `{"status":"PROCESSING"}`, adminID, "admin")
		require.Equal(t, http.StatusOK, rec.Code)

		var got handler.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "PROCESSING", got.Status)
	})

	t.Run("non admin forbidden", func(t *testing.T) {
		_, r := newTestRouter(t)

		rec := doRequest(r, http.MethodPatch, "/orders/"+orderID+"/status", `{"status":"PROCESSING"}`, userID, "")
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)
	})

	t.Run("unknown status value", func(t *testing.T) {
		_, r := newTestRouter(t)

		rec := doRequest(r, http.MethodPatch, "/orders/"+orderID+"/status", `{"status":"REFUNDED"}`, adminID, "admin")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	})

	t.Run("invalid transition", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.orders.EXPECT().
			SetStatus(mock.Anything, orderID, entities.StatusDelivered).
			Return(entities.Order{}, &entities.InvalidTransitionError{
				From: entities.StatusPending,
				To:   entities.StatusDelivered,
			}).Once()

		rec := doRequest(r, http.MethodPatch, "/orders/"+orderID+"/status", `{"status":"DELIVERED"}`, adminID, "admin")
		require.Equal(t, http.StatusConflict, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "INVALID_TRANSITION", body.Code)
		assert.Equal(t, "PENDING", body.Details["from"])
		assert.Equal(t, "DELIVERED", body.Details["to"])
	})
}

func TestHTTPHandler_Products(t *testing.T) {
	product := entities.Product{
		ID:        productA,
		Name:      "Mechanical keyboard",
		Price:     decimal.RequireFromString("59.90"),
		Available: 5,
	}

	t.Run("list is public", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.products.EXPECT().ListProducts(mock.Anything).Return([]entities.Product{product}, nil).Once()

		rec := doRequest(r, http.MethodGet, "/products", "", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got []handler.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "59.90", got[0].Price)
		assert.Equal(t, 5, got[0].Available)
	})

	t.Run("get by id", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.products.EXPECT().GetProductByID(mock.Anything, productA).Return(product, nil).Once()

		rec := doRequest(r, http.MethodGet, "/products/"+productA, "", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		m, r := newTestRouter(t)
		m.products.EXPECT().
			GetProductByID(mock.Anything, productA).
			Return(entities.Product{}, entities.ErrProductNotFound).Once()

		rec := doRequest(r, http.MethodGet, "/products/"+productA, "", "", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
	})
}
