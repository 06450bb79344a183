package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mkravtsov/checkout-service/internal/entities"
	"github.com/mkravtsov/checkout-service/internal/middleware"
	"github.com/mkravtsov/checkout-service/internal/service"
	"github.com/mkravtsov/checkout-service/pkg/utils"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, items []service.PlaceOrderItem) (entities.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]entities.Order, error)
	SetStatus(ctx context.Context, orderID string, target entities.OrderStatus) (entities.Order, error)
}

type ProductService interface {
	GetProductByID(ctx context.Context, productID string) (entities.Product, error)
	ListProducts(ctx context.Context) ([]entities.Product, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	orders   OrderService
	products ProductService
}

func NewHTTPHandler(logger *slog.Logger, orders OrderService, products ProductService) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		orders:   orders,
		products: products,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(middleware.Auth)
		r.Post("/", h.PlaceOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{order_id}", h.GetOrderByID)
		r.Patch("/{order_id}/status", h.SetStatus)
	})

	r.Get("/products", h.ListProducts)
	r.Get("/products/{product_id}", h.GetProductByID)
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		utils.WriteError(w, "UNAUTHENTICATED", "authentication required", http.StatusUnauthorized)
		return
	}

	var req PlaceOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "VALIDATION_ERROR", "malformed request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	items := make([]service.PlaceOrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.PlaceOrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.orders.PlaceOrder(ctx, principal.UserID, items)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

func (h *HTTPHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		utils.WriteError(w, "UNAUTHENTICATED", "authentication required", http.StatusUnauthorized)
		return
	}

	orderID := chi.URLParam(r, "order_id")
	if err := h.validate.Var(orderID, "required,uuid"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	// Foreign orders read as absent, ids must not leak.
	if order.UserID != principal.UserID && !principal.IsAdmin() {
		utils.WriteError(w, "NOT_FOUND", "order not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		utils.WriteError(w, "UNAUTHENTICATED", "authentication required", http.StatusUnauthorized)
		return
	}

	userID := principal.UserID
	if requested := r.URL.Query().Get("user_id"); requested != "" && requested != principal.UserID {
		if !principal.IsAdmin() {
			utils.WriteError(w, "FORBIDDEN", "cannot list orders of another user", http.StatusForbidden)
			return
		}
		userID = requested
	}

	orders, err := h.orders.ListUserOrders(ctx, userID)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

func (h *HTTPHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		utils.WriteError(w, "UNAUTHENTICATED", "authentication required", http.StatusUnauthorized)
		return
	}
	if !principal.IsAdmin() {
		utils.WriteError(w, "FORBIDDEN", "administrative capability required", http.StatusForbidden)
		return
	}

	orderID := chi.URLParam(r, "order_id")
	if err := h.validate.Var(orderID, "required,uuid"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	var req SetStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "VALIDATION_ERROR", "malformed request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	target, err := entities.ParseOrderStatus(req.Status)
	if err != nil {
		utils.WriteError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.orders.SetStatus(ctx, orderID, target)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

func (h *HTTPHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID := chi.URLParam(r, "product_id")
	if err := h.validate.Var(productID, "required,uuid"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	product, err := h.products.GetProductByID(ctx, productID)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusOK)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.products.ListProducts(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	result := make([]Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductEntityToJSON(p))
	}
	utils.WriteJSON(w, result, http.StatusOK)
}

// writeServiceError maps the error taxonomy onto status codes. Anything
// unrecognized is an infrastructure fault: it committed nothing and the
// caller may safely retry.
func (h *HTTPHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		validationErr *entities.ValidationError
		stockErr      *entities.InsufficientStockError
		transitionErr *entities.InvalidTransitionError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.WriteError(w, "VALIDATION_ERROR", validationErr.Message, http.StatusBadRequest)

	case errors.As(err, &stockErr):
		utils.WriteErrorDetails(w, "INSUFFICIENT_STOCK", stockErr.Error(), map[string]any{
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
			"requested":  stockErr.Requested,
		}, http.StatusConflict)

	case errors.As(err, &transitionErr):
		utils.WriteErrorDetails(w, "INVALID_TRANSITION", transitionErr.Error(), map[string]any{
			"from": string(transitionErr.From),
			"to":   string(transitionErr.To),
		}, http.StatusConflict)

	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "NOT_FOUND", "order not found", http.StatusNotFound)

	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "NOT_FOUND", "product not found", http.StatusNotFound)

	default:
		h.logger.ErrorContext(ctx, "storage failure", slog.Any("error", err))
		utils.WriteError(w, "STORAGE_FAILURE", "temporary storage failure, retry the request", http.StatusServiceUnavailable)
	}
}
