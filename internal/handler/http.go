package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/middleware"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	CreateOrder(ctx context.Context, cmd entities.CreateOrderCommand) (entities.Order, error)
	GetOrder(ctx context.Context, actor entities.Actor, orderID string) (entities.Order, error)
	ListUserOrders(ctx context.Context, userID string, q entities.ListQuery) ([]entities.Order, int, error)
	ListOrders(ctx context.Context, actor entities.Actor, q entities.ListQuery) ([]entities.Order, int, error)
	Transition(ctx context.Context, orderID string, actor entities.Actor, next entities.OrderStatus) (entities.Order, error)
	AdminUpdate(ctx context.Context, actor entities.Actor, orderID string, cmd entities.AdminUpdateCommand) (entities.Order, error)
}

type CallbackHandler interface {
	HandleCallback(ctx context.Context, cb entities.GatewayCallback) error
}

type HTTPHandler struct {
	logger    *slog.Logger
	validate  *validator.Validate
	svc       OrderService
	callbacks CallbackHandler
	auth      func(http.Handler) http.Handler
}

func NewHTTPHandler(logger *slog.Logger, svc OrderService, callbacks CallbackHandler, auth func(http.Handler) http.Handler) *HTTPHandler {
	return &HTTPHandler{
		logger:    logger.With(slog.String("handler", "http")),
		validate:  validator.New(),
		svc:       svc,
		callbacks: callbacks,
		auth:      auth,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Post("/payments/momo/ipn", h.MomoIPN)

	r.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/orders", h.CreateOrder)
		r.Get("/orders", h.ListMyOrders)
		r.Get("/orders/{order_id}", h.GetOrder)
		r.Post("/orders/{order_id}/cancel", h.CancelOrder)

		r.Route("/admin/orders", func(r chi.Router) {
			r.Use(middleware.RequireRole(entities.RoleAdmin))
			r.Get("/", h.ListOrders)
			r.Patch("/{order_id}", h.UpdateOrder)
		})
	})
}

// CreateOrder places an order.
// @Summary      Create order
// @Description  Reserves stock for every line and creates a pending order. Online payments return a payment URL.
// @Tags         orders
// @Param        Idempotency-Key  header  string              false  "Replays the first result for the same key"
// @Param        request          body    CreateOrderRequest  true   "Order"
// @Success      201  {object}  Order
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      409  {object}  utils.ErrorResponse
// @Failure      422  {object}  utils.ErrorResponse "Insufficient stock"
// @Failure      502  {object}  utils.ErrorResponse
// @Failure      503  {object}  utils.ErrorResponse
// @Router       /orders [post]
func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	var req CreateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.CreateOrder(ctx, req.ToCommand(actor.ID, r.Header.Get("Idempotency-Key")))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to create order")
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

// ListMyOrders lists the caller's orders, newest first.
// @Summary      List my orders
// @Tags         orders
// @Param        page    query  int     false  "Page, from 1"
// @Param        limit   query  int     false  "Page size, at most 100"
// @Param        status  query  string  false  "Status filter"
// @Success      200  {object}  OrderList
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Router       /orders [get]
func (h *HTTPHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	q, err := listQuery(r)
	if err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	orders, total, err := h.svc.ListUserOrders(ctx, actor.ID, q)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list orders")
		return
	}

	utils.WriteJSON(w, OrdersToJSON(orders, q, total), http.StatusOK)
}

// GetOrder returns one order.
// @Summary      Get order
// @Tags         orders
// @Param        order_id  path  string  true  "Order ID"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /orders/{order_id} [get]
func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)
	orderID := chi.URLParam(r, "order_id")

	if err := h.validate.Var(orderID, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.GetOrder(ctx, actor, orderID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to get order")
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// CancelOrder cancels the caller's order and returns its items to stock.
// @Summary      Cancel order
// @Tags         orders
// @Param        order_id  path  string  true  "Order ID"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse
// @Failure      409  {object}  utils.ErrorResponse
// @Router       /orders/{order_id}/cancel [post]
func (h *HTTPHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)
	orderID := chi.URLParam(r, "order_id")

	order, err := h.svc.Transition(ctx, orderID, actor, entities.StatusCancelled)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to cancel order")
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// ListOrders lists all orders for staff.
// @Summary      List orders
// @Tags         admin
// @Param        page    query  int     false  "Page, from 1"
// @Param        limit   query  int     false  "Page size, at most 100"
// @Param        status  query  string  false  "Status filter"
// @Success      200  {object}  OrderList
// @Failure      403  {object}  utils.ErrorResponse
// @Router       /admin/orders [get]
func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	q, err := listQuery(r)
	if err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	orders, total, err := h.svc.ListOrders(ctx, actor, q)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list orders")
		return
	}

	utils.WriteJSON(w, OrdersToJSON(orders, q, total), http.StatusOK)
}

// UpdateOrder changes status and/or payment status.
// @Summary      Update order
// @Tags         admin
// @Param        order_id  path  string              true  "Order ID"
// @Param        request   body  AdminUpdateRequest  true  "Changes"
// @Success      200  {object}  Order
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      409  {object}  utils.ErrorResponse
// @Router       /admin/orders/{order_id} [patch]
func (h *HTTPHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)
	orderID := chi.URLParam(r, "order_id")

	var req AdminUpdateRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.AdminUpdate(ctx, actor, orderID, req.ToCommand())
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to update order")
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// MomoIPN receives payment notifications. The gateway retries on anything
// but 200, so the outcome is only logged.
// @Summary      MoMo IPN
// @Tags         payments
// @Param        request  body  MomoIPN  true  "Notification"
// @Success      200  {object}  IPNResponse
// @Router       /payments/momo/ipn [post]
func (h *HTTPHandler) MomoIPN(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req MomoIPN
	if err := utils.DecodeBody(r, &req); err != nil {
		h.logger.WarnContext(ctx, "malformed payment notification", slog.Any("error", err))
		utils.WriteJSON(w, IPNResponse{Message: "ignored"}, http.StatusOK)
		return
	}

	if err := h.callbacks.HandleCallback(ctx, req.ToEntity()); err != nil {
		h.logger.WarnContext(ctx, "payment notification not applied",
			slog.String("order_id", req.OrderID), slog.Any("error", err))
		utils.WriteJSON(w, IPNResponse{Message: "ignored"}, http.StatusOK)
		return
	}

	utils.WriteJSON(w, IPNResponse{Message: "ok"}, http.StatusOK)
}

func listQuery(r *http.Request) (entities.ListQuery, error) {
	page, err := utils.QueryInt(r, "page", 1)
	if err != nil {
		return entities.ListQuery{}, err
	}
	limit, err := utils.QueryInt(r, "limit", entities.DefaultPageLimit)
	if err != nil {
		return entities.ListQuery{}, err
	}

	q := entities.ListQuery{Page: page, Limit: limit}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := entities.OrderStatus(raw)
		if !status.Valid() {
			return entities.ListQuery{}, errors.New("unknown status")
		}
		q.Status = &status
	}
	return q.Normalize(), nil
}

func (h *HTTPHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	var (
		stockErr      *entities.StockError
		transitionErr *entities.TransitionError
	)

	switch {
	case errors.Is(err, entities.ErrValidation):
		utils.WriteValidationError(w, err)
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "product not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrCartItemNotFound):
		utils.WriteError(w, "cart item not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrForbidden):
		utils.WriteError(w, "forbidden", http.StatusForbidden)
	case errors.As(err, &stockErr):
		utils.WriteError(w, stockErr.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &transitionErr):
		utils.WriteError(w, transitionErr.Error(), http.StatusConflict)
	case errors.Is(err, entities.ErrInvalidTransition):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, entities.ErrConflict):
		utils.WriteError(w, "order was changed, please refresh and retry", http.StatusConflict)
	case errors.Is(err, entities.ErrDuplicateRequest):
		utils.WriteError(w, "request with this idempotency key is in progress", http.StatusConflict)
	case errors.Is(err, entities.ErrInsufficientStock):
		utils.WriteError(w, "insufficient stock", http.StatusUnprocessableEntity)
	case errors.Is(err, entities.ErrGatewayRejected):
		utils.WriteError(w, "payment gateway rejected the request", http.StatusBadGateway)
	case errors.Is(err, entities.ErrGatewayUnavailable):
		utils.WriteError(w, "payment gateway unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.ErrorContext(ctx, msg, slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
