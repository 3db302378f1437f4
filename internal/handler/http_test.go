package handler_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/handler"
	mocks "github.com/trander-25/pttkht-lapzone-backend-sub001/internal/handler/mocks"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "test-secret-0123456789"

var (
	customer = entities.Actor{ID: "user-1", Role: entities.RoleCustomer}
	admin    = entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}
)

func newRouter(t *testing.T, svc handler.OrderService, callbacks handler.CallbackHandler) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewHTTPHandler(logger, svc, callbacks, middleware.Auth(jwtSecret))

	r := chi.NewRouter()
	h.Init(r)
	return r
}

func do(t *testing.T, router http.Handler, method, path, body string, actor *entities.Actor, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if actor != nil {
		token, err := middleware.IssueToken(jwtSecret, actor.ID, actor.Role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func sampleOrder() entities.Order {
	return entities.Order{
		ID:            "order-1",
		Code:          "2510161200001234",
		UserID:        customer.ID,
		Items:         []entities.Item{{ProductID: "p1", Name: "Laptop", Price: 100, Quantity: 2}},
		PaymentMethod: entities.MethodCOD,
		PaymentStatus: entities.PaymentUnpaid,
		Status:        entities.StatusPending,
		Total:         200,
	}
}

const createBody = `{
	"source": "buy_now",
	"items": [{"productId": "p1", "quantity": 2}],
	"shippingAddress": {"fullName": "A", "phone": "0901", "province": "HCM", "district": "Q1", "ward": "BN", "street": "1 Le Loi"},
	"paymentMethod": "cod"
}`

func TestHTTPHandler_CreateOrder(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		actor        *entities.Actor
		headers      []string
		mockBehavior func(svc *mocks.MockOrderService)
		wantStatus   int
		wantBody     string
	}{
		{
			name:    "success",
			body:    createBody,
			actor:   &customer,
			headers: []string{"Idempotency-Key", "key-1"},
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().
					CreateOrder(mock.Anything, mock.MatchedBy(func(cmd entities.CreateOrderCommand) bool {
						return cmd.UserID == customer.ID && cmd.IdempotencyKey == "key-1" &&
							cmd.Source == entities.SourceBuyNow && len(cmd.Items) == 1 && cmd.Items[0].Quantity == 2
					})).
					Return(sampleOrder(), nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"code":"2510161200001234"`,
		},
		{
			name:       "unauthenticated",
			body:       createBody,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed body",
			body:       `{"source":`,
			actor:      &customer,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "buy now without items",
			body:       strings.Replace(createBody, `"items": [{"productId": "p1", "quantity": 2}],`, "", 1),
			actor:      &customer,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"Items":"required_if"`,
		},
		{
			name:       "unknown payment method",
			body:       strings.Replace(createBody, `"cod"`, `"card"`, 1),
			actor:      &customer,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "insufficient stock",
			body:  createBody,
			actor: &customer,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, mock.Anything).
					Return(entities.Order{}, &entities.StockError{ProductID: "p1", Name: "Laptop", Requested: 2}).Once()
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `Laptop`,
		},
		{
			name:  "duplicate request",
			body:  createBody,
			actor: &customer,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, mock.Anything).
					Return(entities.Order{}, entities.ErrDuplicateRequest).Once()
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:  "gateway unavailable",
			body:  createBody,
			actor: &customer,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, mock.Anything).
					Return(entities.Order{}, fmt.Errorf("%w: timeout", entities.ErrGatewayUnavailable)).Once()
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:  "gateway rejected",
			body:  createBody,
			actor: &customer,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, mock.Anything).
					Return(entities.Order{}, entities.ErrGatewayRejected).Once()
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:  "internal error",
			body:  createBody,
			actor: &customer,
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().CreateOrder(mock.Anything, mock.Anything).
					Return(entities.Order{}, errors.New("db error")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"internal server error"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockOrderService(t)
			if tc.mockBehavior != nil {
				tc.mockBehavior(svc)
			}
			router := newRouter(t, svc, mocks.NewMockCallbackHandler(t))

			rr := do(t, router, http.MethodPost, "/orders", tc.body, tc.actor, tc.headers...)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
		})
	}
}

func TestHTTPHandler_GetOrder(t *testing.T) {
	testCases := []struct {
		name         string
		mockBehavior func(svc *mocks.MockOrderService)
		wantStatus   int
		wantBody     string
	}{
		{
			name: "success",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().GetOrder(mock.Anything, customer, "order-1").Return(sampleOrder(), nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"id":"order-1"`,
		},
		{
			name: "not found",
			mockBehavior: func(svc *mocks.MockOrderService) {
				svc.EXPECT().GetOrder(mock.Anything, customer, "order-1").Return(entities.Order{}, entities.ErrOrderNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `"order not found"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockOrderService(t)
			tc.mockBehavior(svc)
			router := newRouter(t, svc, mocks.NewMockCallbackHandler(t))

			rr := do(t, router, http.MethodGet, "/orders/order-1", "", &customer)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
		})
	}
}

func TestHTTPHandler_ListMyOrders(t *testing.T) {
	svc := mocks.NewMockOrderService(t)
	status := entities.StatusPending
	svc.EXPECT().
		ListUserOrders(mock.Anything, customer.ID, entities.ListQuery{Page: 2, Limit: 100, Status: &status}).
		Return([]entities.Order{sampleOrder()}, 11, nil).Once()
	router := newRouter(t, svc, mocks.NewMockCallbackHandler(t))

	rr := do(t, router, http.MethodGet, "/orders?page=2&limit=500&status=pending", "", &customer)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":11`)
	assert.Contains(t, rr.Body.String(), `"limit":100`)

	rr = do(t, router, http.MethodGet, "/orders?status=lost", "", &customer)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, router, http.MethodGet, "/orders?page=x", "", &customer)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHTTPHandler_CancelOrder(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "success", wantStatus: http.StatusOK, wantBody: `"status":"cancelled"`},
		{
			name:       "already shipping",
			err:        &entities.TransitionError{From: entities.StatusShipping, To: entities.StatusCancelled},
			wantStatus: http.StatusConflict,
			wantBody:   `shipping`,
		},
		{
			name:       "concurrent change",
			err:        entities.ErrConflict,
			wantStatus: http.StatusConflict,
			wantBody:   `please refresh and retry`,
		},
		{name: "partial failure", err: entities.ErrPartialFailure, wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockOrderService(t)
			cancelled := sampleOrder()
			cancelled.Status = entities.StatusCancelled
			if tc.err != nil {
				cancelled = entities.Order{}
			}
			svc.EXPECT().
				Transition(mock.Anything, "order-1", customer, entities.StatusCancelled).
				Return(cancelled, tc.err).Once()
			router := newRouter(t, svc, mocks.NewMockCallbackHandler(t))

			rr := do(t, router, http.MethodPost, "/orders/order-1/cancel", "", &customer)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
		})
	}
}

func TestHTTPHandler_Admin(t *testing.T) {
	t.Run("customer is forbidden", func(t *testing.T) {
		router := newRouter(t, mocks.NewMockOrderService(t), mocks.NewMockCallbackHandler(t))
		rr := do(t, router, http.MethodGet, "/admin/orders", "", &customer)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("list", func(t *testing.T) {
		svc := mocks.NewMockOrderService(t)
		svc.EXPECT().ListOrders(mock.Anything, admin, entities.ListQuery{Page: 1, Limit: 10}).
			Return(nil, 0, nil).Once()
		router := newRouter(t, svc, mocks.NewMockCallbackHandler(t))

		rr := do(t, router, http.MethodGet, "/admin/orders", "", &admin)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"orders":[]`)
	})

	t.Run("update", func(t *testing.T) {
		svc := mocks.NewMockOrderService(t)
		updated := sampleOrder()
		updated.Status = entities.StatusConfirmed
		updated.PaymentStatus = entities.PaymentPaid
		svc.EXPECT().
			AdminUpdate(mock.Anything, admin, "order-1", mock.MatchedBy(func(cmd entities.AdminUpdateCommand) bool {
				return cmd.Status != nil && *cmd.Status == entities.StatusConfirmed &&
					cmd.PaymentStatus != nil && *cmd.PaymentStatus == entities.PaymentPaid
			})).
			Return(updated, nil).Once()
		router := newRouter(t, svc, mocks.NewMockCallbackHandler(t))

		rr := do(t, router, http.MethodPatch, "/admin/orders/order-1", `{"status":"confirmed","paymentStatus":"paid"}`, &admin)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"paymentStatus":"paid"`)
	})

	t.Run("update with unknown status", func(t *testing.T) {
		router := newRouter(t, mocks.NewMockOrderService(t), mocks.NewMockCallbackHandler(t))
		rr := do(t, router, http.MethodPatch, "/admin/orders/order-1", `{"status":"lost"}`, &admin)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHTTPHandler_MomoIPN(t *testing.T) {
	body := `{"partnerCode":"MOMO","orderId":"order-1","requestId":"r1","amount":200,"transId":4088878653,"resultCode":0,"signature":"abc"}`

	testCases := []struct {
		name         string
		body         string
		mockBehavior func(cb *mocks.MockCallbackHandler)
		wantBody     string
	}{
		{
			name: "applied",
			body: body,
			mockBehavior: func(cb *mocks.MockCallbackHandler) {
				cb.EXPECT().
					HandleCallback(mock.Anything, mock.MatchedBy(func(c entities.GatewayCallback) bool {
						return c.OrderID == "order-1" && c.Amount == 200 && c.TransID == 4088878653 &&
							c.ResultCode != nil && *c.ResultCode == 0 && c.Signature == "abc"
					})).
					Return(nil).Once()
			},
			wantBody: `"ok"`,
		},
		{
			name: "rejected signature",
			body: body,
			mockBehavior: func(cb *mocks.MockCallbackHandler) {
				cb.EXPECT().HandleCallback(mock.Anything, mock.Anything).Return(entities.ErrSignatureInvalid).Once()
			},
			wantBody: `"ignored"`,
		},
		{
			name:     "malformed",
			body:     `not json`,
			wantBody: `"ignored"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			callbacks := mocks.NewMockCallbackHandler(t)
			if tc.mockBehavior != nil {
				tc.mockBehavior(callbacks)
			}
			router := newRouter(t, mocks.NewMockOrderService(t), callbacks)

			rr := do(t, router, http.MethodPost, "/payments/momo/ipn", tc.body, nil)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
		})
	}
}
