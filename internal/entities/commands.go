package entities

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

// Actor is the caller on whose behalf a lifecycle operation runs.
type Actor struct {
	ID   string
	Role Role
}

var SystemActor = Actor{ID: "system", Role: RoleSystem}

func (a Actor) Privileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleSystem
}

type Product struct {
	ID    string
	Name  string
	Price int64
	Image string
	Stock int
}

type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Quantity  int
}

type OrderSource string

const (
	SourceCart   OrderSource = "cart"
	SourceBuyNow OrderSource = "buy_now"
)

type LineItem struct {
	ProductID string
	Quantity  int
}

type CreateOrderCommand struct {
	UserID         string
	Source         OrderSource
	Items          []LineItem
	CartItemIDs    []string
	Address        Address
	PaymentMethod  PaymentMethod
	Note           string
	IdempotencyKey string
}

type ListQuery struct {
	Page   int
	Limit  int
	Status *OrderStatus
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Normalize clamps paging values into their allowed ranges.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// StatusUpdate is applied only when the stored status equals Expected and
// the stored payment status equals ExpectedPayment, for whichever are set.
type StatusUpdate struct {
	Expected        *OrderStatus
	ExpectedPayment *PaymentStatus
	Status          OrderStatus
	PaymentStatus   *PaymentStatus
	At              time.Time
}

// PaymentUpdate is applied only when the stored payment status equals
// Expected and, if set, the stored order status equals ExpectedOrder.
type PaymentUpdate struct {
	Expected      PaymentStatus
	ExpectedOrder *OrderStatus
	Status        PaymentStatus
	TransactionID string
	At            time.Time
}

type AdminUpdateCommand struct {
	Status        *OrderStatus
	PaymentStatus *PaymentStatus
}

type PaymentResult struct {
	Success       bool
	TransactionID string
	Amount        int64
	Message       string
}

type PaymentRequest struct {
	URL       string
	RequestID string
}

// GatewayCallback carries the wallet gateway's IPN fields verbatim.
type GatewayCallback struct {
	PartnerCode  string
	OrderID      string
	RequestID    string
	Amount       int64
	OrderInfo    string
	OrderType    string
	TransID      int64
	ResultCode   *int
	Message      string
	PayType      string
	ResponseTime int64
	ExtraData    string
	Signature    string
}

type EventType string

const (
	EventOrderCreated       EventType = "order.created"
	EventOrderStatusChanged EventType = "order.status_changed"
	EventOrderPaid          EventType = "order.paid"
)

type OrderEvent struct {
	Type          EventType
	OrderID       string
	Code          string
	UserID        string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	Total         int64
	OccurredAt    time.Time
}

func NewOrderEvent(t EventType, o Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:          t,
		OrderID:       o.ID,
		Code:          o.Code,
		UserID:        o.UserID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Total:         o.Total,
		OccurredAt:    at,
	}
}
