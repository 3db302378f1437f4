package handler

import (
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
)

// Address shipping destination
type Address struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Province string `json:"province" validate:"required"`
	District string `json:"district" validate:"required"`
	Ward     string `json:"ward" validate:"required"`
	Street   string `json:"street" validate:"required,max=255"`
}

// LineItem product and quantity to buy
type LineItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest body of POST /orders
type CreateOrderRequest struct {
	Source          string     `json:"source" validate:"required,oneof=cart buy_now"`
	Items           []LineItem `json:"items,omitempty" validate:"required_if=Source buy_now,dive"`
	CartItemIDs     []string   `json:"cartItemIds,omitempty" validate:"omitempty,dive,required"`
	ShippingAddress Address    `json:"shippingAddress"`
	PaymentMethod   string     `json:"paymentMethod" validate:"required,oneof=cod momo"`
	Note            string     `json:"note,omitempty" validate:"max=500"`
}

// AdminUpdateRequest body of PATCH /admin/orders/{order_id}
type AdminUpdateRequest struct {
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed shipping delivered cancelled"`
	PaymentStatus *string `json:"paymentStatus,omitempty" validate:"omitempty,oneof=unpaid paid refunded"`
}

// MomoIPN instant payment notification sent by the wallet gateway
type MomoIPN struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   *int   `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// Item order line snapshot
type Item struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
}

// Order as returned by the API
type Order struct {
	ID                   string     `json:"id"`
	Code                 string     `json:"code"`
	UserID               string     `json:"userId"`
	Items                []Item     `json:"items"`
	ShippingAddress      Address    `json:"shippingAddress"`
	PaymentMethod        string     `json:"paymentMethod"`
	PaymentStatus        string     `json:"paymentStatus"`
	Status               string     `json:"status"`
	Total                int64      `json:"total"`
	Note                 string     `json:"note,omitempty"`
	PaymentURL           string     `json:"paymentUrl,omitempty"`
	PaymentTransactionID string     `json:"paymentTransactionId,omitempty"`
	PendingAt            time.Time  `json:"pendingAt"`
	ConfirmedAt          *time.Time `json:"confirmedAt,omitempty"`
	ShippingAt           *time.Time `json:"shippingAt,omitempty"`
	DeliveredAt          *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt          *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// OrderList page of orders
type OrderList struct {
	Orders []Order `json:"orders"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
	Total  int     `json:"total"`
}

// IPNResponse acknowledgement returned to the gateway
type IPNResponse struct {
	Message string `json:"message"`
}

func (r CreateOrderRequest) ToCommand(userID, idempotencyKey string) entities.CreateOrderCommand {
	lines := make([]entities.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, entities.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return entities.CreateOrderCommand{
		UserID:         userID,
		Source:         entities.OrderSource(r.Source),
		Items:          lines,
		CartItemIDs:    r.CartItemIDs,
		Address:        entities.Address(r.ShippingAddress),
		PaymentMethod:  entities.PaymentMethod(r.PaymentMethod),
		Note:           r.Note,
		IdempotencyKey: idempotencyKey,
	}
}

func (r AdminUpdateRequest) ToCommand() entities.AdminUpdateCommand {
	var cmd entities.AdminUpdateCommand
	if r.Status != nil {
		s := entities.OrderStatus(*r.Status)
		cmd.Status = &s
	}
	if r.PaymentStatus != nil {
		p := entities.PaymentStatus(*r.PaymentStatus)
		cmd.PaymentStatus = &p
	}
	return cmd
}

func (m MomoIPN) ToEntity() entities.GatewayCallback {
	return entities.GatewayCallback(m)
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, Item(it))
	}
	return Order{
		ID:                   o.ID,
		Code:                 o.Code,
		UserID:               o.UserID,
		Items:                items,
		ShippingAddress:      addressToJSON(o.ShippingAddress),
		PaymentMethod:        string(o.PaymentMethod),
		PaymentStatus:        string(o.PaymentStatus),
		Status:               string(o.Status),
		Total:                o.Total,
		Note:                 o.Note,
		PaymentURL:           o.PaymentURL,
		PaymentTransactionID: o.PaymentTransactionID,
		PendingAt:            o.PendingAt,
		ConfirmedAt:          o.ConfirmedAt,
		ShippingAt:           o.ShippingAt,
		DeliveredAt:          o.DeliveredAt,
		CancelledAt:          o.CancelledAt,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

func addressToJSON(a entities.Address) Address {
	return Address(a)
}

func OrdersToJSON(orders []entities.Order, q entities.ListQuery, total int) OrderList {
	out := OrderList{Orders: make([]Order, 0, len(orders)), Page: q.Page, Limit: q.Limit, Total: total}
	for _, o := range orders {
		out.Orders = append(out.Orders, OrderEntityToJSON(o))
	}
	return out
}
