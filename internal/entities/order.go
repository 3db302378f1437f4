package entities

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipping  OrderStatus = "shipping"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipping, StatusCancelled},
	StatusShipping:  {StatusDelivered},
	StatusDelivered: nil,
	StatusCancelled: nil,
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCOD  PaymentMethod = "cod"
	MethodMomo PaymentMethod = "momo"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodCOD || m == MethodMomo
}

// Online reports whether the method settles through the wallet gateway.
func (m PaymentMethod) Online() bool {
	return m == MethodMomo
}

// Item is a price snapshot taken when the order is placed.
type Item struct {
	ProductID string
	Name      string
	Price     int64
	Quantity  int
	Image     string
}

type Address struct {
	FullName string
	Phone    string
	Province string
	District string
	Ward     string
	Street   string
}

type Order struct {
	ID     string
	Code   string
	UserID string

	Items           []Item
	ShippingAddress Address

	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	Status        OrderStatus

	Total int64
	Note  string

	PendingAt   time.Time
	ConfirmedAt *time.Time
	ShippingAt  *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time

	PaymentTransactionID string
	PaymentURL           string
	PaymentRequestID     string

	IdempotencyKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func CalcTotal(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

// Validate checks the fields required before an order can be persisted.
func (o Order) Validate() error {
	if o.UserID == "" {
		return fmt.Errorf("%w: user is required", ErrValidation)
	}
	if o.Code == "" {
		return fmt.Errorf("%w: order code is required", ErrValidation)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	for _, it := range o.Items {
		if it.ProductID == "" {
			return fmt.Errorf("%w: item product is required", ErrValidation)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: quantity of %q must be at least 1", ErrValidation, it.ProductID)
		}
		if it.Price < 0 {
			return fmt.Errorf("%w: price of %q must not be negative", ErrValidation, it.ProductID)
		}
	}
	if err := o.ShippingAddress.Validate(); err != nil {
		return err
	}
	if !o.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, o.PaymentMethod)
	}
	if !o.Status.Valid() || !o.PaymentStatus.Valid() {
		return fmt.Errorf("%w: unknown status", ErrValidation)
	}
	if o.Total != CalcTotal(o.Items) {
		return fmt.Errorf("%w: total does not match items", ErrValidation)
	}
	return nil
}

func (a Address) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"phone", a.Phone},
		{"province", a.Province},
		{"district", a.District},
		{"ward", a.Ward},
		{"street", a.Street},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: shipping address %s is required", ErrValidation, f.name)
		}
	}
	return nil
}

// ApplyStatus moves the order to status, stamping its timestamp and
// clearing the timestamps of every other post-pending state.
func (o *Order) ApplyStatus(status OrderStatus, at time.Time) {
	o.Status = status
	o.ConfirmedAt, o.ShippingAt, o.DeliveredAt, o.CancelledAt = nil, nil, nil, nil
	t := at
	switch status {
	case StatusPending:
		o.PendingAt = at
	case StatusConfirmed:
		o.ConfirmedAt = &t
	case StatusShipping:
		o.ShippingAt = &t
	case StatusDelivered:
		o.DeliveredAt = &t
	case StatusCancelled:
		o.CancelledAt = &t
	}
	o.UpdatedAt = at
}

// StatusTime returns when the order entered its current status.
func (o Order) StatusTime() time.Time {
	var at *time.Time
	switch o.Status {
	case StatusConfirmed:
		at = o.ConfirmedAt
	case StatusShipping:
		at = o.ShippingAt
	case StatusDelivered:
		at = o.DeliveredAt
	case StatusCancelled:
		at = o.CancelledAt
	}
	if at == nil {
		return o.PendingAt
	}
	return *at
}

// StatusTimestampColumn names the storage field stamped on entering status.
func StatusTimestampColumn(status OrderStatus) string {
	return string(status) + "_at"
}

func (o *Order) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Order) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	return dec.Decode(o)
}

func init() {
	gob.Register(Order{})
	gob.Register(Item{})
	gob.Register(Address{})
}
