package repo

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
)

// itemRecord and addressRecord are the embedded shapes shared by the
// JSONB columns and the Mongo documents.
type itemRecord struct {
	ProductID string `json:"product_id" bson:"product_id"`
	Name      string `json:"name" bson:"name"`
	Price     int64  `json:"price" bson:"price"`
	Quantity  int    `json:"quantity" bson:"quantity"`
	Image     string `json:"image,omitempty" bson:"image,omitempty"`
}

type addressRecord struct {
	FullName string `json:"full_name" bson:"full_name"`
	Phone    string `json:"phone" bson:"phone"`
	Province string `json:"province" bson:"province"`
	District string `json:"district" bson:"district"`
	Ward     string `json:"ward" bson:"ward"`
	Street   string `json:"street" bson:"street"`
}

type jsonColumn[T any] struct {
	V T
}

func (j *jsonColumn[T]) Scan(src any) error {
	switch b := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(b, &j.V)
	case string:
		return json.Unmarshal([]byte(b), &j.V)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}

func (j jsonColumn[T]) Value() (driver.Value, error) {
	return json.Marshal(j.V)
}

type orderRow struct {
	ID     string `db:"id"`
	Code   string `db:"code"`
	UserID string `db:"user_id"`

	Items           jsonColumn[[]itemRecord]  `db:"items"`
	ShippingAddress jsonColumn[addressRecord] `db:"shipping_address"`

	PaymentMethod string `db:"payment_method"`
	PaymentStatus string `db:"payment_status"`
	Status        string `db:"status"`

	Total int64  `db:"total"`
	Note  string `db:"note"`

	PendingAt   time.Time    `db:"pending_at"`
	ConfirmedAt sql.NullTime `db:"confirmed_at"`
	ShippingAt  sql.NullTime `db:"shipping_at"`
	DeliveredAt sql.NullTime `db:"delivered_at"`
	CancelledAt sql.NullTime `db:"cancelled_at"`

	PaymentTransactionID string `db:"payment_transaction_id"`
	PaymentURL           string `db:"payment_url"`
	PaymentRequestID     string `db:"payment_request_id"`
	IdempotencyKey       string `db:"idempotency_key"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

var orderColumns = []string{
	"id", "code", "user_id", "items", "shipping_address",
	"payment_method", "payment_status", "status", "total", "note",
	"pending_at", "confirmed_at", "shipping_at", "delivered_at", "cancelled_at",
	"payment_transaction_id", "payment_url", "payment_request_id", "idempotency_key",
	"created_at", "updated_at",
}

// postPendingColumns are the status timestamps of which at most one is set,
// in the order they are written.
var postPendingColumns = []struct {
	status entities.OrderStatus
	column string
}{
	{entities.StatusConfirmed, entities.StatusTimestampColumn(entities.StatusConfirmed)},
	{entities.StatusShipping, entities.StatusTimestampColumn(entities.StatusShipping)},
	{entities.StatusDelivered, entities.StatusTimestampColumn(entities.StatusDelivered)},
	{entities.StatusCancelled, entities.StatusTimestampColumn(entities.StatusCancelled)},
}

func itemsToRecords(items []entities.Item) []itemRecord {
	out := make([]itemRecord, 0, len(items))
	for _, it := range items {
		out = append(out, itemRecord(it))
	}
	return out
}

func recordsToItems(records []itemRecord) []entities.Item {
	out := make([]entities.Item, 0, len(records))
	for _, r := range records {
		out = append(out, entities.Item(r))
	}
	return out
}

func orderValues(o entities.Order) []any {
	return []any{
		o.ID, o.Code, o.UserID,
		jsonColumn[[]itemRecord]{V: itemsToRecords(o.Items)},
		jsonColumn[addressRecord]{V: addressRecord(o.ShippingAddress)},
		string(o.PaymentMethod), string(o.PaymentStatus), string(o.Status), o.Total, o.Note,
		o.PendingAt, nullTime(o.ConfirmedAt), nullTime(o.ShippingAt), nullTime(o.DeliveredAt), nullTime(o.CancelledAt),
		o.PaymentTransactionID, o.PaymentURL, o.PaymentRequestID, o.IdempotencyKey,
		o.CreatedAt, o.UpdatedAt,
	}
}

func orderRowToEntity(r orderRow) entities.Order {
	return entities.Order{
		ID:                   r.ID,
		Code:                 r.Code,
		UserID:               r.UserID,
		Items:                recordsToItems(r.Items.V),
		ShippingAddress:      entities.Address(r.ShippingAddress.V),
		PaymentMethod:        entities.PaymentMethod(r.PaymentMethod),
		PaymentStatus:        entities.PaymentStatus(r.PaymentStatus),
		Status:               entities.OrderStatus(r.Status),
		Total:                r.Total,
		Note:                 r.Note,
		PendingAt:            r.PendingAt,
		ConfirmedAt:          nullTimeToPtr(r.ConfirmedAt),
		ShippingAt:           nullTimeToPtr(r.ShippingAt),
		DeliveredAt:          nullTimeToPtr(r.DeliveredAt),
		CancelledAt:          nullTimeToPtr(r.CancelledAt),
		PaymentTransactionID: r.PaymentTransactionID,
		PaymentURL:           r.PaymentURL,
		PaymentRequestID:     r.PaymentRequestID,
		IdempotencyKey:       r.IdempotencyKey,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

type productRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Price int64  `db:"price"`
	Image string `db:"image"`
	Stock int    `db:"stock"`
}

type cartItemRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	ProductID string `db:"product_id"`
	Quantity  int    `db:"quantity"`
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
