package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderDocument struct {
	ID     string `bson:"_id"`
	Code   string `bson:"code"`
	UserID string `bson:"user_id"`

	Items           []itemRecord  `bson:"items"`
	ShippingAddress addressRecord `bson:"shipping_address"`

	PaymentMethod string `bson:"payment_method"`
	PaymentStatus string `bson:"payment_status"`
	Status        string `bson:"status"`

	Total int64  `bson:"total"`
	Note  string `bson:"note"`

	PendingAt   time.Time  `bson:"pending_at"`
	ConfirmedAt *time.Time `bson:"confirmed_at"`
	ShippingAt  *time.Time `bson:"shipping_at"`
	DeliveredAt *time.Time `bson:"delivered_at"`
	CancelledAt *time.Time `bson:"cancelled_at"`

	PaymentTransactionID string `bson:"payment_transaction_id"`
	PaymentURL           string `bson:"payment_url"`
	PaymentRequestID     string `bson:"payment_request_id"`
	IdempotencyKey       string `bson:"idempotency_key"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type productDocument struct {
	ID    string `bson:"_id"`
	Name  string `bson:"name"`
	Price int64  `bson:"price"`
	Image string `bson:"image"`
	Stock int    `bson:"stock"`
}

type cartItemDocument struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

func orderToDocument(o entities.Order) orderDocument {
	return orderDocument{
		ID:                   o.ID,
		Code:                 o.Code,
		UserID:               o.UserID,
		Items:                itemsToRecords(o.Items),
		ShippingAddress:      addressRecord(o.ShippingAddress),
		PaymentMethod:        string(o.PaymentMethod),
		PaymentStatus:        string(o.PaymentStatus),
		Status:               string(o.Status),
		Total:                o.Total,
		Note:                 o.Note,
		PendingAt:            o.PendingAt,
		ConfirmedAt:          o.ConfirmedAt,
		ShippingAt:           o.ShippingAt,
		DeliveredAt:          o.DeliveredAt,
		CancelledAt:          o.CancelledAt,
		PaymentTransactionID: o.PaymentTransactionID,
		PaymentURL:           o.PaymentURL,
		PaymentRequestID:     o.PaymentRequestID,
		IdempotencyKey:       o.IdempotencyKey,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

func (d orderDocument) toEntity() entities.Order {
	return entities.Order{
		ID:                   d.ID,
		Code:                 d.Code,
		UserID:               d.UserID,
		Items:                recordsToItems(d.Items),
		ShippingAddress:      entities.Address(d.ShippingAddress),
		PaymentMethod:        entities.PaymentMethod(d.PaymentMethod),
		PaymentStatus:        entities.PaymentStatus(d.PaymentStatus),
		Status:               entities.OrderStatus(d.Status),
		Total:                d.Total,
		Note:                 d.Note,
		PendingAt:            d.PendingAt,
		ConfirmedAt:          d.ConfirmedAt,
		ShippingAt:           d.ShippingAt,
		DeliveredAt:          d.DeliveredAt,
		CancelledAt:          d.CancelledAt,
		PaymentTransactionID: d.PaymentTransactionID,
		PaymentURL:           d.PaymentURL,
		PaymentRequestID:     d.PaymentRequestID,
		IdempotencyKey:       d.IdempotencyKey,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

type mongoRepo struct {
	orders   *mongo.Collection
	products *mongo.Collection
	cart     *mongo.Collection
}

// NewMongoRepo is the document-store twin of NewPostgresRepo. Every stock
// and status change is a single-document conditional update.
func NewMongoRepo(db *mongo.Database) *mongoRepo {
	return &mongoRepo{
		orders:   db.Collection(mongodb.OrdersCollection),
		products: db.Collection(mongodb.ProductsCollection),
		cart:     db.Collection(mongodb.CartCollection),
	}
}

func (r *mongoRepo) Insert(ctx context.Context, o entities.Order) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	_, err := r.orders.InsertOne(ctx, orderToDocument(o))
	if mongo.IsDuplicateKeyError(err) {
		return "", entities.ErrDuplicateOrderCode
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert order: %w", err)
	}
	return o.ID, nil
}

func (r *mongoRepo) FindByID(ctx context.Context, id string) (entities.Order, error) {
	var doc orderDocument
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *mongoRepo) ListByUser(ctx context.Context, userID string, q entities.ListQuery) ([]entities.Order, int, error) {
	return r.list(ctx, bson.M{"user_id": userID}, q)
}

func (r *mongoRepo) ListAll(ctx context.Context, q entities.ListQuery) ([]entities.Order, int, error) {
	return r.list(ctx, bson.M{}, q)
}

func (r *mongoRepo) list(ctx context.Context, filter bson.M, q entities.ListQuery) ([]entities.Order, int, error) {
	q = q.Normalize()
	if q.Status != nil {
		filter["status"] = string(*q.Status)
	}

	total, err := r.orders.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))

	orders, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, int(total), nil
}

func (r *mongoRepo) ConditionalUpdateStatus(ctx context.Context, id string, u entities.StatusUpdate) (entities.Order, error) {
	set := bson.M{
		"status":     string(u.Status),
		"updated_at": u.At,
	}
	if u.Status == entities.StatusPending {
		set["pending_at"] = u.At
	}
	for _, c := range postPendingColumns {
		if c.status == u.Status {
			set[c.column] = u.At
		} else {
			set[c.column] = nil
		}
	}
	if u.PaymentStatus != nil {
		set["payment_status"] = string(*u.PaymentStatus)
	}

	filter := bson.M{"_id": id}
	if u.Expected != nil {
		filter["status"] = string(*u.Expected)
	}
	if u.ExpectedPayment != nil {
		filter["payment_status"] = string(*u.ExpectedPayment)
	}

	return r.updateReturning(ctx, id, filter, bson.M{"$set": set})
}

func (r *mongoRepo) UpdatePayment(ctx context.Context, id string, u entities.PaymentUpdate) (entities.Order, error) {
	set := bson.M{
		"payment_status": string(u.Status),
		"updated_at":     u.At,
	}
	if u.TransactionID != "" {
		set["payment_transaction_id"] = u.TransactionID
	}

	filter := bson.M{"_id": id, "payment_status": string(u.Expected)}
	if u.ExpectedOrder != nil {
		filter["status"] = string(*u.ExpectedOrder)
	}
	return r.updateReturning(ctx, id, filter, bson.M{"$set": set})
}

func (r *mongoRepo) SetPaymentRequest(ctx context.Context, id string, req entities.PaymentRequest) error {
	res, err := r.orders.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"payment_url":        req.URL,
		"payment_request_id": req.RequestID,
		"updated_at":         time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to set payment request: %w", err)
	}
	if res.MatchedCount == 0 {
		return entities.ErrOrderNotFound
	}
	return nil
}

func (r *mongoRepo) ListExpiredUnpaid(ctx context.Context, method entities.PaymentMethod, before time.Time, limit int) ([]entities.Order, error) {
	if limit <= 0 {
		limit = expiredScanDefaultCap
	}

	filter := bson.M{
		"status":         string(entities.StatusPending),
		"payment_method": string(method),
		"payment_status": string(entities.PaymentUnpaid),
		"pending_at":     bson.M{"$lt": before},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "pending_at", Value: 1}}).
		SetLimit(int64(limit))

	return r.find(ctx, filter, opts)
}

func (r *mongoRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]entities.Order, error) {
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]entities.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toEntity())
	}
	return orders, nil
}

func (r *mongoRepo) updateReturning(ctx context.Context, id string, filter, update bson.M) (entities.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDocument
	err := r.orders.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toEntity(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return entities.Order{}, fmt.Errorf("failed to update order: %w", err)
	}

	n, err := r.orders.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to check order existence: %w", err)
	}
	if n == 0 {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return entities.Order{}, entities.ErrConflict
}

func (r *mongoRepo) AdjustStock(ctx context.Context, productID string, delta int) (int, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: stock delta must not be zero", entities.ErrValidation)
	}

	filter := bson.M{"_id": productID}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"stock": 1})

	var doc productDocument
	err := r.products.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.Stock, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("failed to adjust stock: %w", err)
	}

	n, err := r.products.CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil {
		return 0, fmt.Errorf("failed to check product existence: %w", err)
	}
	if n == 0 {
		return 0, entities.ErrProductNotFound
	}
	return 0, entities.ErrInsufficientStock
}

func (r *mongoRepo) GetProducts(ctx context.Context, ids []string) ([]entities.Product, error) {
	if len(ids) == 0 {
		return []entities.Product{}, nil
	}

	cursor, err := r.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]entities.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, entities.Product(d))
	}
	return products, nil
}

func (r *mongoRepo) GetCartItems(ctx context.Context, userID string, ids []string) ([]entities.CartItem, error) {
	filter := bson.M{"user_id": userID}
	if len(ids) > 0 {
		filter["_id"] = bson.M{"$in": ids}
	}

	cursor, err := r.cart.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find cart items: %w", err)
	}

	var docs []cartItemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	items := make([]entities.CartItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, entities.CartItem(d))
	}
	return items, nil
}

func (r *mongoRepo) RemoveCartItems(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.cart.DeleteMany(ctx, bson.M{"user_id": userID, "_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("failed to remove cart items: %w", err)
	}
	return nil
}
