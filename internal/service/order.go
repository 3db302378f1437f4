package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/pkg/trm"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/pkg/utils"

	"github.com/google/uuid"
)

type OrderStore interface {
	Insert(ctx context.Context, o entities.Order) (string, error)
	FindByID(ctx context.Context, id string) (entities.Order, error)
	ListByUser(ctx context.Context, userID string, q entities.ListQuery) ([]entities.Order, int, error)
	ListAll(ctx context.Context, q entities.ListQuery) ([]entities.Order, int, error)
	ConditionalUpdateStatus(ctx context.Context, id string, u entities.StatusUpdate) (entities.Order, error)
	UpdatePayment(ctx context.Context, id string, u entities.PaymentUpdate) (entities.Order, error)
	SetPaymentRequest(ctx context.Context, id string, req entities.PaymentRequest) error
	ListExpiredUnpaid(ctx context.Context, method entities.PaymentMethod, before time.Time, limit int) ([]entities.Order, error)
}

// InventoryLedger is the only writer of product stock.
type InventoryLedger interface {
	AdjustStock(ctx context.Context, productID string, delta int) (int, error)
}

type ProductCatalog interface {
	GetProducts(ctx context.Context, ids []string) ([]entities.Product, error)
}

type CartStore interface {
	GetCartItems(ctx context.Context, userID string, ids []string) ([]entities.CartItem, error)
	RemoveCartItems(ctx context.Context, userID string, ids []string) error
}

type PaymentGateway interface {
	CreatePaymentRequest(ctx context.Context, order entities.Order) (entities.PaymentRequest, error)
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Unlock(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type Notifier interface {
	Publish(ctx context.Context, ev entities.OrderEvent) error
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

type Deps struct {
	Logger    *slog.Logger
	TxManager trm.Manager

	Orders    OrderStore
	Inventory InventoryLedger
	Products  ProductCatalog
	Carts     CartStore
	Gateway   PaymentGateway
	Cache     Cache

	// Optional.
	Idempotency IdempotencyStore
	Notifier    Notifier
	Clock       func() time.Time
	NewCode     func(now time.Time) string
}

const (
	maxCodeAttempts    = 5
	maxPaymentAttempts = 3
)

type OrderService struct {
	logger    *slog.Logger
	txManager trm.Manager

	orders    OrderStore
	inventory InventoryLedger
	products  ProductCatalog
	carts     CartStore
	gateway   PaymentGateway
	cache     Cache
	idem      IdempotencyStore
	notifier  Notifier

	now     func() time.Time
	newCode func(now time.Time) string
}

func NewOrderService(d Deps) *OrderService {
	s := &OrderService{
		logger:    d.Logger.With(slog.String("service", "order")),
		txManager: d.TxManager,
		orders:    d.Orders,
		inventory: d.Inventory,
		products:  d.Products,
		carts:     d.Carts,
		gateway:   d.Gateway,
		cache:     d.Cache,
		idem:      d.Idempotency,
		notifier:  d.Notifier,
		now:       d.Clock,
		newCode:   d.NewCode,
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newCode == nil {
		s.newCode = NewOrderCode
	}
	return s
}

// NewOrderCode builds a human readable code: yyMMddHHmmss plus 4 random digits.
func NewOrderCode(now time.Time) string {
	return now.Format("060102150405") + fmt.Sprintf("%04d", rand.Intn(10000))
}

func idempotencyScope(userID string) string {
	return "order:create:" + userID
}

// CreateOrder reserves stock for every line and persists a pending order.
// A failed reservation leaves no stock held and no order stored.
func (s *OrderService) CreateOrder(ctx context.Context, cmd entities.CreateOrderCommand) (entities.Order, error) {
	if cmd.IdempotencyKey == "" || s.idem == nil {
		return s.createOrder(ctx, cmd)
	}

	scope := idempotencyScope(cmd.UserID)
	orderID, found, err := s.idem.Recall(ctx, scope, cmd.IdempotencyKey)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to recall idempotency key: %w", err)
	}
	if found {
		s.logger.InfoContext(ctx, "replaying order for idempotency key", slog.String("order_id", orderID))
		return s.orders.FindByID(ctx, orderID)
	}

	locked, err := s.idem.TryLock(ctx, scope, cmd.IdempotencyKey)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to lock idempotency key: %w", err)
	}
	if !locked {
		return entities.Order{}, entities.ErrDuplicateRequest
	}

	order, err := s.createOrder(ctx, cmd)
	if err != nil {
		if uErr := s.idem.Unlock(ctx, scope, cmd.IdempotencyKey); uErr != nil {
			s.logger.WarnContext(ctx, "failed to unlock idempotency key", slog.Any("error", uErr))
		}
		return entities.Order{}, err
	}

	if err := s.idem.Remember(ctx, scope, cmd.IdempotencyKey, order.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to remember idempotency key", slog.String("order_id", order.ID), slog.Any("error", err))
	}
	return order, nil
}

func (s *OrderService) createOrder(ctx context.Context, cmd entities.CreateOrderCommand) (entities.Order, error) {
	if err := validateCommand(cmd); err != nil {
		return entities.Order{}, err
	}

	lines, cartIDs, err := s.resolveLines(ctx, cmd)
	if err != nil {
		return entities.Order{}, err
	}

	items, err := s.snapshot(ctx, lines)
	if err != nil {
		return entities.Order{}, err
	}

	now := s.now()
	order := entities.Order{
		ID:              uuid.NewString(),
		Code:            s.newCode(now),
		UserID:          cmd.UserID,
		Items:           items,
		ShippingAddress: cmd.Address,
		PaymentMethod:   cmd.PaymentMethod,
		PaymentStatus:   entities.PaymentUnpaid,
		Total:           entities.CalcTotal(items),
		Note:            cmd.Note,
		IdempotencyKey:  cmd.IdempotencyKey,
		CreatedAt:       now,
	}
	order.ApplyStatus(entities.StatusPending, now)

	if err := order.Validate(); err != nil {
		return entities.Order{}, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.reserve(ctx, order.Items); err != nil {
			return err
		}

		if err := s.insert(ctx, &order); err != nil {
			s.compensate(ctx, order.ID, byProduct(order.Items), s.releaseItems)
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, entities.ErrInsufficientStock) {
			stockRejections.Inc()
		}
		return entities.Order{}, err
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("code", order.Code),
		slog.Int64("total", order.Total),
	)
	ordersCreated.WithLabelValues(string(order.PaymentMethod)).Inc()

	if cmd.Source == entities.SourceCart {
		if err := s.carts.RemoveCartItems(ctx, cmd.UserID, cartIDs); err != nil {
			s.logger.WarnContext(ctx, "failed to clear purchased cart items", slog.String("order_id", order.ID), slog.Any("error", err))
		}
	}

	if order.PaymentMethod.Online() {
		req, err := s.requestPayment(ctx, order)
		if err != nil {
			s.logger.WarnContext(ctx, "payment request failed, cancelling order",
				slog.String("order_id", order.ID), slog.Any("error", err))
			if _, cErr := s.Transition(ctx, order.ID, entities.SystemActor, entities.StatusCancelled); cErr != nil {
				s.logger.ErrorContext(ctx, "failed to cancel order after payment request failure",
					slog.String("order_id", order.ID), slog.Any("error", cErr))
			}
			return entities.Order{}, err
		}
		order.PaymentURL = req.URL
		order.PaymentRequestID = req.RequestID
	}

	s.publish(ctx, entities.EventOrderCreated, order)
	return order, nil
}

func validateCommand(cmd entities.CreateOrderCommand) error {
	if cmd.UserID == "" {
		return fmt.Errorf("%w: user is required", entities.ErrValidation)
	}
	if !cmd.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", entities.ErrValidation, cmd.PaymentMethod)
	}
	if err := cmd.Address.Validate(); err != nil {
		return err
	}

	switch cmd.Source {
	case entities.SourceBuyNow:
		if len(cmd.Items) == 0 {
			return fmt.Errorf("%w: order must contain at least one item", entities.ErrValidation)
		}
		for _, l := range cmd.Items {
			if l.ProductID == "" || l.Quantity < 1 {
				return fmt.Errorf("%w: each item needs a product and a quantity of at least 1", entities.ErrValidation)
			}
		}
	case entities.SourceCart:
	default:
		return fmt.Errorf("%w: unknown order source %q", entities.ErrValidation, cmd.Source)
	}
	return nil
}

// resolveLines returns the lines to purchase, merged by product, and the
// cart entries they came from.
func (s *OrderService) resolveLines(ctx context.Context, cmd entities.CreateOrderCommand) ([]entities.LineItem, []string, error) {
	if cmd.Source == entities.SourceBuyNow {
		return mergeLines(cmd.Items), nil, nil
	}

	wanted := uniqueStrings(cmd.CartItemIDs)
	cartItems, err := s.carts.GetCartItems(ctx, cmd.UserID, wanted)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(wanted) > 0 && len(cartItems) != len(wanted) {
		return nil, nil, entities.ErrCartItemNotFound
	}
	if len(cartItems) == 0 {
		return nil, nil, fmt.Errorf("%w: cart is empty", entities.ErrValidation)
	}

	lines := make([]entities.LineItem, 0, len(cartItems))
	ids := make([]string, 0, len(cartItems))
	for _, c := range cartItems {
		if c.Quantity < 1 {
			return nil, nil, fmt.Errorf("%w: cart item %s has no quantity", entities.ErrValidation, c.ID)
		}
		lines = append(lines, entities.LineItem{ProductID: c.ProductID, Quantity: c.Quantity})
		ids = append(ids, c.ID)
	}
	return mergeLines(lines), ids, nil
}

func mergeLines(lines []entities.LineItem) []entities.LineItem {
	idx := make(map[string]int, len(lines))
	out := make([]entities.LineItem, 0, len(lines))
	for _, l := range lines {
		if i, ok := idx[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// snapshot copies name, price and image from the catalog into the order lines.
func (s *OrderService) snapshot(ctx context.Context, lines []entities.LineItem) ([]entities.Item, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	products, err := s.products.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[string]entities.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]entities.Item, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", entities.ErrProductNotFound, l.ProductID)
		}
		items = append(items, entities.Item{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  l.Quantity,
			Image:     p.Image,
		})
	}
	return items, nil
}

func (s *OrderService) reserve(ctx context.Context, items []entities.Item) error {
	items = byProduct(items)
	n, err := s.reserveItems(ctx, items)
	if err == nil {
		return nil
	}

	s.compensate(ctx, "", items[:n], s.releaseItems)

	if errors.Is(err, entities.ErrInsufficientStock) {
		it := items[n]
		return &entities.StockError{ProductID: it.ProductID, Name: it.Name, Requested: it.Quantity}
	}
	return err
}

// byProduct returns a copy of items ordered by product id. Every stock
// movement walks products in this order so concurrent orders lock rows in
// the same sequence.
func byProduct(items []entities.Item) []entities.Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b entities.Item) int {
		return strings.Compare(a.ProductID, b.ProductID)
	})
	return sorted
}

// reserveItems decrements stock item by item and stops at the first failure.
// It returns how many items were applied.
func (s *OrderService) reserveItems(ctx context.Context, items []entities.Item) (int, error) {
	for i, it := range items {
		if _, err := s.inventory.AdjustStock(ctx, it.ProductID, -it.Quantity); err != nil {
			return i, fmt.Errorf("failed to reserve %s: %w", it.ProductID, err)
		}
	}
	return len(items), nil
}

func (s *OrderService) releaseItems(ctx context.Context, items []entities.Item) (int, error) {
	for i, it := range items {
		if _, err := s.inventory.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
			return i, fmt.Errorf("failed to release %s: %w", it.ProductID, err)
		}
	}
	return len(items), nil
}

// compensate undoes already-applied stock moves. Inside a transaction the
// rollback undoes them instead, and the aborted transaction would reject
// any further statement. A failure here means the ledger drifted and needs
// an operator.
func (s *OrderService) compensate(ctx context.Context, orderID string, items []entities.Item, undo func(context.Context, []entities.Item) (int, error)) {
	if len(items) == 0 || trm.InTransaction(ctx) {
		return
	}
	if _, err := undo(ctx, items); err != nil {
		compensationFailures.Inc()
		s.logger.ErrorContext(ctx, "stock compensation failed",
			slog.String("order_id", orderID), slog.Any("items", items), slog.Any("error", err))
	}
}

func (s *OrderService) insert(ctx context.Context, order *entities.Order) error {
	for attempt := 1; ; attempt++ {
		id, err := s.orders.Insert(ctx, *order)
		if err == nil {
			order.ID = id
			return nil
		}
		if !errors.Is(err, entities.ErrDuplicateOrderCode) || attempt == maxCodeAttempts {
			return err
		}
		s.logger.DebugContext(ctx, "order code collision, regenerating", slog.String("code", order.Code))
		order.Code = s.newCode(s.now())
	}
}

func (s *OrderService) requestPayment(ctx context.Context, order entities.Order) (entities.PaymentRequest, error) {
	req, err := s.gateway.CreatePaymentRequest(ctx, order)
	if err != nil {
		return entities.PaymentRequest{}, err
	}
	if err := s.orders.SetPaymentRequest(ctx, order.ID, req); err != nil {
		return entities.PaymentRequest{}, fmt.Errorf("failed to store payment url: %w", err)
	}
	return req, nil
}

// Transition moves an order to next on behalf of actor. Customers may only
// cancel their own orders. Cancelling returns every item to stock.
func (s *OrderService) Transition(ctx context.Context, orderID string, actor entities.Actor, next entities.OrderStatus) (entities.Order, error) {
	if !next.Valid() {
		return entities.Order{}, fmt.Errorf("%w: unknown status %q", entities.ErrValidation, next)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}

	if err := authorize(order, actor, next); err != nil {
		return entities.Order{}, err
	}
	if !order.Status.CanTransition(next) {
		return entities.Order{}, &entities.TransitionError{From: order.Status, To: next}
	}

	current := order.Status
	update := entities.StatusUpdate{
		Expected: &current,
		Status:   next,
		At:       s.now(),
	}

	var updated entities.Order
	switch next {
	case entities.StatusCancelled:
		updated, err = s.cancel(ctx, order, update)
	case entities.StatusDelivered:
		if order.PaymentMethod == entities.MethodCOD && order.PaymentStatus == entities.PaymentUnpaid {
			unpaid, paid := entities.PaymentUnpaid, entities.PaymentPaid
			update.ExpectedPayment = &unpaid
			update.PaymentStatus = &paid
		}
		updated, err = s.orders.ConditionalUpdateStatus(ctx, order.ID, update)
	default:
		updated, err = s.orders.ConditionalUpdateStatus(ctx, order.ID, update)
	}
	if err != nil {
		return entities.Order{}, err
	}

	s.invalidate(order.ID)
	orderTransitions.WithLabelValues(string(current), string(next)).Inc()
	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", order.ID),
		slog.String("from", string(current)),
		slog.String("to", string(next)),
		slog.String("actor", actor.ID),
	)
	s.publish(ctx, entities.EventOrderStatusChanged, updated)
	return updated, nil
}

func authorize(order entities.Order, actor entities.Actor, next entities.OrderStatus) error {
	if actor.Privileged() {
		return nil
	}
	if order.UserID != actor.ID {
		return entities.ErrOrderNotFound
	}
	if next != entities.StatusCancelled {
		return entities.ErrForbidden
	}
	return nil
}

// cancel marks the order cancelled and then gives its stock back. The
// conditional status write comes first, so only the caller that wins it ever
// releases stock. If the release fails, the order is put back as it was.
func (s *OrderService) cancel(ctx context.Context, order entities.Order, update entities.StatusUpdate) (entities.Order, error) {
	payment := order.PaymentStatus
	update.ExpectedPayment = &payment
	if payment == entities.PaymentPaid {
		refunded := entities.PaymentRefunded
		update.PaymentStatus = &refunded
	}

	items := byProduct(order.Items)

	var updated entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.orders.ConditionalUpdateStatus(ctx, order.ID, update)
		if err != nil {
			return err
		}

		n, err := s.releaseItems(ctx, items)
		if err != nil {
			s.logger.ErrorContext(ctx, "stock release incomplete, order left unchanged",
				slog.String("order_id", order.ID), slog.Any("error", err))
			s.compensate(ctx, order.ID, items[:n], s.reserveItems)
			s.restore(ctx, order, updated)
			return fmt.Errorf("%w: %v", entities.ErrPartialFailure, err)
		}
		return nil
	})
	if err != nil {
		return entities.Order{}, err
	}

	if payment == entities.PaymentPaid {
		s.logger.WarnContext(ctx, "paid order cancelled, refund required",
			slog.String("order_id", order.ID), slog.String("transaction_id", order.PaymentTransactionID))
	}
	return updated, nil
}

// restore moves a cancelled order back to its state before the cancel
// claimed it. It only applies while nobody else has touched the order.
func (s *OrderService) restore(ctx context.Context, previous, cancelled entities.Order) {
	if trm.InTransaction(ctx) {
		return
	}

	status := cancelled.Status
	payment := cancelled.PaymentStatus
	original := previous.PaymentStatus
	_, err := s.orders.ConditionalUpdateStatus(ctx, previous.ID, entities.StatusUpdate{
		Expected:        &status,
		ExpectedPayment: &payment,
		Status:          previous.Status,
		PaymentStatus:   &original,
		At:              previous.StatusTime(),
	})
	if err != nil {
		compensationFailures.Inc()
		s.logger.ErrorContext(ctx, "failed to restore order after incomplete release",
			slog.String("order_id", previous.ID), slog.Any("error", err))
	}
}

// ApplyPaymentResult records a verified gateway outcome. Repeated successes
// are no-ops. Money arriving for a cancelled order is marked refunded.
func (s *OrderService) ApplyPaymentResult(ctx context.Context, orderID string, result entities.PaymentResult) (entities.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}

	if !result.Success {
		s.logger.InfoContext(ctx, "payment failed",
			slog.String("order_id", order.ID), slog.String("message", result.Message))
		return order, nil
	}

	if result.Amount != order.Total {
		s.logger.WarnContext(ctx, "payment amount mismatch",
			slog.String("order_id", order.ID),
			slog.Int64("expected", order.Total),
			slog.Int64("received", result.Amount),
		)
		return order, fmt.Errorf("%w: paid amount %d does not match order total %d", entities.ErrValidation, result.Amount, order.Total)
	}

	for attempt := 1; ; attempt++ {
		if order.PaymentStatus != entities.PaymentUnpaid {
			return order, nil
		}

		target := entities.PaymentPaid
		if order.Status == entities.StatusCancelled {
			target = entities.PaymentRefunded
		}
		status := order.Status

		updated, err := s.orders.UpdatePayment(ctx, order.ID, entities.PaymentUpdate{
			Expected:      entities.PaymentUnpaid,
			ExpectedOrder: &status,
			Status:        target,
			TransactionID: result.TransactionID,
			At:            s.now(),
		})
		if err == nil {
			s.invalidate(order.ID)
			if target == entities.PaymentRefunded {
				s.logger.WarnContext(ctx, "payment received for cancelled order, refund required",
					slog.String("order_id", order.ID), slog.String("transaction_id", result.TransactionID))
			} else {
				s.logger.InfoContext(ctx, "order paid", slog.String("order_id", order.ID))
				s.publish(ctx, entities.EventOrderPaid, updated)
			}
			return updated, nil
		}
		if !errors.Is(err, entities.ErrConflict) || attempt == maxPaymentAttempts {
			return entities.Order{}, err
		}

		order, err = s.orders.FindByID(ctx, orderID)
		if err != nil {
			return entities.Order{}, err
		}
	}
}

// AdminUpdate applies a status change and then a payment status override.
func (s *OrderService) AdminUpdate(ctx context.Context, actor entities.Actor, orderID string, cmd entities.AdminUpdateCommand) (entities.Order, error) {
	if !actor.Privileged() {
		return entities.Order{}, entities.ErrForbidden
	}
	if cmd.Status == nil && cmd.PaymentStatus == nil {
		return entities.Order{}, fmt.Errorf("%w: status or paymentStatus is required", entities.ErrValidation)
	}

	var (
		order entities.Order
		err   error
	)
	if cmd.Status != nil {
		order, err = s.Transition(ctx, orderID, actor, *cmd.Status)
	} else {
		order, err = s.orders.FindByID(ctx, orderID)
	}
	if err != nil {
		return entities.Order{}, err
	}

	if cmd.PaymentStatus == nil || *cmd.PaymentStatus == order.PaymentStatus {
		return order, nil
	}
	return s.overridePayment(ctx, order, *cmd.PaymentStatus)
}

func (s *OrderService) overridePayment(ctx context.Context, order entities.Order, target entities.PaymentStatus) (entities.Order, error) {
	allowed := (order.PaymentStatus == entities.PaymentUnpaid && target == entities.PaymentPaid) ||
		(order.PaymentStatus == entities.PaymentPaid && target == entities.PaymentRefunded)
	if !allowed {
		return entities.Order{}, fmt.Errorf("%w: payment status %s cannot become %s", entities.ErrInvalidTransition, order.PaymentStatus, target)
	}

	updated, err := s.orders.UpdatePayment(ctx, order.ID, entities.PaymentUpdate{
		Expected: order.PaymentStatus,
		Status:   target,
		At:       s.now(),
	})
	if err != nil {
		return entities.Order{}, err
	}

	s.invalidate(order.ID)
	s.logger.InfoContext(ctx, "payment status overridden",
		slog.String("order_id", order.ID), slog.String("payment_status", string(target)))
	if target == entities.PaymentPaid {
		s.publish(ctx, entities.EventOrderPaid, updated)
	}
	return updated, nil
}

// GetOrder returns an order visible to actor. Customers only see their own.
func (s *OrderService) GetOrder(ctx context.Context, actor entities.Actor, orderID string) (entities.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}
	if !actor.Privileged() && order.UserID != actor.ID {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) loadOrder(ctx context.Context, orderID string) (entities.Order, error) {
	if data, ok := s.cache.Get(orderID); ok {
		var order entities.Order
		err := order.Unmarshal(data)
		if err == nil {
			cacheLookups.WithLabelValues("hit").Inc()
			return order, nil
		}
		s.logger.WarnContext(ctx, "failed to unmarshal cached order", slog.String("order_id", orderID), slog.Any("error", err))
		s.cache.Delete(orderID)
	}

	cacheLookups.WithLabelValues("miss").Inc()

	var order entities.Order
	fn := func() error {
		var err error
		order, err = s.orders.FindByID(ctx, orderID)
		return err
	}
	if err := utils.Retry(ctx, utils.DefaultRetryConfig, fn, entities.ErrOrderNotFound); err != nil {
		return entities.Order{}, err
	}

	data, err := order.Marshal()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal order", slog.String("order_id", orderID), slog.Any("error", err))
		return order, nil
	}
	s.cache.Set(orderID, data)
	return order, nil
}

// WarmUpCache loads up to count of the most recent orders into the read cache.
func (s *OrderService) WarmUpCache(ctx context.Context, count int) error {
	loaded := 0
	limit := min(count, entities.MaxPageLimit)
	for page := 1; loaded < count; page++ {
		q := entities.ListQuery{Page: page, Limit: limit}
		orders, _, err := s.orders.ListAll(ctx, q)
		if err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		if len(orders) > count-loaded {
			orders = orders[:count-loaded]
		}

		for _, o := range orders {
			data, err := o.Marshal()
			if err != nil {
				return fmt.Errorf("failed to marshal order %s: %w", o.ID, err)
			}
			s.cache.Set(o.ID, data)
		}
		loaded += len(orders)

		if len(orders) < limit {
			break
		}
	}

	s.logger.InfoContext(ctx, "cache warmed up", slog.Int("orders", loaded))
	return nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string, q entities.ListQuery) ([]entities.Order, int, error) {
	return s.orders.ListByUser(ctx, userID, q.Normalize())
}

func (s *OrderService) ListOrders(ctx context.Context, actor entities.Actor, q entities.ListQuery) ([]entities.Order, int, error) {
	if !actor.Privileged() {
		return nil, 0, entities.ErrForbidden
	}
	return s.orders.ListAll(ctx, q.Normalize())
}

// Restock adds units returned by the warehouse.
func (s *OrderService) Restock(ctx context.Context, productID string, quantity int) (int, error) {
	if productID == "" || quantity < 1 {
		return 0, fmt.Errorf("%w: restock needs a product and a positive quantity", entities.ErrValidation)
	}
	stock, err := s.inventory.AdjustStock(ctx, productID, quantity)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "product restocked",
		slog.String("product_id", productID), slog.Int("quantity", quantity), slog.Int("stock", stock))
	return stock, nil
}

func (s *OrderService) invalidate(orderID string) {
	s.cache.Delete(orderID)
}

func (s *OrderService) publish(ctx context.Context, t entities.EventType, order entities.Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, entities.NewOrderEvent(t, order, s.now())); err != nil {
		s.logger.WarnContext(ctx, "failed to publish order event",
			slog.String("order_id", order.ID), slog.String("type", string(t)), slog.Any("error", err))
	}
}
