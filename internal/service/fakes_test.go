package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/service"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/pkg/cache"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/pkg/trm"
)

// memStore is an in-memory stand-in for the order, product and cart tables
// with the same conditional-write semantics as the real repositories.
type memStore struct {
	mu       sync.Mutex
	orders   map[string]entities.Order
	codes    map[string]string
	products map[string]entities.Product
	cart     map[string]entities.CartItem

	// failAdjust makes AdjustStock fail for a product after the given
	// number of successful calls on it.
	failAdjust map[string]int
	adjustHits map[string]int
	// adjustLog records the product of every AdjustStock call in order.
	adjustLog []string

	insertFailures []error
	updateHook     func(id string)
}

func newMemStore() *memStore {
	return &memStore{
		orders:     make(map[string]entities.Order),
		codes:      make(map[string]string),
		products:   make(map[string]entities.Product),
		cart:       make(map[string]entities.CartItem),
		failAdjust: make(map[string]int),
		adjustHits: make(map[string]int),
	}
}

func (m *memStore) addProduct(id string, price int64, stock int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[id] = entities.Product{ID: id, Name: "Product " + id, Price: price, Stock: stock}
}

func (m *memStore) addCartItem(id, userID, productID string, qty int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart[id] = entities.CartItem{ID: id, UserID: userID, ProductID: productID, Quantity: qty}
}

func (m *memStore) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *memStore) order(id string) entities.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

func (m *memStore) Insert(_ context.Context, o entities.Order) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.insertFailures) > 0 {
		err := m.insertFailures[0]
		m.insertFailures = m.insertFailures[1:]
		if err != nil {
			return "", err
		}
	}
	if err := o.Validate(); err != nil {
		return "", err
	}
	if _, ok := m.codes[o.Code]; ok {
		return "", entities.ErrDuplicateOrderCode
	}
	m.codes[o.Code] = o.ID
	m.orders[o.ID] = o
	return o.ID, nil
}

func (m *memStore) FindByID(_ context.Context, id string) (entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return o, nil
}

func (m *memStore) list(filter func(entities.Order) bool, q entities.ListQuery) ([]entities.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []entities.Order
	for _, o := range m.orders {
		if filter(o) && (q.Status == nil || o.Status == *q.Status) {
			all = append(all, o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	start := min(q.Offset(), total)
	end := min(start+q.Limit, total)
	return all[start:end], total, nil
}

func (m *memStore) ListByUser(_ context.Context, userID string, q entities.ListQuery) ([]entities.Order, int, error) {
	return m.list(func(o entities.Order) bool { return o.UserID == userID }, q)
}

func (m *memStore) ListAll(_ context.Context, q entities.ListQuery) ([]entities.Order, int, error) {
	return m.list(func(entities.Order) bool { return true }, q)
}

func (m *memStore) ConditionalUpdateStatus(_ context.Context, id string, u entities.StatusUpdate) (entities.Order, error) {
	if m.updateHook != nil {
		m.updateHook(id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if u.Expected != nil && o.Status != *u.Expected {
		return entities.Order{}, entities.ErrConflict
	}
	if u.ExpectedPayment != nil && o.PaymentStatus != *u.ExpectedPayment {
		return entities.Order{}, entities.ErrConflict
	}

	o.ApplyStatus(u.Status, u.At)
	if u.PaymentStatus != nil {
		o.PaymentStatus = *u.PaymentStatus
	}
	m.orders[id] = o
	return o, nil
}

func (m *memStore) UpdatePayment(_ context.Context, id string, u entities.PaymentUpdate) (entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if o.PaymentStatus != u.Expected || (u.ExpectedOrder != nil && o.Status != *u.ExpectedOrder) {
		return entities.Order{}, entities.ErrConflict
	}

	o.PaymentStatus = u.Status
	if u.TransactionID != "" {
		o.PaymentTransactionID = u.TransactionID
	}
	o.UpdatedAt = u.At
	m.orders[id] = o
	return o, nil
}

func (m *memStore) SetPaymentRequest(_ context.Context, id string, req entities.PaymentRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return entities.ErrOrderNotFound
	}
	o.PaymentURL = req.URL
	o.PaymentRequestID = req.RequestID
	m.orders[id] = o
	return nil
}

func (m *memStore) ListExpiredUnpaid(_ context.Context, method entities.PaymentMethod, before time.Time, limit int) ([]entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entities.Order
	for _, o := range m.orders {
		if o.Status == entities.StatusPending && o.PaymentStatus == entities.PaymentUnpaid &&
			o.PaymentMethod == method && o.PendingAt.Before(before) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PendingAt.Before(out[j].PendingAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var errLedgerDown = errors.New("ledger unavailable")

func (m *memStore) AdjustStock(_ context.Context, productID string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adjustLog = append(m.adjustLog, productID)

	if limit, ok := m.failAdjust[productID]; ok {
		if m.adjustHits[productID] >= limit {
			return 0, errLedgerDown
		}
		m.adjustHits[productID]++
	}

	p, ok := m.products[productID]
	if !ok {
		return 0, entities.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return 0, entities.ErrInsufficientStock
	}
	p.Stock += delta
	m.products[productID] = p
	return p.Stock, nil
}

func (m *memStore) adjustCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := m.adjustLog
	m.adjustLog = nil
	return calls
}

func (m *memStore) GetProducts(_ context.Context, ids []string) ([]entities.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entities.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) GetCartItems(_ context.Context, userID string, ids []string) ([]entities.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entities.CartItem
	if len(ids) == 0 {
		for _, c := range m.cart {
			if c.UserID == userID {
				out = append(out, c)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	}
	for _, id := range ids {
		if c, ok := m.cart[id]; ok && c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) RemoveCartItems(_ context.Context, userID string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if c, ok := m.cart[id]; ok && c.UserID == userID {
			delete(m.cart, id)
		}
	}
	return nil
}

type fakeGateway struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (g *fakeGateway) CreatePaymentRequest(_ context.Context, order entities.Order) (entities.PaymentRequest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return entities.PaymentRequest{}, g.err
	}
	return entities.PaymentRequest{URL: "https://pay.example/" + order.ID, RequestID: "req-" + order.ID}, nil
}

type fakeIdempotency struct {
	mu     sync.Mutex
	locks  map[string]bool
	values map[string]string
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{locks: make(map[string]bool), values: make(map[string]string)}
}

func (f *fakeIdempotency) TryLock(_ context.Context, scope, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[scope+key] {
		return false, nil
	}
	f.locks[scope+key] = true
	return true, nil
}

func (f *fakeIdempotency) Unlock(_ context.Context, scope, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locks, scope+key)
	return nil
}

func (f *fakeIdempotency) Remember(_ context.Context, scope, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[scope+key] = value
	delete(f.locks, scope+key)
	return nil
}

func (f *fakeIdempotency) Recall(_ context.Context, scope, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[scope+key]
	return v, ok, nil
}

type countingNotifier struct {
	mu     sync.Mutex
	events []entities.OrderEvent
}

func (n *countingNotifier) Publish(_ context.Context, ev entities.OrderEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func (n *countingNotifier) count(t entities.EventType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, ev := range n.events {
		if ev.Type == t {
			c++
		}
	}
	return c
}

type fixture struct {
	store    *memStore
	gateway  *fakeGateway
	idem     *fakeIdempotency
	notifier *countingNotifier
	now      time.Time
	svc      *service.OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithTx(t, trm.NewNopManager())
}

func newFixtureWithTx(t *testing.T, txManager trm.Manager) *fixture {
	t.Helper()

	f := &fixture{
		store:    newMemStore(),
		gateway:  &fakeGateway{},
		idem:     newFakeIdempotency(),
		notifier: &countingNotifier{},
		now:      time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC),
	}

	var seq atomic.Int64
	f.svc = service.NewOrderService(service.Deps{
		Logger:      testLogger(),
		TxManager:   txManager,
		Orders:      f.store,
		Inventory:   f.store,
		Products:    f.store,
		Carts:       f.store,
		Gateway:     f.gateway,
		Cache:       cache.New[[]byte](100, time.Minute),
		Idempotency: f.idem,
		Notifier:    f.notifier,
		Clock:       func() time.Time { return f.now },
		NewCode: func(time.Time) string {
			return fmt.Sprintf("CODE%06d", seq.Add(1))
		},
	})
	return f
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAddress() entities.Address {
	return entities.Address{
		FullName: "Nguyen Van A",
		Phone:    "0901234567",
		Province: "Ho Chi Minh",
		District: "Quan 1",
		Ward:     "Ben Nghe",
		Street:   "1 Le Loi",
	}
}

func buyNow(userID string, method entities.PaymentMethod, lines ...entities.LineItem) entities.CreateOrderCommand {
	return entities.CreateOrderCommand{
		UserID:        userID,
		Source:        entities.SourceBuyNow,
		Items:         lines,
		Address:       testAddress(),
		PaymentMethod: method,
	}
}

func line(productID string, qty int) entities.LineItem {
	return entities.LineItem{ProductID: productID, Quantity: qty}
}

var (
	customer = entities.Actor{ID: "user-1", Role: entities.RoleCustomer}
	stranger = entities.Actor{ID: "user-2", Role: entities.RoleCustomer}
	admin    = entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}
)
