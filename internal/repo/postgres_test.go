package repo

import (
	"context"
	"testing"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*postgresRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepo(sqlx.NewDb(db, "postgres")), mock
}

const (
	adjustStockQuery    = `UPDATE products SET stock = stock \+ \$1, updated_at = now\(\) WHERE`
	productExistsQuery  = `SELECT 1 FROM products WHERE id = \$1`
	orderExistsQuery    = `SELECT 1 FROM orders WHERE id = \$1`
	updateStatusQuery   = `UPDATE orders SET status = \$1, updated_at = \$2`
	insertOrderQuery    = `INSERT INTO orders .* ON CONFLICT \(code\) DO NOTHING RETURNING id`
	updatePaymentQuery  = `UPDATE orders SET payment_status = \$1, updated_at = \$2`
	selectExpiredQuery  = `SELECT .* FROM orders WHERE .*pending_at < \$4 ORDER BY pending_at ASC LIMIT 100`
	removeCartItemQuery = `DELETE FROM cart_items WHERE`
)

func TestPostgresRepo_AdjustStock(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		delta     int
		mock      func(m sqlmock.Sqlmock)
		wantStock int
		wantErr   error
	}{
		{
			name:      "reserve within stock",
			productID: "p1",
			delta:     -3,
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(adjustStockQuery + ` \(id = \$2 AND stock >= \$3\) RETURNING stock`).
					WithArgs(-3, "p1", 3).
					WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(7))
			},
			wantStock: 7,
		},
		{
			name:      "reserve beyond stock",
			productID: "p1",
			delta:     -11,
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(adjustStockQuery).WillReturnRows(sqlmock.NewRows([]string{"stock"}))
				m.ExpectQuery(productExistsQuery).WithArgs("p1").
					WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
			},
			wantErr: entities.ErrInsufficientStock,
		},
		{
			name:      "unknown product",
			productID: "ghost",
			delta:     -1,
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(adjustStockQuery).WillReturnRows(sqlmock.NewRows([]string{"stock"}))
				m.ExpectQuery(productExistsQuery).WithArgs("ghost").WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
			},
			wantErr: entities.ErrProductNotFound,
		},
		{
			name:      "release is unconditional",
			productID: "p1",
			delta:     2,
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(adjustStockQuery + ` \(id = \$2\) RETURNING stock`).
					WithArgs(2, "p1").
					WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(12))
			},
			wantStock: 12,
		},
		{
			name:      "zero delta",
			productID: "p1",
			delta:     0,
			mock:      func(m sqlmock.Sqlmock) {},
			wantErr:   entities.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newMockRepo(t)
			tt.mock(mock)

			stock, err := r.AdjustStock(context.Background(), tt.productID, tt.delta)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStock, stock)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepo_ConditionalUpdateStatus(t *testing.T) {
	pending := entities.StatusPending
	at := time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC)
	update := entities.StatusUpdate{Expected: &pending, Status: entities.StatusConfirmed, At: at}

	tests := []struct {
		name    string
		mock    func(m sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "lost the race",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(updateStatusQuery).WillReturnRows(sqlmock.NewRows(orderColumns))
				m.ExpectQuery(orderExistsQuery).WithArgs("order-1").
					WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
			},
			wantErr: entities.ErrConflict,
		},
		{
			name: "missing order",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(updateStatusQuery).WillReturnRows(sqlmock.NewRows(orderColumns))
				m.ExpectQuery(orderExistsQuery).WithArgs("order-1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
			},
			wantErr: entities.ErrOrderNotFound,
		},
		{
			name: "malformed id",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(updateStatusQuery).WillReturnError(&pq.Error{Code: pgInvalidTextRepr})
			},
			wantErr: entities.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newMockRepo(t)
			tt.mock(mock)

			_, err := r.ConditionalUpdateStatus(context.Background(), "order-1", update)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepo_ConditionalUpdateStatus_StableSetClause(t *testing.T) {
	pending := entities.StatusPending
	at := time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC)
	update := entities.StatusUpdate{Expected: &pending, Status: entities.StatusConfirmed, At: at}

	const fullSet = `UPDATE orders SET status = \$1, updated_at = \$2, confirmed_at = \$3, shipping_at = \$4, delivered_at = \$5, cancelled_at = \$6 WHERE `

	r, mock := newMockRepo(t)
	for i := 0; i < 20; i++ {
		mock.ExpectQuery(fullSet).
			WithArgs(string(entities.StatusConfirmed), at, at, nil, nil, nil, "order-1", string(pending)).
			WillReturnRows(sqlmock.NewRows(orderColumns))
		mock.ExpectQuery(orderExistsQuery).WithArgs("order-1").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	}

	for i := 0; i < 20; i++ {
		_, err := r.ConditionalUpdateStatus(context.Background(), "order-1", update)
		require.ErrorIs(t, err, entities.ErrConflict)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_UpdatePayment_Conflict(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(updatePaymentQuery).WillReturnRows(sqlmock.NewRows(orderColumns))
	mock.ExpectQuery(orderExistsQuery).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	_, err := r.UpdatePayment(context.Background(), "order-1", entities.PaymentUpdate{
		Expected: entities.PaymentUnpaid,
		Status:   entities.PaymentPaid,
		At:       time.Now(),
	})

	assert.ErrorIs(t, err, entities.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_Insert(t *testing.T) {
	order := entities.Order{
		ID:     "8b0b6c1e-4f7a-4a53-9d0e-6d3c1f2a9b10",
		Code:   "2510161200001234",
		UserID: "user-1",
		Items:  []entities.Item{{ProductID: "p1", Name: "Laptop", Price: 100, Quantity: 2}},
		ShippingAddress: entities.Address{
			FullName: "A", Phone: "0901", Province: "HCM", District: "Q1", Ward: "BN", Street: "1 Le Loi",
		},
		PaymentMethod: entities.MethodCOD,
		PaymentStatus: entities.PaymentUnpaid,
		Status:        entities.StatusPending,
		Total:         200,
		PendingAt:     time.Now(),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	t.Run("stored", func(t *testing.T) {
		r, mock := newMockRepo(t)
		mock.ExpectQuery(insertOrderQuery).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(order.ID))

		id, err := r.Insert(context.Background(), order)
		require.NoError(t, err)
		assert.Equal(t, order.ID, id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("code taken", func(t *testing.T) {
		r, mock := newMockRepo(t)
		mock.ExpectQuery(insertOrderQuery).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := r.Insert(context.Background(), order)
		assert.ErrorIs(t, err, entities.ErrDuplicateOrderCode)
	})

	t.Run("invalid order never reaches the db", func(t *testing.T) {
		r, mock := newMockRepo(t)
		bad := order
		bad.Total = 1

		_, err := r.Insert(context.Background(), bad)
		assert.ErrorIs(t, err, entities.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepo_ListExpiredUnpaid_Empty(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(selectExpiredQuery).
		WithArgs("momo", "unpaid", "pending", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	orders, err := r.ListExpiredUnpaid(context.Background(), entities.MethodMomo, time.Now(), 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_RemoveCartItems(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec(removeCartItemQuery).WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, r.RemoveCartItems(context.Background(), "user-1", []string{"c1", "c2"}))
	require.NoError(t, r.RemoveCartItems(context.Background(), "user-1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
