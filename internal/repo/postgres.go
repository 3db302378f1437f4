package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgInvalidTextRepr     = "22P02"
	ordersCodeConstraint  = "orders_code_key"
	expiredScanDefaultCap = 100
)

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

// NewPostgresRepo returns a store backing orders, stock, products and carts.
// Queries join the transaction bound to the context by trm.Manager.
func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresRepo) Insert(ctx context.Context, o entities.Order) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	query, args := r.qb.Insert("orders").
		Columns(orderColumns...).
		Values(orderValues(o)...).
		Suffix("ON CONFLICT (code) DO NOTHING RETURNING id").
		MustSql()

	var id string
	err := r.getContext(ctx, &id, query, args...)
	if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err, ordersCodeConstraint) {
		return "", entities.ErrDuplicateOrderCode
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert order: %w", err)
	}
	return id, nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		MustSql()

	var row orderRow
	err := r.getContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) || isInvalidInput(err) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return orderRowToEntity(row), nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string, q entities.ListQuery) ([]entities.Order, int, error) {
	return r.list(ctx, sq.Eq{"user_id": userID}, q)
}

func (r *postgresRepo) ListAll(ctx context.Context, q entities.ListQuery) ([]entities.Order, int, error) {
	return r.list(ctx, sq.Eq{}, q)
}

func (r *postgresRepo) list(ctx context.Context, filter sq.Eq, q entities.ListQuery) ([]entities.Order, int, error) {
	q = q.Normalize()
	if q.Status != nil {
		filter["status"] = string(*q.Status)
	}

	query, args := r.qb.Select("COUNT(*)").
		From("orders").
		Where(filter).
		MustSql()

	var total int
	if err := r.getContext(ctx, &total, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query, args = r.qb.Select(orderColumns...).
		From("orders").
		Where(filter).
		OrderBy("created_at DESC").
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset())).
		MustSql()

	var rows []orderRow
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to select orders: %w", err)
	}

	orders := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, orderRowToEntity(row))
	}
	return orders, total, nil
}

func (r *postgresRepo) ConditionalUpdateStatus(ctx context.Context, id string, u entities.StatusUpdate) (entities.Order, error) {
	b := r.qb.Update("orders").
		Set("status", string(u.Status)).
		Set("updated_at", u.At)

	if u.Status == entities.StatusPending {
		b = b.Set("pending_at", u.At)
	}
	for _, c := range postPendingColumns {
		if c.status == u.Status {
			b = b.Set(c.column, u.At)
		} else {
			b = b.Set(c.column, nil)
		}
	}
	if u.PaymentStatus != nil {
		b = b.Set("payment_status", string(*u.PaymentStatus))
	}

	where := sq.Eq{"id": id}
	if u.Expected != nil {
		where["status"] = string(*u.Expected)
	}
	if u.ExpectedPayment != nil {
		where["payment_status"] = string(*u.ExpectedPayment)
	}

	query, args := b.Where(where).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		MustSql()

	return r.updateReturning(ctx, id, query, args)
}

func (r *postgresRepo) UpdatePayment(ctx context.Context, id string, u entities.PaymentUpdate) (entities.Order, error) {
	b := r.qb.Update("orders").
		Set("payment_status", string(u.Status)).
		Set("updated_at", u.At)
	if u.TransactionID != "" {
		b = b.Set("payment_transaction_id", u.TransactionID)
	}

	where := sq.Eq{"id": id, "payment_status": string(u.Expected)}
	if u.ExpectedOrder != nil {
		where["status"] = string(*u.ExpectedOrder)
	}

	query, args := b.Where(where).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		MustSql()

	return r.updateReturning(ctx, id, query, args)
}

func (r *postgresRepo) SetPaymentRequest(ctx context.Context, id string, req entities.PaymentRequest) error {
	query, args := r.qb.Update("orders").
		Set("payment_url", req.URL).
		Set("payment_request_id", req.RequestID).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set payment request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepo) ListExpiredUnpaid(ctx context.Context, method entities.PaymentMethod, before time.Time, limit int) ([]entities.Order, error) {
	if limit <= 0 {
		limit = expiredScanDefaultCap
	}

	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{
			"status":         string(entities.StatusPending),
			"payment_method": string(method),
			"payment_status": string(entities.PaymentUnpaid),
		}).
		Where(sq.Lt{"pending_at": before}).
		OrderBy("pending_at ASC").
		Limit(uint64(limit)).
		MustSql()

	var rows []orderRow
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select expired orders: %w", err)
	}

	orders := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, orderRowToEntity(row))
	}
	return orders, nil
}

// updateReturning runs a conditional UPDATE ... RETURNING. When no row
// matches it tells a missing order apart from a failed precondition.
func (r *postgresRepo) updateReturning(ctx context.Context, id, query string, args []any) (entities.Order, error) {
	var row orderRow
	err := r.getContext(ctx, &row, query, args...)
	if err == nil {
		return orderRowToEntity(row), nil
	}
	if isInvalidInput(err) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, fmt.Errorf("failed to update order: %w", err)
	}

	exists, err := r.exists(ctx, "orders", id)
	if err != nil {
		return entities.Order{}, err
	}
	if !exists {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return entities.Order{}, entities.ErrConflict
}

func (r *postgresRepo) exists(ctx context.Context, table, id string) (bool, error) {
	query, args := r.qb.Select("1").
		From(table).
		Where(sq.Eq{"id": id}).
		MustSql()

	var one int
	err := r.getContext(ctx, &one, query, args...)
	if errors.Is(err, sql.ErrNoRows) || isInvalidInput(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", table, err)
	}
	return true, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pgUniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
}

func isInvalidInput(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgInvalidTextRepr
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
