package trm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

func withTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// ExtractTx returns the transaction bound to ctx by Manager.Do, or nil.
func ExtractTx(ctx context.Context) *sqlx.Tx {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	if !ok {
		return nil
	}
	return tx
}

// InTransaction reports whether ctx carries a transaction opened by Manager.Do.
// Work done under it is undone by rollback.
func InTransaction(ctx context.Context) bool {
	return ExtractTx(ctx) != nil
}

// Manager runs a unit of work atomically. Stores read the transaction from
// the callback's context with ExtractTx.
type Manager interface {
	Do(ctx context.Context, callback func(ctx context.Context) error) error
}

type Option func(*sql.TxOptions)

// WithIsolation sets the isolation level of every transaction the manager opens.
func WithIsolation(level sql.IsolationLevel) Option {
	return func(o *sql.TxOptions) { o.Isolation = level }
}

type txManager struct {
	db   *sqlx.DB
	opts sql.TxOptions
}

func NewManager(db *sqlx.DB, opts ...Option) Manager {
	m := &txManager{db: db}
	for _, opt := range opts {
		opt(&m.opts)
	}
	return m
}

// Do runs callback in a transaction. Nested calls join the outer transaction.
// A panicking callback rolls back and re-panics.
func (t *txManager) Do(ctx context.Context, callback func(ctx context.Context) error) (err error) {
	if ExtractTx(ctx) != nil {
		return callback(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, &t.opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("failed to rollback: %w", rbErr))
			}
		}
	}()

	if err = callback(withTx(ctx, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type nopManager struct{}

// NewNopManager returns a Manager for stores without multi-record
// transactions. Callers keep their own compensation for partial failures.
func NewNopManager() Manager {
	return nopManager{}
}

func (nopManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	return callback(ctx)
}
