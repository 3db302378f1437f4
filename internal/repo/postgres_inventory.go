package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

// AdjustStock applies delta to a product's stock in a single conditional
// statement. A decrement only matches rows holding at least -delta units.
func (r *postgresRepo) AdjustStock(ctx context.Context, productID string, delta int) (int, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: stock delta must not be zero", entities.ErrValidation)
	}

	where := sq.And{sq.Eq{"id": productID}}
	if delta < 0 {
		where = append(where, sq.GtOrEq{"stock": -delta})
	}

	query, args := r.qb.Update("products").
		Set("stock", sq.Expr("stock + ?", delta)).
		Set("updated_at", sq.Expr("now()")).
		Where(where).
		Suffix("RETURNING stock").
		MustSql()

	var stock int
	err := r.getContext(ctx, &stock, query, args...)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to adjust stock: %w", err)
	}

	exists, err := r.exists(ctx, "products", productID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, entities.ErrProductNotFound
	}
	return 0, entities.ErrInsufficientStock
}

func (r *postgresRepo) GetProducts(ctx context.Context, ids []string) ([]entities.Product, error) {
	if len(ids) == 0 {
		return []entities.Product{}, nil
	}

	query, args := r.qb.Select("id", "name", "price", "image", "stock").
		From("products").
		Where(sq.Eq{"id": ids}).
		MustSql()

	var rows []productRow
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}

	products := make([]entities.Product, 0, len(rows))
	for _, p := range rows {
		products = append(products, entities.Product(p))
	}
	return products, nil
}

// GetCartItems returns the user's cart entries. An empty ids selects the whole cart.
func (r *postgresRepo) GetCartItems(ctx context.Context, userID string, ids []string) ([]entities.CartItem, error) {
	where := sq.Eq{"user_id": userID}
	if len(ids) > 0 {
		where["id"] = ids
	}

	query, args := r.qb.Select("id", "user_id", "product_id", "quantity").
		From("cart_items").
		Where(where).
		OrderBy("id").
		MustSql()

	var rows []cartItemRow
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select cart items: %w", err)
	}

	items := make([]entities.CartItem, 0, len(rows))
	for _, c := range rows {
		items = append(items, entities.CartItem(c))
	}
	return items, nil
}

func (r *postgresRepo) RemoveCartItems(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args := r.qb.Delete("cart_items").
		Where(sq.Eq{"user_id": userID, "id": ids}).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove cart items: %w", err)
	}
	return nil
}
