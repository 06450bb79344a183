package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/mkravtsov/checkout-service/internal/entities"
)

// inventoryRepo owns the per-product stock counters. Nothing else in
// the service mutates the available column.
type inventoryRepo struct {
	queryer
}

func NewInventoryRepo(db *sqlx.DB) *inventoryRepo {
	return &inventoryRepo{queryer: newQueryer(db)}
}

// Reserve atomically decrements available stock and returns the unit
// price snapshot for billing. The conditional UPDATE takes the row
// write lock, so two concurrent reservations of the same product
// serialize and the second one sees the first's decrement. A plain
// read-then-write would race under load.
func (r *inventoryRepo) Reserve(ctx context.Context, productID string, quantity int) (decimal.Decimal, error) {
	query, args := r.qb.Update("products").
		Set("available", sq.Expr("available - ?", quantity)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.And{sq.Eq{"id": productID}, sq.GtOrEq{"available": quantity}}).
		Suffix("RETURNING price").
		MustSql()

	var price decimal.Decimal
	err := r.getContext(ctx, &price, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		// Row is either missing or short on stock, read it to tell which.
		return decimal.Zero, r.reserveFailure(ctx, productID, quantity)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to reserve stock: %w", err)
	}
	return price, nil
}

func (r *inventoryRepo) reserveFailure(ctx context.Context, productID string, quantity int) error {
	query, args := r.qb.Select("available").
		From("products").
		Where(sq.Eq{"id": productID}).
		MustSql()

	var available int
	err := r.getContext(ctx, &available, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read stock: %w", err)
	}

	return &entities.InsufficientStockError{
		ProductID: productID,
		Available: available,
		Requested: quantity,
	}
}

// Release returns previously reserved quantity to the pool. Addition
// can never push available below zero, so it always succeeds for an
// existing product.
func (r *inventoryRepo) Release(ctx context.Context, productID string, quantity int) error {
	query, args := r.qb.Update("products").
		Set("available", sq.Expr("available + ?", quantity)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": productID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}
	if affected == 0 {
		return entities.ErrProductNotFound
	}
	return nil
}
