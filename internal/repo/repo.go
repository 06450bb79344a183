package repo

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/mkravtsov/checkout-service/pkg/trm"
)

// queryer routes queries through the transaction carried in the
// context, falling back to the pool when there is none.
type queryer struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func newQueryer(db *sqlx.DB) queryer {
	return queryer{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (q queryer) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return q.db.ExecContext(ctx, query, args...)
}

func (q queryer) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return q.db.GetContext(ctx, dest, query, args...)
}

func (q queryer) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return q.db.SelectContext(ctx, dest, query, args...)
}
