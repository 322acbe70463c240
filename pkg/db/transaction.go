package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WithTx runs fn inside a transaction: commit when fn returns nil,
// rollback when it returns an error or panics. A panic is re-raised
// after the rollback. Typical use is pairing a file metadata insert
// with its quota update:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//	    if err := files.Insert(ctx, tx, meta); err != nil {
//	        return err
//	    }
//	    return quotas.Charge(ctx, tx, meta.TenantID, meta.Size)
//	})
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
