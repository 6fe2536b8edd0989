// ABOUTME: Transaction helper for multi-statement writes.
// ABOUTME: Commits on success, rolls back on any error or panic.
package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// querier is satisfied by both *sql.DB and *sql.Tx so row helpers can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a transaction. Errors from fn are returned as-is
// after rollback; begin/commit failures become StorageErrors.
func (d *DB) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(op, fmt.Errorf("begin transaction: %w", err))
	}

	committed := false
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil && !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				d.log.Warn("rollback failed", "op", op, "error", rbErr)
			}
			d.log.Debug("transaction rolled back", "op", op, "error", err)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	committed = true
	if err = tx.Commit(); err != nil {
		return storageErr(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}
