package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxFunc runs inside a transaction opened by WithTransaction.
type TxFunc func(*sql.Tx) error

// WithTransaction begins a transaction on db, runs fn and commits. The
// transaction is rolled back when fn returns an error or panics; the panic is
// re-raised after the rollback.
func WithTransaction(ctx context.Context, db *sql.DB, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
