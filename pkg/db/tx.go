package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ahwlsqja/permission-mw-signer/internal/repository/db"
)

// TxRunner hands sqlc queries to the service layer, either bound to the
// pool or to a transaction.
type TxRunner struct {
	database *sql.DB
}

// NewTxRunner creates a new TxRunner instance.
func NewTxRunner(database *sql.DB) *TxRunner {
	return &TxRunner{database: database}
}

// WithTx runs fn inside a transaction. fn's error rolls back; nil commits.
//
//	err := txRunner.WithTx(ctx, func(q db.Querier) error {
//	    a, err := q.GetAuthorizationForUpdate(ctx, externalID)
//	    if err != nil {
//	        return err
//	    }
//	    _, err = q.UpdateAuthorizationStatus(ctx, db.UpdateAuthorizationStatusParams{...})
//	    return err
//	})
func (r *TxRunner) WithTx(ctx context.Context, fn func(q db.Querier) error) error {
	_, err := WithTxResult(ctx, r, func(q db.Querier) (struct{}, error) {
		return struct{}{}, fn(q)
	})
	return err
}

// WithTxResult is WithTx for functions that return a value.
func WithTxResult[T any](ctx context.Context, r *TxRunner, fn func(q db.Querier) (T, error)) (T, error) {
	var result T

	tx, err := r.database.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin transaction: %w", err)
	}

	result, err = fn(db.New(tx))
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return result, fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return result, err
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("commit transaction: %w", err)
	}

	return result, nil
}

// Queries returns pool-bound queries for reads outside a transaction.
func (r *TxRunner) Queries() db.Querier {
	return db.New(r.database)
}

// DB returns the underlying database connection.
func (r *TxRunner) DB() *sql.DB {
	return r.database
}
