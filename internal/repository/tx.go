package repository

import (
    "context"
    "database/sql"
)

// TxRunner executes a function inside a database transaction. A nil
// error from fn commits; any error rolls back, so multi-write commits
// (allocation insert plus attendee cache update) land in full or not
// at all.
type TxRunner struct {
    db *sql.DB
}

// NewTxRunner returns a TxRunner bound to the provided database.
func NewTxRunner(db *sql.DB) *TxRunner { return &TxRunner{db: db} }

// WithTx begins a transaction, runs fn and commits on success. The
// rollback in the deferred path also covers panics inside fn.
func (r *TxRunner) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(tx); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
