package repository

import (
    "context"
    "database/sql"
    "errors"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestWithTxCommitsOnSuccess(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("UPDATE attendees").
        WithArgs("A", uint64(1)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    err = NewTxRunner(db).WithTx(context.Background(), func(tx *sql.Tx) error {
        _, err := tx.ExecContext(context.Background(),
            `UPDATE attendees SET assigned_enclosure = ? WHERE id = ?`, "A", uint64(1))
        return err
    })
    require.NoError(t, err)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectRollback()

    boom := errors.New("boom")
    err = NewTxRunner(db).WithTx(context.Background(), func(tx *sql.Tx) error {
        return boom
    })
    assert.ErrorIs(t, err, boom)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectRollback()

    assert.Panics(t, func() {
        _ = NewTxRunner(db).WithTx(context.Background(), func(tx *sql.Tx) error {
            panic("boom")
        })
    })
    require.NoError(t, mock.ExpectationsWereMet())
}
