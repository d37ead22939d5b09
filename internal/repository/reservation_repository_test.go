package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/gradhall/convocation-seating/internal/allocator"
    "github.com/gradhall/convocation-seating/internal/model"
)

// A lost seat claim means the seat is owned by either ledger; the hold
// insert itself never runs.
func TestInsertReservationTxLosesSeatClaim(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("INSERT INTO seat_claims").
        WithArgs("A", "A", uint32(1)).
        WillReturnError(dupKeyErr("uq_claim_seat"))

    tx, err := db.Begin()
    require.NoError(t, err)
    err = NewReservationRepo(db).InsertReservationTx(context.Background(), tx,
        &model.SeatReservation{EnclosureLetter: "A", RowLetter: "A", SeatNumber: 1})
    assert.ErrorIs(t, err, allocator.ErrSeatTaken)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReservationTxMapsConflict(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec("INSERT INTO seat_claims").
        WithArgs("A", "A", uint32(1)).
        WillReturnResult(sqlmock.NewResult(1, 1))
    mock.ExpectExec("INSERT INTO seat_reservations").
        WillReturnError(dupKeyErr("uq_resv_seat"))

    tx, err := db.Begin()
    require.NoError(t, err)
    err = NewReservationRepo(db).InsertReservationTx(context.Background(), tx,
        &model.SeatReservation{EnclosureLetter: "A", RowLetter: "A", SeatNumber: 1})
    assert.ErrorIs(t, err, allocator.ErrSeatTaken)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReservationTxPopulatesRecord(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    createdAt := time.Date(2026, 5, 18, 8, 0, 0, 0, time.UTC)
    reservedBy := "admin"
    mock.ExpectBegin()
    mock.ExpectExec("INSERT INTO seat_claims").
        WithArgs("A", "B", uint32(4)).
        WillReturnResult(sqlmock.NewResult(1, 1))
    mock.ExpectExec("INSERT INTO seat_reservations").
        WithArgs("A", "B", uint32(4), nil, &reservedBy).
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectQuery("SELECT created_at FROM seat_reservations").
        WithArgs(uint64(11)).
        WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

    tx, err := db.Begin()
    require.NoError(t, err)
    res := &model.SeatReservation{EnclosureLetter: "A", RowLetter: "B", SeatNumber: 4, ReservedBy: &reservedBy}
    require.NoError(t, NewReservationRepo(db).InsertReservationTx(context.Background(), tx, res))
    assert.Equal(t, uint64(11), res.ID)
    assert.Equal(t, createdAt, res.CreatedAt)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReservationTx(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    seatCols := []string{"enclosure_letter", "row_letter", "seat_number"}
    mock.ExpectBegin()
    mock.ExpectQuery("SELECT enclosure_letter, row_letter, seat_number").
        WithArgs(uint64(11)).
        WillReturnRows(sqlmock.NewRows(seatCols).AddRow("A", "B", 4))
    mock.ExpectExec("DELETE FROM seat_claims").
        WithArgs("A", "B", uint32(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("DELETE FROM seat_reservations").
        WithArgs(uint64(11)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery("SELECT enclosure_letter, row_letter, seat_number").
        WithArgs(uint64(12)).
        WillReturnRows(sqlmock.NewRows(seatCols))

    tx, err := db.Begin()
    require.NoError(t, err)
    repo := NewReservationRepo(db)

    found, err := repo.DeleteReservationTx(context.Background(), tx, 11)
    require.NoError(t, err)
    assert.True(t, found, "the seat claim goes with the hold")

    found, err = repo.DeleteReservationTx(context.Background(), tx, 12)
    require.NoError(t, err)
    assert.False(t, found)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    now := time.Date(2026, 5, 18, 8, 0, 0, 0, time.UTC)
    cols := []string{"id", "enclosure_letter", "row_letter", "seat_number", "reserved_for", "reserved_by", "created_at"}
    mock.ExpectQuery("FROM seat_reservations WHERE id = \\?").
        WithArgs(uint64(11)).
        WillReturnRows(sqlmock.NewRows(cols).AddRow(11, "A", "B", 4, nil, "admin", now))
    mock.ExpectQuery("FROM seat_reservations WHERE id = \\?").
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows(cols))

    repo := NewReservationRepo(db)
    res, err := repo.GetByID(context.Background(), 11)
    require.NoError(t, err)
    assert.Equal(t, uint32(4), res.SeatNumber)
    assert.Nil(t, res.ReservedFor)

    _, err = repo.GetByID(context.Background(), 99)
    assert.ErrorIs(t, err, allocator.ErrReservationNotFound)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByEnclosure(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    now := time.Date(2026, 5, 18, 8, 0, 0, 0, time.UTC)
    mock.ExpectQuery("FROM seat_reservations").
        WithArgs("A").
        WillReturnRows(sqlmock.NewRows(
            []string{"id", "enclosure_letter", "row_letter", "seat_number", "reserved_for", "reserved_by", "created_at"}).
            AddRow(1, "A", "A", 3, "external guest", "admin", now).
            AddRow(2, "A", "B", 1, nil, nil, now))

    out, err := NewReservationRepo(db).ListByEnclosure(context.Background(), "A")
    require.NoError(t, err)
    require.Len(t, out, 2)
    require.NotNil(t, out[0].ReservedFor)
    assert.Equal(t, "external guest", *out[0].ReservedFor)
    assert.Nil(t, out[1].ReservedFor)
    require.NoError(t, mock.ExpectationsWereMet())
}
