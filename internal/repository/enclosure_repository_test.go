package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/gradhall/convocation-seating/internal/model"
)

func TestActiveEnclosuresDecodesTopology(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("FROM enclosures").
        WithArgs("STUDENTS").
        WillReturnRows(sqlmock.NewRows([]string{"id", "letter", "allocated_for", "display_order"}).
            AddRow(1, "A", "STUDENTS", 1).
            AddRow(2, "M", "MIXED", 2))
    mock.ExpectQuery("FROM enclosure_rows").
        WithArgs(uint64(1), uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{"enclosure_id", "letter", "start_seat", "end_seat", "reserved_seats", "display_order"}).
            AddRow(1, "A", 1, 20, "3,7,10-12", 1).
            AddRow(1, "B", 1, 15, "", 2).
            AddRow(2, "A", 1, 30, "1", 1))

    out, err := NewEnclosureRepo(db).ActiveEnclosures(context.Background(), "STUDENTS")
    require.NoError(t, err)
    require.Len(t, out, 2)

    assert.Equal(t, "A", out[0].Letter)
    assert.True(t, out[0].Active)
    require.Len(t, out[0].Rows, 2)
    assert.True(t, out[0].Rows[0].Excluded.Has(3))
    assert.True(t, out[0].Rows[0].Excluded.Has(11))
    assert.False(t, out[0].Rows[0].Excluded.Has(4))
    assert.Equal(t, 5, out[0].Rows[0].Excluded.Len())
    assert.Equal(t, 0, out[0].Rows[1].Excluded.Len())

    assert.Equal(t, "M", out[1].Letter)
    assert.Equal(t, "MIXED", out[1].AllocatedFor)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveEnclosuresRejectsMalformedExclusions(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("FROM enclosures").
        WithArgs("STUDENTS").
        WillReturnRows(sqlmock.NewRows([]string{"id", "letter", "allocated_for", "display_order"}).
            AddRow(1, "A", "STUDENTS", 1))
    mock.ExpectQuery("FROM enclosure_rows").
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{"enclosure_id", "letter", "start_seat", "end_seat", "reserved_seats", "display_order"}).
            AddRow(1, "A", 1, 20, "5-x", 1))

    _, err = NewEnclosureRepo(db).ActiveEnclosures(context.Background(), "STUDENTS")
    assert.Error(t, err)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveEnclosuresEmpty(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("FROM enclosures").
        WithArgs("VIP").
        WillReturnRows(sqlmock.NewRows([]string{"id", "letter", "allocated_for", "display_order"}))

    out, err := NewEnclosureRepo(db).ActiveEnclosures(context.Background(), "VIP")
    require.NoError(t, err)
    assert.Empty(t, out)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRefusedWhileAllocated(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
    cols := []string{"id", "letter", "allocated_for", "total_seats", "display_order", "is_active", "created_at", "updated_at"}
    mock.ExpectQuery("FROM enclosures WHERE letter = \\?").
        WithArgs("A").
        WillReturnRows(sqlmock.NewRows(cols).
            AddRow(1, "A", "STUDENTS", 100, 1, true, now, now))
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM seat_allocations").
        WithArgs("A").
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

    err = NewEnclosureRepo(db).Delete(context.Background(), "A")
    assert.ErrorIs(t, err, ErrConflict)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingEnclosure(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("FROM enclosures WHERE letter = \\?").
        WithArgs("Z").
        WillReturnRows(sqlmock.NewRows([]string{"id", "letter", "allocated_for", "total_seats", "display_order", "is_active", "created_at", "updated_at"}))

    err = NewEnclosureRepo(db).Delete(context.Background(), "Z")
    assert.ErrorIs(t, err, ErrEnclosureNotFound)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRowsBulkValidatesExclusions(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    err = NewEnclosureRepo(db).CreateRowsBulk(context.Background(), 1, []model.Row{
        {Letter: "A", StartSeat: 1, EndSeat: 10, ReservedSeats: "12-10"},
    })
    assert.Error(t, err, "inverted range must be rejected before any insert")
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRowsBulkInsertsAll(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectExec("INSERT INTO enclosure_rows").
        WithArgs(
            uint64(1), "A", uint32(1), uint32(10), "", uint32(1),
            uint64(1), "B", uint32(1), uint32(8), "2,3", uint32(2),
        ).
        WillReturnResult(sqlmock.NewResult(1, 2))

    err = NewEnclosureRepo(db).CreateRowsBulk(context.Background(), 1, []model.Row{
        {Letter: "A", StartSeat: 1, EndSeat: 10, ReservedSeats: "", DisplayOrder: 1},
        {Letter: "B", StartSeat: 1, EndSeat: 8, ReservedSeats: "2,3", DisplayOrder: 2},
    })
    require.NoError(t, err)
    require.NoError(t, mock.ExpectationsWereMet())
}
