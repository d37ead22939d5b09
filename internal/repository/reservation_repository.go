package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/gradhall/convocation-seating/internal/allocator"
    "github.com/gradhall/convocation-seating/internal/model"
)

// ReservationRepo provides data access to the seat_reservations table:
// administrative holds that exclude seats from general allocation
// until released. The compound unique key uq_resv_seat mirrors the
// allocation ledger's seat key, so a double hold fails atomically just
// like a double booking.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the provided database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// InsertReservationTx claims the seat in seat_claims and inserts the
// hold within the provided transaction, populating the generated ID
// and created_at. A duplicate on the shared claim key means the seat
// is already held or allocated and maps to allocator.ErrSeatTaken.
func (r *ReservationRepo) InsertReservationTx(ctx context.Context, tx *sql.Tx, res *model.SeatReservation) error {
    if err := claimSeatTx(ctx, tx, res.EnclosureLetter, res.RowLetter, res.SeatNumber); err != nil {
        return err
    }
    const q = `INSERT INTO seat_reservations (enclosure_letter, row_letter, seat_number, reserved_for, reserved_by)
               VALUES (?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q, res.EnclosureLetter, res.RowLetter, res.SeatNumber, res.ReservedFor, res.ReservedBy)
    if err != nil {
        if isDuplicateKey(err, keyResvSeat) {
            return allocator.ErrSeatTaken
        }
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    const sel = `SELECT created_at FROM seat_reservations WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

// DeleteReservationTx releases a hold by id within the provided
// transaction, removing the seat claim with it, and reports whether
// the hold existed.
func (r *ReservationRepo) DeleteReservationTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
    const sel = `SELECT enclosure_letter, row_letter, seat_number
                 FROM seat_reservations WHERE id = ?`
    var enclosure, row string
    var seat uint32
    err := tx.QueryRowContext(ctx, sel, id).Scan(&enclosure, &row, &seat)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return false, nil
        }
        return false, err
    }
    if err := unclaimSeatTx(ctx, tx, enclosure, row, seat); err != nil {
        return false, err
    }
    if _, err := tx.ExecContext(ctx, `DELETE FROM seat_reservations WHERE id = ?`, id); err != nil {
        return false, err
    }
    return true, nil
}

// GetByID returns a single reservation.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.SeatReservation, error) {
    const q = `SELECT id, enclosure_letter, row_letter, seat_number, reserved_for, reserved_by, created_at
               FROM seat_reservations WHERE id = ?`
    var res model.SeatReservation
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &res.ID, &res.EnclosureLetter, &res.RowLetter, &res.SeatNumber,
        &res.ReservedFor, &res.ReservedBy, &res.CreatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, allocator.ErrReservationNotFound
        }
        return nil, err
    }
    return &res, nil
}

// ListByEnclosure returns all holds inside one enclosure ordered by
// row letter then seat number for deterministic output.
func (r *ReservationRepo) ListByEnclosure(ctx context.Context, enclosureLetter string) ([]model.SeatReservation, error) {
    const q = `SELECT id, enclosure_letter, row_letter, seat_number, reserved_for, reserved_by, created_at
               FROM seat_reservations
               WHERE enclosure_letter = ?
               ORDER BY row_letter, seat_number`
    rows, err := r.db.QueryContext(ctx, q, enclosureLetter)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.SeatReservation, 0)
    for rows.Next() {
        var res model.SeatReservation
        if err := rows.Scan(
            &res.ID, &res.EnclosureLetter, &res.RowLetter, &res.SeatNumber,
            &res.ReservedFor, &res.ReservedBy, &res.CreatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
