package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/gradhall/convocation-seating/internal/allocator"
    "github.com/gradhall/convocation-seating/internal/model"
)

// AllocationRepo provides data access to the seat_allocations table,
// the authoritative ledger of committed attendee→seat assignments.
// Two unique keys enforce the core invariants at the storage level:
// uq_alloc_attendee on attendee_id and uq_alloc_seat on the
// (enclosure_letter, row_letter, seat_number) triple. InsertAllocationTx
// translates violations of those keys into the engine's verdicts, which
// is what makes the coordinator's optimistic retry loop safe.
type AllocationRepo struct {
    db *sql.DB
}

// NewAllocationRepo returns a new AllocationRepo bound to the provided database.
func NewAllocationRepo(db *sql.DB) *AllocationRepo { return &AllocationRepo{db: db} }

// AllocationByAttendee returns the attendee's committed allocation, or
// (nil, nil) when the attendee is unseated.
func (r *AllocationRepo) AllocationByAttendee(ctx context.Context, attendeeID uint64) (*model.SeatAllocation, error) {
    const q = `SELECT id, attendee_id, enclosure_letter, row_letter, seat_number, allocated_at
               FROM seat_allocations WHERE attendee_id = ?`
    var a model.SeatAllocation
    err := r.db.QueryRowContext(ctx, q, attendeeID).Scan(
        &a.ID, &a.AttendeeID, &a.EnclosureLetter, &a.RowLetter, &a.SeatNumber, &a.AllocatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, nil
        }
        return nil, err
    }
    return &a, nil
}

// occupiedQuery is the union of both ledgers scoped to one enclosure.
// Allocations and holds are indistinguishable to the selector; either
// makes the seat unavailable.
const occupiedQuery = `SELECT enclosure_letter, row_letter, seat_number
                       FROM seat_allocations WHERE enclosure_letter = ?
                       UNION ALL
                       SELECT enclosure_letter, row_letter, seat_number
                       FROM seat_reservations WHERE enclosure_letter = ?`

// OccupiedTx returns the occupied set for one enclosure within the
// provided transaction: every seat covered by a committed allocation
// or an active administrative hold.
func (r *AllocationRepo) OccupiedTx(ctx context.Context, tx *sql.Tx, enclosureLetter string) (map[allocator.Seat]struct{}, error) {
    rows, err := tx.QueryContext(ctx, occupiedQuery, enclosureLetter, enclosureLetter)
    if err != nil {
        return nil, err
    }
    return scanOccupied(rows)
}

// Occupied is the non-transactional variant used by availability reads.
func (r *AllocationRepo) Occupied(ctx context.Context, enclosureLetter string) (map[allocator.Seat]struct{}, error) {
    rows, err := r.db.QueryContext(ctx, occupiedQuery, enclosureLetter, enclosureLetter)
    if err != nil {
        return nil, err
    }
    return scanOccupied(rows)
}

func scanOccupied(rows *sql.Rows) (map[allocator.Seat]struct{}, error) {
    defer rows.Close()
    occupied := make(map[allocator.Seat]struct{})
    for rows.Next() {
        var s allocator.Seat
        if err := rows.Scan(&s.Enclosure, &s.Row, &s.Number); err != nil {
            return nil, err
        }
        occupied[s] = struct{}{}
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return occupied, nil
}

// InsertAllocationTx claims the seat in seat_claims and inserts the
// allocation within the provided transaction, populating the generated
// ID and allocated_at on the record. A duplicate on the shared claim
// key maps to allocator.ErrSeatTaken (another writer, allocation or
// hold, won the seat; retry with a fresh snapshot), a duplicate on the
// attendee key maps to allocator.ErrAlreadyAllocated (a concurrent
// request seated this attendee).
func (r *AllocationRepo) InsertAllocationTx(ctx context.Context, tx *sql.Tx, alloc *model.SeatAllocation) error {
    if err := claimSeatTx(ctx, tx, alloc.EnclosureLetter, alloc.RowLetter, alloc.SeatNumber); err != nil {
        return err
    }
    const q = `INSERT INTO seat_allocations (attendee_id, enclosure_letter, row_letter, seat_number)
               VALUES (?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q, alloc.AttendeeID, alloc.EnclosureLetter, alloc.RowLetter, alloc.SeatNumber)
    if err != nil {
        if isDuplicateKey(err, keyAllocSeat) {
            return allocator.ErrSeatTaken
        }
        if isDuplicateKey(err, keyAllocAttendee) {
            return allocator.ErrAlreadyAllocated
        }
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    alloc.ID = uint64(id)
    // Query back the allocated_at default so the caller returns the
    // committed record, not a partially filled one.
    const sel = `SELECT allocated_at FROM seat_allocations WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, alloc.ID).Scan(&alloc.AllocatedAt)
}

// DeleteAllocationByAttendeeTx removes the attendee's allocation and
// its seat claim within the provided transaction. It reports whether a
// row existed. Used by the re-allocation path; deletion and re-insert
// share one transaction so the uniqueness constraints never
// transiently overlap.
func (r *AllocationRepo) DeleteAllocationByAttendeeTx(ctx context.Context, tx *sql.Tx, attendeeID uint64) (bool, error) {
    const sel = `SELECT enclosure_letter, row_letter, seat_number
                 FROM seat_allocations WHERE attendee_id = ?`
    var enclosure, row string
    var seat uint32
    err := tx.QueryRowContext(ctx, sel, attendeeID).Scan(&enclosure, &row, &seat)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return false, nil
        }
        return false, err
    }
    if err := unclaimSeatTx(ctx, tx, enclosure, row, seat); err != nil {
        return false, err
    }
    if _, err := tx.ExecContext(ctx, `DELETE FROM seat_allocations WHERE attendee_id = ?`, attendeeID); err != nil {
        return false, err
    }
    return true, nil
}

// CountByEnclosure returns the number of committed allocations inside
// one enclosure. Used by availability reads and by the enclosure
// delete guard.
func (r *AllocationRepo) CountByEnclosure(ctx context.Context, enclosureLetter string) (uint32, error) {
    var n uint32
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM seat_allocations WHERE enclosure_letter = ?`, enclosureLetter,
    ).Scan(&n)
    return n, err
}
