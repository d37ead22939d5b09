package allocator

import (
    "context"
    "database/sql"

    "github.com/gradhall/convocation-seating/internal/model"
)

// TopologyStore is the read-only view of enclosures and rows.  The
// returned topology carries decoded exclusion sets; implementations
// scope the query to enclosures that can serve the category (exact
// match or MIXED).
type TopologyStore interface {
    ActiveEnclosures(ctx context.Context, category string) ([]Enclosure, error)
}

// AllocationLedger is the authoritative set of committed seat
// assignments.  OccupiedTx returns the union of both ledgers
// (allocations and reservations) for one enclosure, which is the
// occupied set the selector excludes.  InsertAllocationTx claims the
// seat on the shared uniqueness surface covering both ledgers and must
// surface conflicts as ErrSeatTaken or ErrAlreadyAllocated so the
// coordinator can retry or short-circuit.
type AllocationLedger interface {
    AllocationByAttendee(ctx context.Context, attendeeID uint64) (*model.SeatAllocation, error)
    OccupiedTx(ctx context.Context, tx *sql.Tx, enclosureLetter string) (map[Seat]struct{}, error)
    InsertAllocationTx(ctx context.Context, tx *sql.Tx, alloc *model.SeatAllocation) error
    DeleteAllocationByAttendeeTx(ctx context.Context, tx *sql.Tx, attendeeID uint64) (bool, error)
}

// ReservationLedger holds administrative seat holds.  Inserts must
// surface seat-claim conflicts as ErrSeatTaken; deletes release the
// seat claim together with the hold.
type ReservationLedger interface {
    InsertReservationTx(ctx context.Context, tx *sql.Tx, res *model.SeatReservation) error
    DeleteReservationTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error)
}

// AttendeeStore exposes the externally owned attendee record: the
// category lookup used to pick an enclosure and the write-through
// assigned-enclosure cache stamped inside the commit transaction.
type AttendeeStore interface {
    Category(ctx context.Context, attendeeID uint64) (string, error)
    SetAssignedEnclosureTx(ctx context.Context, tx *sql.Tx, attendeeID uint64, letter string) error
    ClearAssignedEnclosureTx(ctx context.Context, tx *sql.Tx, attendeeID uint64) error
}

// TxRunner provides the atomic multi-write boundary.  The function
// either commits in full or rolls back in full; a non-nil error from
// fn always rolls back.
type TxRunner interface {
    WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}
