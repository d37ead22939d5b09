package allocator

import (
    "context"
    "database/sql"
    "errors"

    "github.com/gradhall/convocation-seating/internal/model"
)

// DefaultMaxRetries bounds the optimistic commit loop.  Each retry
// re-reads a fresh ledger snapshot, so later attempts see everything
// committed before them; when the budget runs out the call fails with
// ErrContention instead of looping forever.
const DefaultMaxRetries = 5

// Coordinator is the only component with write authority over the two
// ledgers.  It orchestrates the selector against snapshot reads and
// commits through the storage layer's unique keys; there is no
// in-process seat locking.
type Coordinator struct {
    topology     TopologyStore
    allocations  AllocationLedger
    reservations ReservationLedger
    attendees    AttendeeStore
    runner       TxRunner
    maxRetries   int
}

// New constructs a Coordinator.  maxRetries <= 0 selects
// DefaultMaxRetries.
func New(topology TopologyStore, allocations AllocationLedger, reservations ReservationLedger, attendees AttendeeStore, runner TxRunner, maxRetries int) *Coordinator {
    if topology == nil || allocations == nil || reservations == nil || attendees == nil || runner == nil {
        panic("nil store passed to allocator.New")
    }
    if maxRetries <= 0 {
        maxRetries = DefaultMaxRetries
    }
    return &Coordinator{
        topology:     topology,
        allocations:  allocations,
        reservations: reservations,
        attendees:    attendees,
        runner:       runner,
        maxRetries:   maxRetries,
    }
}

// Allocate assigns the next free seat in canonical order to the
// attendee.  The call is idempotent: an already-seated attendee gets
// their existing allocation back and no second record is created.  The
// returned bool reports whether this call created the allocation; it
// derives from the commit outcome itself, so concurrent first calls
// for the same attendee see exactly one true.  Under contention the
// commit is retried with a fresh snapshot up to the retry budget;
// ErrContention is returned once the budget is spent.  The allocation
// insert and the attendee's assigned-enclosure cache update land in
// the same transaction or not at all.
func (c *Coordinator) Allocate(ctx context.Context, attendeeID uint64) (*model.SeatAllocation, bool, error) {
    existing, err := c.allocations.AllocationByAttendee(ctx, attendeeID)
    if err != nil {
        return nil, false, err
    }
    if existing != nil {
        return existing, false, nil
    }

    category, err := c.attendees.Category(ctx, attendeeID)
    if err != nil {
        return nil, false, err
    }
    enclosures, err := c.topology.ActiveEnclosures(ctx, category)
    if err != nil {
        return nil, false, err
    }

    for attempt := 0; attempt < c.maxRetries; attempt++ {
        alloc, err := c.commit(ctx, attendeeID, category, enclosures, false)
        switch {
        case err == nil:
            return alloc, true, nil
        case errors.Is(err, ErrAlreadyAllocated):
            // A concurrent request for the same attendee won; return
            // its result.  If it vanished again in between, retry.
            winner, lookErr := c.allocations.AllocationByAttendee(ctx, attendeeID)
            if lookErr != nil {
                return nil, false, lookErr
            }
            if winner != nil {
                return winner, false, nil
            }
        case errors.Is(err, ErrSeatTaken):
            // Lost the seat to a concurrent writer; re-snapshot.
        default:
            return nil, false, err
        }
    }
    return nil, false, ErrContention
}

// Reallocate discards the attendee's committed seat and assigns a
// fresh one inside a single transaction (delete-then-create, never an
// in-place change).  On failure the old allocation survives untouched.
// Only administrative callers reach this path.
func (c *Coordinator) Reallocate(ctx context.Context, attendeeID uint64) (*model.SeatAllocation, error) {
    existing, err := c.allocations.AllocationByAttendee(ctx, attendeeID)
    if err != nil {
        return nil, err
    }
    if existing == nil {
        return nil, ErrAllocationNotFound
    }

    category, err := c.attendees.Category(ctx, attendeeID)
    if err != nil {
        return nil, err
    }
    enclosures, err := c.topology.ActiveEnclosures(ctx, category)
    if err != nil {
        return nil, err
    }

    for attempt := 0; attempt < c.maxRetries; attempt++ {
        alloc, err := c.commit(ctx, attendeeID, category, enclosures, true)
        switch {
        case err == nil:
            return alloc, nil
        case errors.Is(err, ErrSeatTaken), errors.Is(err, ErrAlreadyAllocated):
            // Conflict rolled the delete back too; snapshot again.
        default:
            return nil, err
        }
    }
    return nil, ErrContention
}

// commit runs one snapshot-select-insert attempt.  When replace is
// set the attendee's current allocation is removed first within the
// same transaction, so the compound keys never transiently overlap.
func (c *Coordinator) commit(ctx context.Context, attendeeID uint64, category string, enclosures []Enclosure, replace bool) (*model.SeatAllocation, error) {
    var out *model.SeatAllocation
    err := c.runner.WithTx(ctx, func(tx *sql.Tx) error {
        if replace {
            if _, err := c.allocations.DeleteAllocationByAttendeeTx(ctx, tx, attendeeID); err != nil {
                return err
            }
            if err := c.attendees.ClearAssignedEnclosureTx(ctx, tx, attendeeID); err != nil {
                return err
            }
        }
        occupied, err := c.occupiedTx(ctx, tx, enclosures)
        if err != nil {
            return err
        }
        seat, ok := SelectCandidate(category, enclosures, occupied)
        if !ok {
            return ErrCapacityExhausted
        }
        alloc := &model.SeatAllocation{
            AttendeeID:      attendeeID,
            EnclosureLetter: seat.Enclosure,
            RowLetter:       seat.Row,
            SeatNumber:      seat.Number,
        }
        if err := c.allocations.InsertAllocationTx(ctx, tx, alloc); err != nil {
            return err
        }
        if err := c.attendees.SetAssignedEnclosureTx(ctx, tx, attendeeID, seat.Enclosure); err != nil {
            return err
        }
        out = alloc
        return nil
    })
    if err != nil {
        return nil, err
    }
    return out, nil
}

// occupiedTx unions the scoped occupied sets of the candidate
// enclosures.  Queries stay per-enclosure rather than a full-table
// scan; a category rarely spans more than a handful of enclosures.
func (c *Coordinator) occupiedTx(ctx context.Context, tx *sql.Tx, enclosures []Enclosure) (map[Seat]struct{}, error) {
    occupied := make(map[Seat]struct{})
    for _, enc := range enclosures {
        occ, err := c.allocations.OccupiedTx(ctx, tx, enc.Letter)
        if err != nil {
            return nil, err
        }
        for s := range occ {
            occupied[s] = struct{}{}
        }
    }
    return occupied, nil
}

// Hold places an administrative reservation on a specific seat.  A
// seat that is already held or allocated yields ErrSeatTaken: the
// insert claims the same uniqueness surface the allocation path
// claims, so neither path can take a seat the other already owns, no
// matter how the two interleave.  Holds are released only through
// Release, never by the allocation path.
func (c *Coordinator) Hold(ctx context.Context, enclosureLetter, rowLetter string, seatNumber uint32, reservedFor, reservedBy string) (*model.SeatReservation, error) {
    res := &model.SeatReservation{
        EnclosureLetter: enclosureLetter,
        RowLetter:       rowLetter,
        SeatNumber:      seatNumber,
    }
    if reservedFor != "" {
        res.ReservedFor = &reservedFor
    }
    if reservedBy != "" {
        res.ReservedBy = &reservedBy
    }
    err := c.runner.WithTx(ctx, func(tx *sql.Tx) error {
        return c.reservations.InsertReservationTx(ctx, tx, res)
    })
    if err != nil {
        return nil, err
    }
    return res, nil
}

// Release removes an administrative hold by id, freeing its seat claim
// in the same transaction.
func (c *Coordinator) Release(ctx context.Context, reservationID uint64) error {
    found := false
    err := c.runner.WithTx(ctx, func(tx *sql.Tx) error {
        var err error
        found, err = c.reservations.DeleteReservationTx(ctx, tx, reservationID)
        return err
    })
    if err != nil {
        return err
    }
    if !found {
        return ErrReservationNotFound
    }
    return nil
}
