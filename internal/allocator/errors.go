package allocator

import "errors"

// Engine error taxonomy.  All are terminal for the current call; the
// caller may resubmit after Contention.  Storage failures are not
// wrapped into these and propagate unmodified.
var (
    // ErrCapacityExhausted means no active enclosure matching the
    // attendee's category has a free seat left.
    ErrCapacityExhausted = errors.New("no free seat for category")

    // ErrContention means the retry budget ran out because concurrent
    // requests kept winning the candidate seats first.
    ErrContention = errors.New("allocation retry budget exhausted")

    // ErrNotEligible means the attendee is unknown, flagged ineligible
    // or carries an invalid category.
    ErrNotEligible = errors.New("attendee not eligible")

    // ErrSeatTaken is the storage-level uniqueness verdict: the seat
    // triple is already present in one of the two ledgers.
    ErrSeatTaken = errors.New("seat already taken")

    // ErrAlreadyAllocated is the storage-level verdict on the attendee
    // unique key: a concurrent request seated this attendee first.
    ErrAlreadyAllocated = errors.New("attendee already allocated")

    // ErrAllocationNotFound is returned by lookups and re-allocation
    // when the attendee has no committed seat.
    ErrAllocationNotFound = errors.New("allocation not found")

    // ErrReservationNotFound is returned by Release for an unknown
    // reservation id.
    ErrReservationNotFound = errors.New("reservation not found")
)
