package model

import "time"

// SeatAllocation is a committed attendee→seat assignment.  Two unique
// keys guard the table: one on attendee_id (an attendee is never
// double-seated) and one on the (enclosure_letter, row_letter,
// seat_number) triple (a seat is never double-booked).  Rows are
// created exactly once per attendee by the allocation coordinator and
// never mutated in place; re-allocation is delete-then-create.
//
// Fields:
//  ID              – primary key identifier.
//  AttendeeID      – attendee receiving the seat (unique).
//  EnclosureLetter – letter of the assigned enclosure.
//  RowLetter       – letter of the assigned row.
//  SeatNumber      – seat number within the row.
//  AllocatedAt     – commit timestamp.
type SeatAllocation struct {
    ID              uint64    // seat_allocations.id
    AttendeeID      uint64    // seat_allocations.attendee_id
    EnclosureLetter string    // seat_allocations.enclosure_letter
    RowLetter       string    // seat_allocations.row_letter
    SeatNumber      uint32    // seat_allocations.seat_number
    AllocatedAt     time.Time // seat_allocations.allocated_at
}
