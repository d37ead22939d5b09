package model

import "time"

// SeatReservation is an administrative hold on a seat, independent of
// any attendee.  Held seats are excluded from general allocation until
// the hold is released.  ReservedFor and ReservedBy are free-form
// labels, not foreign keys.  The same compound unique key as
// seat_allocations applies to the seat triple.
//
// Fields:
//  ID              – primary key identifier.
//  EnclosureLetter – letter of the held enclosure.
//  RowLetter       – letter of the held row.
//  SeatNumber      – held seat number.
//  ReservedFor     – optional label naming the beneficiary.
//  ReservedBy      – optional label naming the administrator.
//  CreatedAt       – creation timestamp.
type SeatReservation struct {
    ID              uint64    // seat_reservations.id
    EnclosureLetter string    // seat_reservations.enclosure_letter
    RowLetter       string    // seat_reservations.row_letter
    SeatNumber      uint32    // seat_reservations.seat_number
    ReservedFor     *string   // seat_reservations.reserved_for (nullable)
    ReservedBy      *string   // seat_reservations.reserved_by (nullable)
    CreatedAt       time.Time // seat_reservations.created_at
}
