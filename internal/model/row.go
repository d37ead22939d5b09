package model

import "time"

// Row is a contiguous seat-number interval within an enclosure.  Rows
// are identified by the (enclosure, letter) pair and carry their own
// exclusion list for seats that can never be allocated (broken seats,
// column obstructions).  ReservedSeats holds the encoded form exactly
// as stored; it is decoded into a seatset.Set at the topology read
// boundary and the encoded string never reaches the selector.
//
// Fields:
//  ID            – primary key identifier.
//  EnclosureID   – enclosure owning this row.
//  Letter        – row letter, unique within the enclosure.
//  StartSeat     – first seat number of the interval (inclusive).
//  EndSeat       – last seat number of the interval (inclusive).
//  ReservedSeats – encoded excluded seat numbers ("3,7,10-12").
//  DisplayOrder  – allocation priority within the enclosure.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Row struct {
    ID            uint64    // enclosure_rows.id
    EnclosureID   uint64    // enclosure_rows.enclosure_id
    Letter        string    // enclosure_rows.letter
    StartSeat     uint32    // enclosure_rows.start_seat
    EndSeat       uint32    // enclosure_rows.end_seat
    ReservedSeats string    // enclosure_rows.reserved_seats (encoded)
    DisplayOrder  uint32    // enclosure_rows.display_order
    CreatedAt     time.Time // enclosure_rows.created_at
    UpdatedAt     time.Time // enclosure_rows.updated_at
}
