// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatAllocatedEvent is published after a seat allocation commits. It
// carries enough information for downstream consumers (attendance
// analytics, notification mailers) to act without querying the primary
// database.
type SeatAllocatedEvent struct {
    AttendeeID      uint64 `json:"attendee_id"`
    Category        string `json:"category"`
    EnclosureLetter string `json:"enclosure_letter"`
    RowLetter       string `json:"row_letter"`
    SeatNumber      uint32 `json:"seat_number"`
    AllocatedAt     string `json:"allocated_at"`
}
