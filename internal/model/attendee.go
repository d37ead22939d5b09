package model

import "time"

// Attendee mirrors the externally owned attendees table.  This service
// only reads category and eligibility and writes assigned_enclosure as
// a denormalized cache inside the allocation commit transaction.  The
// cache is never consulted for capacity decisions; seat_allocations is
// the source of truth.
//
// Fields:
//  ID                – primary key identifier.
//  Category          – seating category of the attendee.
//  IsEligible        – computed upstream; ineligible attendees are
//                      rejected before any seat is considered.
//  AssignedEnclosure – cached enclosure letter of the committed
//                      allocation, nil while unseated.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Attendee struct {
    ID                uint64    // attendees.id
    Category          string    // attendees.category
    IsEligible        bool      // attendees.is_eligible
    AssignedEnclosure *string   // attendees.assigned_enclosure (nullable)
    CreatedAt         time.Time // attendees.created_at
    UpdatedAt         time.Time // attendees.updated_at
}
