package model

import "time"

// Enclosure represents a seating zone of the convocation venue.  Each
// enclosure is dedicated to one attendee category (or MIXED) and owns
// an ordered set of rows.  Enclosures are configuration data mutated
// only through the administrative endpoints.
//
// Fields:
//  ID           – primary key identifier.
//  Letter       – unique human-facing zone letter (e.g. "A").
//  AllocatedFor – category served by this enclosure (STUDENTS, FACULTY,
//                 STAFF, GUESTS, VIP or MIXED).
//  TotalSeats   – declared capacity of the enclosure.
//  DisplayOrder – allocation priority among enclosures of the same
//                 category; lower numbers fill first.
//  IsActive     – inactive enclosures are never allocation targets.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Enclosure struct {
    ID           uint64    // enclosures.id
    Letter       string    // enclosures.letter
    AllocatedFor string    // enclosures.allocated_for
    TotalSeats   uint32    // enclosures.total_seats
    DisplayOrder uint32    // enclosures.display_order
    IsActive     bool      // enclosures.is_active
    CreatedAt    time.Time // enclosures.created_at
    UpdatedAt    time.Time // enclosures.updated_at
}
