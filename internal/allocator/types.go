// Package allocator implements the seat allocation engine: a pure,
// deterministic seat selector and a coordinator that commits
// allocations optimistically, relying on the storage layer's unique
// keys instead of application-level locks.
package allocator

import (
    "github.com/gradhall/convocation-seating/internal/seatset"
)

// Seat identifies a physical seat by enclosure letter, row letter and
// seat number.  It is comparable and used as the key of occupied sets.
type Seat struct {
    Enclosure string // enclosure letter
    Row       string // row letter
    Number    uint32 // seat number within the row
}

// Row is the topology view of one row: the seat interval it covers,
// the already-decoded exclusion set and its priority within the
// enclosure.
type Row struct {
    Letter       string
    StartSeat    uint32
    EndSeat      uint32
    Excluded     seatset.Set
    DisplayOrder uint32
}

// Enclosure is the topology view of one seating zone with its rows.
// The selector filters on Active and AllocatedFor; the stores that
// produce Enclosure values usually pre-filter, but the selector does
// not rely on that.
type Enclosure struct {
    Letter       string
    AllocatedFor string
    Active       bool
    DisplayOrder uint32
    Rows         []Row
}
