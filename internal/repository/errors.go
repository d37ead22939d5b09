// Package repository provides MySQL-backed implementations of the
// engine's store interfaces plus the administrative topology CRUD.
// Sentinel errors defined here let handlers distinguish failure
// scenarios; engine-facing verdicts (seat taken, already allocated,
// not eligible) reuse the allocator package's errors so the
// coordinator can match them with errors.Is.
package repository

import (
    "errors"
    "strings"

    "github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when a delete cannot proceed because of
// dependent records, such as removing an enclosure that still has
// committed allocations. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEnclosureNotFound is returned when an enclosure lookup by letter
// yields no row.
var ErrEnclosureNotFound = errors.New("enclosure not found")

// ErrRowNotFound is returned when a row lookup yields no row.
var ErrRowNotFound = errors.New("row not found")

// Unique key names from the schema. The commit protocol leans on
// these: the duplicate-key error tells us which invariant fired.
const (
    keyClaimSeat     = "uq_claim_seat"     // seat_claims(enclosure_letter, row_letter, seat_number), shared by both ledgers
    keyAllocAttendee = "uq_alloc_attendee" // seat_allocations(attendee_id)
    keyAllocSeat     = "uq_alloc_seat"     // seat_allocations(enclosure_letter, row_letter, seat_number)
    keyResvSeat      = "uq_resv_seat"      // seat_reservations(enclosure_letter, row_letter, seat_number)
)

// isDuplicateKey reports whether err is a MySQL duplicate-entry
// violation (error 1062) on a unique key whose name contains keyName.
// An empty keyName matches any duplicate-entry error.
func isDuplicateKey(err error, keyName string) bool {
    var me *mysql.MySQLError
    if !errors.As(err, &me) || me.Number != 1062 {
        return false
    }
    return keyName == "" || strings.Contains(me.Message, keyName)
}
