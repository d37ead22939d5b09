package repository

import (
    "context"
    "database/sql"

    "github.com/gradhall/convocation-seating/internal/allocator"
)

// seat_claims is the shared uniqueness surface over the physical seat.
// Both ledgers insert the triple here before their own row, so
// uq_claim_seat arbitrates every seat across allocations and holds;
// the losing transaction rolls back whole.

// claimSeatTx claims the seat triple within the provided transaction.
// A duplicate on the claim key means the seat is owned by either
// ledger and maps to allocator.ErrSeatTaken.
func claimSeatTx(ctx context.Context, tx *sql.Tx, enclosureLetter, rowLetter string, seatNumber uint32) error {
    const q = `INSERT INTO seat_claims (enclosure_letter, row_letter, seat_number)
               VALUES (?, ?, ?)`
    _, err := tx.ExecContext(ctx, q, enclosureLetter, rowLetter, seatNumber)
    if err != nil && isDuplicateKey(err, keyClaimSeat) {
        return allocator.ErrSeatTaken
    }
    return err
}

// unclaimSeatTx releases the claim within the provided transaction.
// Runs alongside the owning ledger row's delete so the claim can never
// outlive or predecease its record.
func unclaimSeatTx(ctx context.Context, tx *sql.Tx, enclosureLetter, rowLetter string, seatNumber uint32) error {
    const q = `DELETE FROM seat_claims
               WHERE enclosure_letter = ? AND row_letter = ? AND seat_number = ?`
    _, err := tx.ExecContext(ctx, q, enclosureLetter, rowLetter, seatNumber)
    return err
}
