package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/gradhall/convocation-seating/internal/allocator"
    "github.com/gradhall/convocation-seating/internal/model"
)

// AttendeeRepo reads the externally owned attendees table and writes
// the assigned_enclosure cache column. Eligibility is computed
// upstream; this repo only consumes the flag.
type AttendeeRepo struct {
    db *sql.DB
}

// NewAttendeeRepo returns a new AttendeeRepo bound to the provided database.
func NewAttendeeRepo(db *sql.DB) *AttendeeRepo { return &AttendeeRepo{db: db} }

// Category returns the attendee's seating category. A missing row, an
// unset eligibility flag or an invalid category all surface as
// allocator.ErrNotEligible; the engine does not distinguish between
// them.
func (r *AttendeeRepo) Category(ctx context.Context, attendeeID uint64) (string, error) {
    const q = `SELECT category, is_eligible FROM attendees WHERE id = ?`
    var category string
    var eligible bool
    err := r.db.QueryRowContext(ctx, q, attendeeID).Scan(&category, &eligible)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return "", allocator.ErrNotEligible
        }
        return "", err
    }
    if !eligible || !model.ValidAttendeeCategory(category) {
        return "", allocator.ErrNotEligible
    }
    return category, nil
}

// SetAssignedEnclosureTx stamps the denormalized assigned_enclosure
// cache within the provided transaction. It runs in the same
// transaction as the allocation insert so the cache and the ledger can
// never disagree.
func (r *AttendeeRepo) SetAssignedEnclosureTx(ctx context.Context, tx *sql.Tx, attendeeID uint64, letter string) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE attendees SET assigned_enclosure = ? WHERE id = ?`, letter, attendeeID)
    return err
}

// ClearAssignedEnclosureTx resets the cache within the provided
// transaction; used by the re-allocation delete step.
func (r *AttendeeRepo) ClearAssignedEnclosureTx(ctx context.Context, tx *sql.Tx, attendeeID uint64) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE attendees SET assigned_enclosure = NULL WHERE id = ?`, attendeeID)
    return err
}
