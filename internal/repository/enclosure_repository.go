package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"

    "github.com/gradhall/convocation-seating/internal/allocator"
    "github.com/gradhall/convocation-seating/internal/model"
    "github.com/gradhall/convocation-seating/internal/seatset"
)

// EnclosureRepo provides the topology read model consumed by the
// engine and the administrative CRUD for enclosures and rows.  Reads
// decode each row's reserved_seats string into a seatset.Set at this
// boundary; the encoded form never leaves the repository.
type EnclosureRepo struct {
    db *sql.DB
}

// NewEnclosureRepo returns a new EnclosureRepo bound to the provided database.
func NewEnclosureRepo(db *sql.DB) *EnclosureRepo { return &EnclosureRepo{db: db} }

// ActiveEnclosures returns the topology of every active enclosure that
// can serve the category (exact match or MIXED), ordered by display
// order then letter.  Rows are fetched for all matched enclosures in a
// single query and attached in display order.
func (r *EnclosureRepo) ActiveEnclosures(ctx context.Context, category string) ([]allocator.Enclosure, error) {
    const q = `SELECT id, letter, allocated_for, display_order
               FROM enclosures
               WHERE is_active = 1 AND allocated_for IN (?, 'MIXED')
               ORDER BY display_order, letter`
    rows, err := r.db.QueryContext(ctx, q, category)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []allocator.Enclosure
    var ids []uint64
    index := make(map[uint64]int)
    for rows.Next() {
        var id uint64
        var enc allocator.Enclosure
        if err := rows.Scan(&id, &enc.Letter, &enc.AllocatedFor, &enc.DisplayOrder); err != nil {
            return nil, err
        }
        enc.Active = true
        index[id] = len(out)
        out = append(out, enc)
        ids = append(ids, id)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(out) == 0 {
        return []allocator.Enclosure{}, nil
    }

    // Fetch rows for all matched enclosures in one query.
    placeholders := make([]string, len(ids))
    args := make([]interface{}, len(ids))
    for i, id := range ids {
        placeholders[i] = "?"
        args[i] = id
    }
    rowQ := `SELECT enclosure_id, letter, start_seat, end_seat, reserved_seats, display_order
             FROM enclosure_rows
             WHERE enclosure_id IN (` + strings.Join(placeholders, ",") + `)
             ORDER BY enclosure_id, display_order, letter`
    rrows, err := r.db.QueryContext(ctx, rowQ, args...)
    if err != nil {
        return nil, err
    }
    defer rrows.Close()
    for rrows.Next() {
        var encID uint64
        var row allocator.Row
        var encoded string
        if err := rrows.Scan(&encID, &row.Letter, &row.StartSeat, &row.EndSeat, &encoded, &row.DisplayOrder); err != nil {
            return nil, err
        }
        excluded, err := seatset.Parse(encoded)
        if err != nil {
            return nil, fmt.Errorf("enclosure %d row %s: %w", encID, row.Letter, err)
        }
        row.Excluded = excluded
        idx, ok := index[encID]
        if !ok {
            continue
        }
        out[idx].Rows = append(out[idx].Rows, row)
    }
    if err := rrows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// TopologyByLetter returns the topology of a single enclosure,
// including inactive ones, for availability views.
func (r *EnclosureRepo) TopologyByLetter(ctx context.Context, letter string) (*allocator.Enclosure, error) {
    const q = `SELECT id, letter, allocated_for, display_order, is_active
               FROM enclosures WHERE letter = ?`
    var id uint64
    var enc allocator.Enclosure
    err := r.db.QueryRowContext(ctx, q, letter).Scan(&id, &enc.Letter, &enc.AllocatedFor, &enc.DisplayOrder, &enc.Active)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrEnclosureNotFound
        }
        return nil, err
    }
    const rowQ = `SELECT letter, start_seat, end_seat, reserved_seats, display_order
                  FROM enclosure_rows
                  WHERE enclosure_id = ?
                  ORDER BY display_order, letter`
    rows, err := r.db.QueryContext(ctx, rowQ, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var row allocator.Row
        var encoded string
        if err := rows.Scan(&row.Letter, &row.StartSeat, &row.EndSeat, &encoded, &row.DisplayOrder); err != nil {
            return nil, err
        }
        excluded, err := seatset.Parse(encoded)
        if err != nil {
            return nil, fmt.Errorf("enclosure %s row %s: %w", enc.Letter, row.Letter, err)
        }
        row.Excluded = excluded
        enc.Rows = append(enc.Rows, row)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return &enc, nil
}

// GetByLetter returns the enclosure record without rows.
func (r *EnclosureRepo) GetByLetter(ctx context.Context, letter string) (*model.Enclosure, error) {
    const q = `SELECT id, letter, allocated_for, total_seats, display_order, is_active, created_at, updated_at
               FROM enclosures WHERE letter = ?`
    var e model.Enclosure
    err := r.db.QueryRowContext(ctx, q, letter).Scan(
        &e.ID, &e.Letter, &e.AllocatedFor, &e.TotalSeats, &e.DisplayOrder, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrEnclosureNotFound
        }
        return nil, err
    }
    return &e, nil
}

// ListAll returns every enclosure ordered by display order then letter.
func (r *EnclosureRepo) ListAll(ctx context.Context) ([]model.Enclosure, error) {
    const q = `SELECT id, letter, allocated_for, total_seats, display_order, is_active, created_at, updated_at
               FROM enclosures ORDER BY display_order, letter`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Enclosure, 0)
    for rows.Next() {
        var e model.Enclosure
        if err := rows.Scan(
            &e.ID, &e.Letter, &e.AllocatedFor, &e.TotalSeats, &e.DisplayOrder, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Create inserts a new enclosure. On success the generated ID is
// populated. A duplicate letter maps to ErrConflict.
func (r *EnclosureRepo) Create(ctx context.Context, e *model.Enclosure) error {
    const q = `INSERT INTO enclosures (letter, allocated_for, total_seats, display_order, is_active)
               VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, e.Letter, e.AllocatedFor, e.TotalSeats, e.DisplayOrder, e.IsActive)
    if err != nil {
        if isDuplicateKey(err, "") {
            return ErrConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    e.ID = uint64(id)
    return nil
}

// Update rewrites the mutable enclosure fields by letter.
func (r *EnclosureRepo) Update(ctx context.Context, e *model.Enclosure) error {
    const q = `UPDATE enclosures SET allocated_for = ?, total_seats = ?, display_order = ?, is_active = ?
               WHERE letter = ?`
    res, err := r.db.ExecContext(ctx, q, e.AllocatedFor, e.TotalSeats, e.DisplayOrder, e.IsActive, e.Letter)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // RowsAffected is 0 both for a missing letter and for a no-op
        // update; distinguish with an existence probe.
        if _, err := r.GetByLetter(ctx, e.Letter); err != nil {
            return err
        }
    }
    return nil
}

// Delete removes an enclosure and its rows. Deletion is refused with
// ErrConflict while committed allocations exist for the letter, so a
// misconfigured delete cannot orphan seated attendees.
func (r *EnclosureRepo) Delete(ctx context.Context, letter string) error {
    enc, err := r.GetByLetter(ctx, letter)
    if err != nil {
        return err
    }
    var allocated uint32
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM seat_allocations WHERE enclosure_letter = ?`, letter,
    ).Scan(&allocated); err != nil {
        return err
    }
    if allocated > 0 {
        return ErrConflict
    }
    if _, err := r.db.ExecContext(ctx, `DELETE FROM enclosure_rows WHERE enclosure_id = ?`, enc.ID); err != nil {
        return err
    }
    _, err = r.db.ExecContext(ctx, `DELETE FROM enclosures WHERE id = ?`, enc.ID)
    return err
}

// CreateRowsBulk inserts multiple rows for one enclosure in a single
// statement. Each row's ReservedSeats string is validated before the
// insert so a malformed exclusion list never reaches the table.
// Passing an empty slice has no effect and returns nil.
func (r *EnclosureRepo) CreateRowsBulk(ctx context.Context, enclosureID uint64, rows []model.Row) error {
    if len(rows) == 0 {
        return nil
    }
    for _, row := range rows {
        if _, err := seatset.Parse(row.ReservedSeats); err != nil {
            return fmt.Errorf("row %s: %w", row.Letter, err)
        }
    }
    query := `INSERT INTO enclosure_rows (enclosure_id, letter, start_seat, end_seat, reserved_seats, display_order) VALUES `
    args := make([]interface{}, 0, len(rows)*6)
    for i, row := range rows {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?, ?)"
        args = append(args, enclosureID, row.Letter, row.StartSeat, row.EndSeat, row.ReservedSeats, row.DisplayOrder)
    }
    _, err := r.db.ExecContext(ctx, query, args...)
    if err != nil && isDuplicateKey(err, "") {
        return ErrConflict
    }
    return err
}

// DeleteRow removes one row of an enclosure by letter.
func (r *EnclosureRepo) DeleteRow(ctx context.Context, enclosureID uint64, rowLetter string) error {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM enclosure_rows WHERE enclosure_id = ? AND letter = ?`, enclosureID, rowLetter)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrRowNotFound
    }
    return nil
}
