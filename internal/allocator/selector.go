package allocator

import (
    "sort"

    "github.com/gradhall/convocation-seating/internal/model"
)

// SelectCandidate returns the first free seat for the given category in
// canonical order, or false when every matching enclosure is exhausted.
// The function is pure: it never mutates its inputs and two calls with
// the same snapshot return the same seat.
//
// Canonical order is the fairness policy: enclosures by display order
// then letter, rows within an enclosure by display order then letter,
// seats within a row ascending.  Seats in a row's exclusion set and
// seats present in occupied (committed allocations plus active holds)
// are skipped.
func SelectCandidate(category string, enclosures []Enclosure, occupied map[Seat]struct{}) (Seat, bool) {
    eligible := make([]Enclosure, 0, len(enclosures))
    for _, enc := range enclosures {
        if !enc.Active {
            continue
        }
        if enc.AllocatedFor != category && enc.AllocatedFor != model.CategoryMixed {
            continue
        }
        eligible = append(eligible, enc)
    }
    sort.SliceStable(eligible, func(i, j int) bool {
        if eligible[i].DisplayOrder != eligible[j].DisplayOrder {
            return eligible[i].DisplayOrder < eligible[j].DisplayOrder
        }
        return eligible[i].Letter < eligible[j].Letter
    })

    for _, enc := range eligible {
        rows := make([]Row, len(enc.Rows))
        copy(rows, enc.Rows)
        sort.SliceStable(rows, func(i, j int) bool {
            if rows[i].DisplayOrder != rows[j].DisplayOrder {
                return rows[i].DisplayOrder < rows[j].DisplayOrder
            }
            return rows[i].Letter < rows[j].Letter
        })
        for _, row := range rows {
            for n := row.StartSeat; n <= row.EndSeat; n++ {
                if row.Excluded.Has(n) {
                    continue
                }
                seat := Seat{Enclosure: enc.Letter, Row: row.Letter, Number: n}
                if _, taken := occupied[seat]; taken {
                    continue
                }
                return seat, true
            }
        }
    }
    return Seat{}, false
}
