package allocator

import (
    "context"
    "database/sql"
    "sync"
    "time"

    "github.com/gradhall/convocation-seating/internal/model"
)

// memStore is an in-memory implementation of every store interface the
// coordinator depends on. It enforces exactly the keys the schema
// enforces: the shared seat_claims surface guarding the seat triple
// across both ledgers, and the attendee unique key on allocations.
// Neither insert looks at the other ledger's rows, so the fake would
// expose any protocol that relied on reading the other table instead
// of the shared claim.
type memStore struct {
    mu           sync.Mutex
    enclosures   []Enclosure
    attendees    map[uint64]*model.Attendee
    claims       map[Seat]struct{}                // seat_claims, uq_claim_seat
    allocations  map[uint64]*model.SeatAllocation // uq_alloc_attendee
    reservations map[uint64]*model.SeatReservation
    nextID       uint64
}

func newMemStore(enclosures ...Enclosure) *memStore {
    return &memStore{
        enclosures:   enclosures,
        attendees:    make(map[uint64]*model.Attendee),
        claims:       make(map[Seat]struct{}),
        allocations:  make(map[uint64]*model.SeatAllocation),
        reservations: make(map[uint64]*model.SeatReservation),
    }
}

func (m *memStore) addAttendee(id uint64, category string, eligible bool) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.attendees[id] = &model.Attendee{ID: id, Category: category, IsEligible: eligible}
}

func (m *memStore) setEnclosures(enclosures ...Enclosure) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.enclosures = enclosures
}

// WithTx runs fn directly; each store operation below is atomic under
// the mutex, like a single-statement transaction.
func (m *memStore) WithTx(_ context.Context, fn func(tx *sql.Tx) error) error {
    return fn(nil)
}

func (m *memStore) ActiveEnclosures(_ context.Context, category string) ([]Enclosure, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    out := make([]Enclosure, 0, len(m.enclosures))
    for _, enc := range m.enclosures {
        if !enc.Active {
            continue
        }
        if enc.AllocatedFor != category && enc.AllocatedFor != model.CategoryMixed {
            continue
        }
        out = append(out, enc)
    }
    return out, nil
}

func (m *memStore) AllocationByAttendee(_ context.Context, attendeeID uint64) (*model.SeatAllocation, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if a, ok := m.allocations[attendeeID]; ok {
        cp := *a
        return &cp, nil
    }
    return nil, nil
}

func (m *memStore) OccupiedTx(_ context.Context, _ *sql.Tx, enclosureLetter string) (map[Seat]struct{}, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    occupied := make(map[Seat]struct{})
    for _, a := range m.allocations {
        if a.EnclosureLetter == enclosureLetter {
            occupied[Seat{Enclosure: a.EnclosureLetter, Row: a.RowLetter, Number: a.SeatNumber}] = struct{}{}
        }
    }
    for _, r := range m.reservations {
        if r.EnclosureLetter == enclosureLetter {
            occupied[Seat{Enclosure: r.EnclosureLetter, Row: r.RowLetter, Number: r.SeatNumber}] = struct{}{}
        }
    }
    return occupied, nil
}

func (m *memStore) InsertAllocationTx(_ context.Context, _ *sql.Tx, alloc *model.SeatAllocation) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    seat := Seat{Enclosure: alloc.EnclosureLetter, Row: alloc.RowLetter, Number: alloc.SeatNumber}
    if _, claimed := m.claims[seat]; claimed {
        return ErrSeatTaken
    }
    if _, ok := m.allocations[alloc.AttendeeID]; ok {
        return ErrAlreadyAllocated
    }
    m.nextID++
    alloc.ID = m.nextID
    alloc.AllocatedAt = time.Now().UTC()
    cp := *alloc
    m.claims[seat] = struct{}{}
    m.allocations[alloc.AttendeeID] = &cp
    return nil
}

func (m *memStore) DeleteAllocationByAttendeeTx(_ context.Context, _ *sql.Tx, attendeeID uint64) (bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    a, ok := m.allocations[attendeeID]
    if !ok {
        return false, nil
    }
    delete(m.allocations, attendeeID)
    delete(m.claims, Seat{Enclosure: a.EnclosureLetter, Row: a.RowLetter, Number: a.SeatNumber})
    return true, nil
}

func (m *memStore) InsertReservationTx(_ context.Context, _ *sql.Tx, res *model.SeatReservation) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    seat := Seat{Enclosure: res.EnclosureLetter, Row: res.RowLetter, Number: res.SeatNumber}
    if _, claimed := m.claims[seat]; claimed {
        return ErrSeatTaken
    }
    m.nextID++
    res.ID = m.nextID
    res.CreatedAt = time.Now().UTC()
    cp := *res
    m.claims[seat] = struct{}{}
    m.reservations[res.ID] = &cp
    return nil
}

func (m *memStore) DeleteReservationTx(_ context.Context, _ *sql.Tx, id uint64) (bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    res, ok := m.reservations[id]
    if !ok {
        return false, nil
    }
    delete(m.reservations, id)
    delete(m.claims, Seat{Enclosure: res.EnclosureLetter, Row: res.RowLetter, Number: res.SeatNumber})
    return true, nil
}

func (m *memStore) Category(_ context.Context, attendeeID uint64) (string, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    a, ok := m.attendees[attendeeID]
    if !ok || !a.IsEligible || !model.ValidAttendeeCategory(a.Category) {
        return "", ErrNotEligible
    }
    return a.Category, nil
}

func (m *memStore) SetAssignedEnclosureTx(_ context.Context, _ *sql.Tx, attendeeID uint64, letter string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if a, ok := m.attendees[attendeeID]; ok {
        l := letter
        a.AssignedEnclosure = &l
    }
    return nil
}

func (m *memStore) ClearAssignedEnclosureTx(_ context.Context, _ *sql.Tx, attendeeID uint64) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if a, ok := m.attendees[attendeeID]; ok {
        a.AssignedEnclosure = nil
    }
    return nil
}

func (m *memStore) allocationCount() int {
    m.mu.Lock()
    defer m.mu.Unlock()
    return len(m.allocations)
}

func (m *memStore) assignedEnclosure(attendeeID uint64) string {
    m.mu.Lock()
    defer m.mu.Unlock()
    if a, ok := m.attendees[attendeeID]; ok && a.AssignedEnclosure != nil {
        return *a.AssignedEnclosure
    }
    return ""
}

// ledgerOwners reports which ledgers cover the seat: allocations,
// reservations. The cross-ledger invariant requires at most one.
func (m *memStore) ledgerOwners(seat Seat) (inAllocations, inReservations bool) {
    m.mu.Lock()
    defer m.mu.Unlock()
    for _, a := range m.allocations {
        if a.EnclosureLetter == seat.Enclosure && a.RowLetter == seat.Row && a.SeatNumber == seat.Number {
            inAllocations = true
        }
    }
    for _, r := range m.reservations {
        if r.EnclosureLetter == seat.Enclosure && r.RowLetter == seat.Row && r.SeatNumber == seat.Number {
            inReservations = true
        }
    }
    return inAllocations, inReservations
}

// singleRowEnclosure builds a one-row topology for tests.
func singleRowEnclosure(letter, category string, order uint32, start, end uint32, excluded ...uint32) Enclosure {
    exc := make(map[uint32]struct{}, len(excluded))
    for _, n := range excluded {
        exc[n] = struct{}{}
    }
    return Enclosure{
        Letter:       letter,
        AllocatedFor: category,
        Active:       true,
        DisplayOrder: order,
        Rows: []Row{
            {Letter: "A", StartSeat: start, EndSeat: end, Excluded: exc, DisplayOrder: 0},
        },
    }
}
