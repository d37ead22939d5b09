package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/gradhall/convocation-seating/internal/allocator"
    "github.com/gradhall/convocation-seating/internal/model"
    "github.com/gradhall/convocation-seating/internal/queue"
)

// SeatAllocator is the engine surface the allocation endpoints need.
// Satisfied by *allocator.Coordinator.
type SeatAllocator interface {
    Allocate(ctx context.Context, attendeeID uint64) (*model.SeatAllocation, bool, error)
    Reallocate(ctx context.Context, attendeeID uint64) (*model.SeatAllocation, error)
}

// AllocationReader looks up committed allocations without going
// through the engine. Satisfied by *repository.AllocationRepo.
type AllocationReader interface {
    AllocationByAttendee(ctx context.Context, attendeeID uint64) (*model.SeatAllocation, error)
}

// CategoryReader resolves an attendee's category for event payloads.
// Satisfied by *repository.AttendeeRepo.
type CategoryReader interface {
    Category(ctx context.Context, attendeeID uint64) (string, error)
}

// AllocationHandler exposes the engine's allocation operations over
// HTTP. JWT authentication and role checks run in middleware before
// any method here is invoked.
type AllocationHandler struct {
    Engine      SeatAllocator
    Allocations AllocationReader
    Attendees   CategoryReader
    // Publish emits the seat.allocated event after a successful
    // commit. Best effort: failures are logged by the publisher and
    // never fail the request. Nil disables publishing.
    Publish func(ctx context.Context, ev queue.SeatAllocatedEvent) error
}

// Allocate handles POST /v1/attendees/:id/allocation. The operation is
// idempotent: a first call commits a seat and returns 201, repeated
// calls return the same seat with 200 and create nothing. The 201/200
// split and the event publish follow the engine's commit outcome, so
// concurrent first calls produce exactly one 201 and one event.
func (h *AllocationHandler) Allocate(c echo.Context) error {
    attendeeID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid attendee id"})
    }
    ctx := c.Request().Context()

    alloc, created, err := h.Engine.Allocate(ctx, attendeeID)
    if err != nil {
        return allocationError(c, err)
    }
    if !created {
        return c.JSON(http.StatusOK, allocationBody(alloc))
    }
    h.publish(ctx, alloc)
    return c.JSON(http.StatusCreated, allocationBody(alloc))
}

// GetAllocation handles GET /v1/attendees/:id/allocation.
func (h *AllocationHandler) GetAllocation(c echo.Context) error {
    attendeeID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid attendee id"})
    }
    alloc, err := h.Allocations.AllocationByAttendee(c.Request().Context(), attendeeID)
    if err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    if alloc == nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "allocation not found"})
    }
    return c.JSON(http.StatusOK, allocationBody(alloc))
}

// Reallocate handles POST /v1/reallocations/:id (admin only). The old
// seat is deleted and a fresh one committed in a single transaction;
// on any failure the old allocation survives.
func (h *AllocationHandler) Reallocate(c echo.Context) error {
    attendeeID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid attendee id"})
    }
    ctx := c.Request().Context()
    alloc, err := h.Engine.Reallocate(ctx, attendeeID)
    if err != nil {
        return allocationError(c, err)
    }
    h.publish(ctx, alloc)
    return c.JSON(http.StatusOK, allocationBody(alloc))
}

func (h *AllocationHandler) publish(ctx context.Context, alloc *model.SeatAllocation) {
    if h.Publish == nil {
        return
    }
    category := ""
    if h.Attendees != nil {
        if cat, err := h.Attendees.Category(ctx, alloc.AttendeeID); err == nil {
            category = cat
        }
    }
    ev := queue.SeatAllocatedEvent{
        AttendeeID:      alloc.AttendeeID,
        Category:        category,
        EnclosureLetter: alloc.EnclosureLetter,
        RowLetter:       alloc.RowLetter,
        SeatNumber:      alloc.SeatNumber,
        AllocatedAt:     alloc.AllocatedAt.UTC().Format(time.RFC3339),
    }
    if err := h.Publish(ctx, ev); err != nil {
        log.Printf("allocation: publish seat.allocated failed: %v", err)
    }
}

func allocationBody(alloc *model.SeatAllocation) echo.Map {
    return echo.Map{
        "attendee_id":      alloc.AttendeeID,
        "enclosure_letter": alloc.EnclosureLetter,
        "row_letter":       alloc.RowLetter,
        "seat_number":      alloc.SeatNumber,
        "allocated_at":     alloc.AllocatedAt.UTC().Format(time.RFC3339),
    }
}

// allocationError maps engine errors onto HTTP statuses. Anything not
// in the engine taxonomy is treated as a storage outage.
func allocationError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, allocator.ErrNotEligible):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "attendee not eligible"})
    case errors.Is(err, allocator.ErrAllocationNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "allocation not found"})
    case errors.Is(err, allocator.ErrCapacityExhausted):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no free seat for category"})
    case errors.Is(err, allocator.ErrContention):
        return c.JSON(http.StatusConflict, echo.Map{"error": "allocation contention, retry later"})
    default:
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
}
