package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/gradhall/convocation-seating/internal/allocator"
    "github.com/gradhall/convocation-seating/internal/model"
    "github.com/gradhall/convocation-seating/internal/repository"
)

// SeatHolder is the engine surface for administrative holds.
// Satisfied by *allocator.Coordinator.
type SeatHolder interface {
    Hold(ctx context.Context, enclosureLetter, rowLetter string, seatNumber uint32, reservedFor, reservedBy string) (*model.SeatReservation, error)
    Release(ctx context.Context, reservationID uint64) error
}

// ReservationLister lists holds for display. Satisfied by
// *repository.ReservationRepo.
type ReservationLister interface {
    ListByEnclosure(ctx context.Context, enclosureLetter string) ([]model.SeatReservation, error)
}

// TopologyReader resolves an enclosure's full topology so a hold
// request can be checked against real seats. Satisfied by
// *repository.EnclosureRepo.
type TopologyReader interface {
    TopologyByLetter(ctx context.Context, letter string) (*allocator.Enclosure, error)
}

// ReservationHandler exposes the administrative hold/release path.
type ReservationHandler struct {
    Engine       SeatHolder
    Reservations ReservationLister
    Topology     TopologyReader
}

// Create handles POST /v1/reservations. The body names the seat triple
// and optional labels; reserved_by defaults to the caller's subject
// claim. A triple that does not exist in the topology yields 404; a
// seat that is already held or allocated yields 409.
func (h *ReservationHandler) Create(c echo.Context) error {
    var body struct {
        EnclosureLetter string `json:"enclosure_letter"`
        RowLetter       string `json:"row_letter"`
        SeatNumber      uint32 `json:"seat_number"`
        ReservedFor     string `json:"reserved_for"`
        ReservedBy      string `json:"reserved_by"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.EnclosureLetter == "" || body.RowLetter == "" || body.SeatNumber == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "enclosure_letter, row_letter and seat_number are required"})
    }
    if body.ReservedBy == "" {
        body.ReservedBy = currentUser(c)
    }
    topo, err := h.Topology.TopologyByLetter(c.Request().Context(), body.EnclosureLetter)
    if err != nil {
        if errors.Is(err, repository.ErrEnclosureNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "enclosure not found"})
        }
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    if !seatExists(topo, body.RowLetter, body.SeatNumber) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found in enclosure"})
    }
    res, err := h.Engine.Hold(c.Request().Context(),
        body.EnclosureLetter, body.RowLetter, body.SeatNumber, body.ReservedFor, body.ReservedBy)
    if err != nil {
        if errors.Is(err, allocator.ErrSeatTaken) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat already held or allocated"})
        }
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    return c.JSON(http.StatusCreated, reservationBody(res))
}

// Release handles DELETE /v1/reservations/:id.
func (h *ReservationHandler) Release(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    if err := h.Engine.Release(c.Request().Context(), id); err != nil {
        if errors.Is(err, allocator.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListByEnclosure handles GET /v1/enclosures/:letter/reservations.
func (h *ReservationHandler) ListByEnclosure(c echo.Context) error {
    letter := c.Param("letter")
    if letter == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid enclosure letter"})
    }
    items, err := h.Reservations.ListByEnclosure(c.Request().Context(), letter)
    if err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    out := make([]echo.Map, 0, len(items))
    for i := range items {
        out = append(out, reservationBody(&items[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// seatExists reports whether the row and seat number name a physical
// seat of the enclosure. Excluded seats still exist; they are merely
// withheld from general allocation, so an admin may hold them.
func seatExists(topo *allocator.Enclosure, rowLetter string, seatNumber uint32) bool {
    for _, row := range topo.Rows {
        if row.Letter == rowLetter {
            return seatNumber >= row.StartSeat && seatNumber <= row.EndSeat
        }
    }
    return false
}

func reservationBody(res *model.SeatReservation) echo.Map {
    body := echo.Map{
        "id":               res.ID,
        "enclosure_letter": res.EnclosureLetter,
        "row_letter":       res.RowLetter,
        "seat_number":      res.SeatNumber,
    }
    if res.ReservedFor != nil {
        body["reserved_for"] = *res.ReservedFor
    }
    if res.ReservedBy != nil {
        body["reserved_by"] = *res.ReservedBy
    }
    return body
}
