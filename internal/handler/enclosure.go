package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/gradhall/convocation-seating/internal/allocator"
    "github.com/gradhall/convocation-seating/internal/model"
    "github.com/gradhall/convocation-seating/internal/repository"
    "github.com/gradhall/convocation-seating/internal/seatset"
)

// EnclosureHandler exposes the administrative topology CRUD and the
// availability read. Topology is configuration data; only ADMIN
// callers reach the mutating endpoints.
type EnclosureHandler struct {
    Enclosures  *repository.EnclosureRepo
    Allocations *repository.AllocationRepo
}

// List handles GET /v1/enclosures.
func (h *EnclosureHandler) List(c echo.Context) error {
    items, err := h.Enclosures.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// enclosureBody uses pointer fields for the PATCH semantics: a field
// absent from the body is left unchanged, so zero stays expressible
// as an explicit value.
type enclosureBody struct {
    Letter       string  `json:"letter"`
    AllocatedFor string  `json:"allocated_for"`
    TotalSeats   *uint32 `json:"total_seats"`
    DisplayOrder *uint32 `json:"display_order"`
    IsActive     *bool   `json:"is_active"`
}

// Create handles POST /v1/enclosures.
func (h *EnclosureHandler) Create(c echo.Context) error {
    var body enclosureBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Letter == "" || !model.ValidEnclosureCategory(body.AllocatedFor) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "letter and a valid allocated_for are required"})
    }
    enc := &model.Enclosure{
        Letter:       body.Letter,
        AllocatedFor: body.AllocatedFor,
        IsActive:     body.IsActive == nil || *body.IsActive,
    }
    if body.TotalSeats != nil {
        enc.TotalSeats = *body.TotalSeats
    }
    if body.DisplayOrder != nil {
        enc.DisplayOrder = *body.DisplayOrder
    }
    if err := h.Enclosures.Create(c.Request().Context(), enc); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "enclosure letter already exists"})
        }
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    return c.JSON(http.StatusCreated, enc)
}

// Update handles PATCH /v1/enclosures/:letter.
func (h *EnclosureHandler) Update(c echo.Context) error {
    letter := c.Param("letter")
    ctx := c.Request().Context()
    enc, err := h.Enclosures.GetByLetter(ctx, letter)
    if err != nil {
        if errors.Is(err, repository.ErrEnclosureNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "enclosure not found"})
        }
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    var body enclosureBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.AllocatedFor != "" {
        if !model.ValidEnclosureCategory(body.AllocatedFor) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid allocated_for"})
        }
        enc.AllocatedFor = body.AllocatedFor
    }
    if body.TotalSeats != nil {
        enc.TotalSeats = *body.TotalSeats
    }
    if body.DisplayOrder != nil {
        enc.DisplayOrder = *body.DisplayOrder
    }
    if body.IsActive != nil {
        enc.IsActive = *body.IsActive
    }
    if err := h.Enclosures.Update(ctx, enc); err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    return c.JSON(http.StatusOK, enc)
}

// Delete handles DELETE /v1/enclosures/:letter. Refused while the
// enclosure still has committed allocations.
func (h *EnclosureHandler) Delete(c echo.Context) error {
    letter := c.Param("letter")
    if err := h.Enclosures.Delete(c.Request().Context(), letter); err != nil {
        switch {
        case errors.Is(err, repository.ErrEnclosureNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "enclosure not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "enclosure has committed allocations"})
        default:
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
        }
    }
    return c.NoContent(http.StatusNoContent)
}

type rowBody struct {
    Letter        string `json:"letter"`
    StartSeat     uint32 `json:"start_seat"`
    EndSeat       uint32 `json:"end_seat"`
    ReservedSeats string `json:"reserved_seats"`
    DisplayOrder  uint32 `json:"display_order"`
}

// CreateRows handles POST /v1/enclosures/:letter/rows with a JSON
// array of rows, inserted in one bulk statement.
func (h *EnclosureHandler) CreateRows(c echo.Context) error {
    ctx := c.Request().Context()
    enc, err := h.Enclosures.GetByLetter(ctx, c.Param("letter"))
    if err != nil {
        if errors.Is(err, repository.ErrEnclosureNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "enclosure not found"})
        }
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    var body struct {
        Rows []rowBody `json:"rows"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if len(body.Rows) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows is required"})
    }
    rows := make([]model.Row, 0, len(body.Rows))
    for _, rb := range body.Rows {
        if rb.Letter == "" || rb.StartSeat == 0 || rb.EndSeat < rb.StartSeat {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "each row needs a letter and a valid seat interval"})
        }
        if _, err := seatset.Parse(rb.ReservedSeats); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reserved_seats for row " + rb.Letter})
        }
        rows = append(rows, model.Row{
            EnclosureID:   enc.ID,
            Letter:        rb.Letter,
            StartSeat:     rb.StartSeat,
            EndSeat:       rb.EndSeat,
            ReservedSeats: rb.ReservedSeats,
            DisplayOrder:  rb.DisplayOrder,
        })
    }
    if err := h.Enclosures.CreateRowsBulk(ctx, enc.ID, rows); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate row letter"})
        }
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"created": len(rows)})
}

// DeleteRow handles DELETE /v1/enclosures/:letter/rows/:row.
func (h *EnclosureHandler) DeleteRow(c echo.Context) error {
    ctx := c.Request().Context()
    enc, err := h.Enclosures.GetByLetter(ctx, c.Param("letter"))
    if err != nil {
        if errors.Is(err, repository.ErrEnclosureNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "enclosure not found"})
        }
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    if err := h.Enclosures.DeleteRow(ctx, enc.ID, c.Param("row")); err != nil {
        if errors.Is(err, repository.ErrRowNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "row not found"})
        }
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Availability handles GET /v1/enclosures/:letter/availability. It
// reports, per row, the seats still open to allocation: the interval
// minus row exclusions minus the occupied union of both ledgers.
func (h *EnclosureHandler) Availability(c echo.Context) error {
    ctx := c.Request().Context()
    letter := c.Param("letter")
    topo, err := h.Enclosures.TopologyByLetter(ctx, letter)
    if err != nil {
        if errors.Is(err, repository.ErrEnclosureNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "enclosure not found"})
        }
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }
    occupied, err := h.Allocations.Occupied(ctx, letter)
    if err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
    }

    totalFree := 0
    totalUsed := 0
    rows := make([]echo.Map, 0, len(topo.Rows))
    for _, row := range topo.Rows {
        free := make([]uint32, 0, int(row.EndSeat-row.StartSeat)+1)
        used := 0
        for n := row.StartSeat; n <= row.EndSeat; n++ {
            if row.Excluded.Has(n) {
                continue
            }
            if _, taken := occupied[allocator.Seat{Enclosure: letter, Row: row.Letter, Number: n}]; taken {
                used++
                continue
            }
            free = append(free, n)
        }
        totalFree += len(free)
        totalUsed += used
        rows = append(rows, echo.Map{
            "row_letter": row.Letter,
            "start_seat": row.StartSeat,
            "end_seat":   row.EndSeat,
            "excluded":   row.Excluded.Encode(),
            "free":       len(free),
            "used":       used,
            "free_seats": free,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "enclosure_letter": topo.Letter,
        "allocated_for":    topo.AllocatedFor,
        "is_active":        topo.Active,
        "total_free":       totalFree,
        "total_used":       totalUsed,
        "rows":             rows,
    })
}
