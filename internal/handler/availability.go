package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/stagepass/internal/middleware"
)

// AvailableSeats handles GET /v1/schedules/:schedule_id/seats/available.
// The answer is caller-dependent: seats waitlisted by other parties are
// hidden unless the caller is on that seat's waitlist, and seats under a
// live lock are hidden until the hold ends.
func (h *SeatHandler) AvailableSeats(c echo.Context) error {
	scheduleID := c.Param("schedule_id")
	if scheduleID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	cells, err := h.engine.AvailableSeats(c.Request().Context(), scheduleID, middleware.PartyID(c))
	if err != nil {
		return h.engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id": scheduleID,
		"seats":       toCellResponse(cells),
	})
}

// ContestedSeats handles GET /v1/schedules/:schedule_id/seats/contested:
// the sold seats of a schedule that still accept waitlist joins.
func (h *SeatHandler) ContestedSeats(c echo.Context) error {
	scheduleID := c.Param("schedule_id")
	if scheduleID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	cells, err := h.engine.ContestedSeats(c.Request().Context(), scheduleID)
	if err != nil {
		return h.engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id": scheduleID,
		"seats":       toCellResponse(cells),
	})
}
