package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/stagepass/internal/middleware"
)

// JoinWaitlist handles POST /v1/cells/:cell_id/waitlist. Only contested
// (sold) seats are joinable; joining twice is a no-op.
func (h *SeatHandler) JoinWaitlist(c echo.Context) error {
	cellID := c.Param("cell_id")
	if cellID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cell id"})
	}
	partyID := middleware.PartyID(c)
	if err := h.engine.JoinWaitlist(c.Request().Context(), cellID, partyID); err != nil {
		return h.engineError(c, err)
	}
	h.log.Info("waitlist joined", "cell_id", cellID, "party_id", partyID)
	return c.JSON(http.StatusCreated, echo.Map{"cell_id": cellID})
}

// LeaveWaitlist handles DELETE /v1/cells/:cell_id/waitlist. Leaving a
// waitlist the party never joined is a no-op.
func (h *SeatHandler) LeaveWaitlist(c echo.Context) error {
	cellID := c.Param("cell_id")
	if cellID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cell id"})
	}
	if err := h.engine.LeaveWaitlist(c.Request().Context(), cellID, middleware.PartyID(c)); err != nil {
		return h.engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MyWaitlist handles GET /v1/schedules/:schedule_id/waitlist. It returns
// the caller's waitlist entries for the schedule; an optional
// ?cell_ids=a,b,c query narrows the answer to those cells.
func (h *SeatHandler) MyWaitlist(c echo.Context) error {
	scheduleID := c.Param("schedule_id")
	if scheduleID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var cellIDs []string
	if raw := c.QueryParam("cell_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cellIDs = append(cellIDs, id)
			}
		}
	}
	entries, err := h.engine.WaitlistFor(c.Request().Context(), scheduleID, cellIDs, middleware.PartyID(c))
	if err != nil {
		return h.engineError(c, err)
	}
	type entryResponse struct {
		CellID   string    `json:"cell_id"`
		JoinedAt time.Time `json:"joined_at"`
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{CellID: e.CellID, JoinedAt: e.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id": scheduleID,
		"entries":     out,
	})
}
