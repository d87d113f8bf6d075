package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/stagepass/internal/middleware"
	"github.com/stagepass/stagepass/internal/queue"
	queue_publisher "github.com/stagepass/stagepass/internal/service"
)

type cellIDsRequest struct {
	CellIDs []string `json:"cell_ids"`
}

// LockSeats handles POST /v1/schedules/:schedule_id/seats/lock. It grants
// the caller a short-lived exclusive hold on every requested cell,
// all-or-nothing. 201 carries the lock ids and the shared expiry; 409
// carries the cells that blocked the grant.
func (h *SeatHandler) LockSeats(c echo.Context) error {
	scheduleID := c.Param("schedule_id")
	if scheduleID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var body cellIDsRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.CellIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cell_ids is required"})
	}

	partyID := middleware.PartyID(c)
	grant, err := h.engine.Lock(c.Request().Context(), body.CellIDs, partyID, middleware.DisplayName(c))
	if err != nil {
		return h.engineError(c, err)
	}
	h.log.Info("seats locked",
		"schedule_id", scheduleID, "party_id", partyID,
		"cells", len(grant.Cells), "expires_at", grant.ExpiresAt)
	return c.JSON(http.StatusCreated, echo.Map{
		"lock_ids":     grant.LockIDs,
		"seats":        toCellResponse(grant.Cells),
		"expires_at":   grant.ExpiresAt,
		"hold_seconds": int(h.engine.HoldDuration() / time.Second),
	})
}

// UnlockSeats handles POST /v1/schedules/:schedule_id/seats/unlock. It
// releases the caller's own holds on the given cells. Cells the caller
// does not hold a live lock on answer 409, as do sold cells, which only
// return to sale through ticket cancellation.
func (h *SeatHandler) UnlockSeats(c echo.Context) error {
	var body cellIDsRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.CellIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cell_ids is required"})
	}
	if err := h.engine.Unlock(c.Request().Context(), body.CellIDs, middleware.PartyID(c)); err != nil {
		return h.engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"released": body.CellIDs})
}

// ReserveSeats handles POST /v1/schedules/:schedule_id/seats/reserve. It
// finalizes the caller's live locks on the given cells into a permanent
// ticket. The response always reports which precondition layer the attempt
// reached through the is_locked/is_available pair.
func (h *SeatHandler) ReserveSeats(c echo.Context) error {
	scheduleID := c.Param("schedule_id")
	if scheduleID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var body cellIDsRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.CellIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cell_ids is required"})
	}

	partyID := middleware.PartyID(c)
	res, err := h.engine.Finalize(c.Request().Context(), body.CellIDs, partyID, scheduleID)
	if err != nil {
		// The flags distinguish "your lock is gone" from "the seat went
		// away under your valid lock"; both are conflicts to the client.
		c.Response().Header().Set("X-Reserve-Locked", boolStr(res.IsLocked))
		return h.engineError(c, err)
	}

	t := res.Ticket
	h.log.Info("reservation finalized",
		"ticket_id", t.ID, "schedule_id", scheduleID, "party_id", partyID, "seats", t.SeatCount)

	// Best-effort event; the sale is already committed.
	_ = queue_publisher.PublishTicketIssued(context.Background(), h.log, queue.TicketIssuedEvent{
		TicketID:    t.ID,
		ScheduleID:  t.ScheduleID,
		PartyID:     t.PartyID,
		DisplayName: middleware.DisplayName(c),
		CellIDs:     t.CellIDs,
		SeatCount:   t.SeatCount,
		IssuedAt:    t.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"is_available": res.IsAvailable,
		"is_locked":    res.IsLocked,
		"ticket":       toTicketResponse(t),
	})
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
