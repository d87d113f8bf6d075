package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/stagepass/internal/middleware"
	"github.com/stagepass/stagepass/internal/queue"
	queue_publisher "github.com/stagepass/stagepass/internal/service"
)

// ListTickets handles GET /v1/tickets. It pages through the caller's
// non-cancelled tickets, newest first.
func (h *SeatHandler) ListTickets(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	tickets, total, err := h.engine.Tickets(c.Request().Context(), middleware.PartyID(c), page, limit)
	if err != nil {
		return h.engineError(c, err)
	}
	out := make([]ticketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, toTicketResponse(&tickets[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tickets": out,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetTicket handles GET /v1/tickets/:ticket_id. Ownership is enforced: a
// ticket belonging to another party reads as not found.
func (h *SeatHandler) GetTicket(c echo.Context) error {
	ticketID := c.Param("ticket_id")
	if ticketID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	t, err := h.engine.Ticket(c.Request().Context(), ticketID, middleware.PartyID(c))
	if err != nil {
		return h.engineError(c, err)
	}
	return c.JSON(http.StatusOK, toTicketResponse(t))
}

// CancelTicket handles POST /v1/tickets/:ticket_id/cancel. Cancellation is
// refused once the occurrence start is closer than the configured cutoff;
// on success every seat on the ticket returns to the available pool.
func (h *SeatHandler) CancelTicket(c echo.Context) error {
	ticketID := c.Param("ticket_id")
	if ticketID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	partyID := middleware.PartyID(c)
	t, err := h.engine.CancelTicket(c.Request().Context(), ticketID, partyID)
	if err != nil {
		return h.engineError(c, err)
	}
	h.log.Info("ticket cancelled",
		"ticket_id", t.ID, "schedule_id", t.ScheduleID, "party_id", partyID, "seats", t.SeatCount)

	// Best-effort event; waitlisted parties downstream learn the seats
	// are back.
	_ = queue_publisher.PublishTicketCancelled(context.Background(), h.log, queue.TicketCancelledEvent{
		TicketID:    t.ID,
		ScheduleID:  t.ScheduleID,
		PartyID:     t.PartyID,
		CellIDs:     t.CellIDs,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, toTicketResponse(t))
}
