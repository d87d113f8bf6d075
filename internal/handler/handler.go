// Package handler exposes the reservation engine over HTTP. Handlers bind
// and validate input, call the engine, and translate its sentinel errors
// into status codes; every seat-state decision stays inside the engine's
// transactions.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/stagepass/internal/model"
	"github.com/stagepass/stagepass/internal/repository"
	"github.com/stagepass/stagepass/internal/reservation"
)

// Engine is the slice of the reservation engine the HTTP layer depends on.
type Engine interface {
	HoldDuration() time.Duration
	CreateSeatMap(ctx context.Context, scheduleID string, req *model.CreateSeatMap) (*model.SeatMap, error)
	SeatMap(ctx context.Context, scheduleID string) (*model.SeatMap, error)
	AvailableSeats(ctx context.Context, scheduleID, partyID string) ([]model.Cell, error)
	Lock(ctx context.Context, cellIDs []string, partyID, displayName string) (*reservation.LockGrant, error)
	Finalize(ctx context.Context, cellIDs []string, partyID, scheduleID string) (reservation.FinalizeResult, error)
	Unlock(ctx context.Context, cellIDs []string, partyID string) error
	CancelTicket(ctx context.Context, ticketID, partyID string) (*model.Ticket, error)
	JoinWaitlist(ctx context.Context, cellID, partyID string) error
	LeaveWaitlist(ctx context.Context, cellID, partyID string) error
	ContestedSeats(ctx context.Context, scheduleID string) ([]model.Cell, error)
	WaitlistFor(ctx context.Context, scheduleID string, cellIDs []string, partyID string) ([]model.WaitlistEntry, error)
	Tickets(ctx context.Context, partyID string, page, limit int) ([]model.Ticket, int, error)
	Ticket(ctx context.Context, ticketID, partyID string) (*model.Ticket, error)
}

// SeatHandler serves every seat, waitlist and ticket endpoint.
type SeatHandler struct {
	engine Engine
	log    *slog.Logger
}

// NewSeatHandler constructs a SeatHandler. The engine must be non-nil.
func NewSeatHandler(engine Engine, log *slog.Logger) *SeatHandler {
	if engine == nil {
		panic("nil engine passed to NewSeatHandler")
	}
	return &SeatHandler{engine: engine, log: log}
}

// engineError maps engine and repository sentinels onto HTTP responses.
// Seat-state conflicts carry the offending cell ids so clients can react
// per seat. Errors outside the sentinel taxonomy are logged before the
// generic 500; the response body never leaks them.
func (h *SeatHandler) engineError(c echo.Context, err error) error {
	var se *reservation.SeatError
	cells := []string{}
	if errors.As(err, &se) {
		cells = se.CellIDs
	}
	switch {
	case errors.Is(err, model.ErrInvalidSeatMap):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrScheduleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
	case errors.Is(err, repository.ErrSeatMapNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat map not found"})
	case errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case errors.Is(err, repository.ErrSeatMapExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat map already exists for schedule"})
	case errors.Is(err, reservation.ErrSeatAlreadyLocked):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already locked", "cell_ids": cells})
	case errors.Is(err, reservation.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat unavailable", "cell_ids": cells})
	case errors.Is(err, reservation.ErrLockExpiredOrMissing):
		return c.JSON(http.StatusConflict, echo.Map{"error": "lock expired or missing", "cell_ids": cells})
	case errors.Is(err, reservation.ErrSeatNotContested):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat is not contested", "cell_ids": cells})
	case errors.Is(err, reservation.ErrWaitlistFull):
		return c.JSON(http.StatusConflict, echo.Map{"error": "waitlist full", "cell_ids": cells})
	case errors.Is(err, reservation.ErrCancellationWindowClosed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "cancellation window closed"})
	case errors.Is(err, reservation.ErrTxConflict):
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporary contention, retry"})
	}
	h.log.Error("unhandled engine error",
		"method", c.Request().Method, "path", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// cellResponse is the wire shape of a cell.
type cellResponse struct {
	ID          string `json:"id"`
	ColumnID    string `json:"column_id"`
	ScheduleID  string `json:"schedule_id"`
	CellType    string `json:"cell_type"`
	RowIndex    int    `json:"row_index"`
	IsAvailable bool   `json:"is_available"`
}

func toCellResponse(cells []model.Cell) []cellResponse {
	out := make([]cellResponse, 0, len(cells))
	for _, c := range cells {
		out = append(out, cellResponse{
			ID:          c.ID,
			ColumnID:    c.ColumnID,
			ScheduleID:  c.ScheduleID,
			CellType:    string(c.CellType),
			RowIndex:    c.RowIndex,
			IsAvailable: c.IsAvailable,
		})
	}
	return out
}

// ticketResponse is the wire shape of a ticket.
type ticketResponse struct {
	ID         string    `json:"id"`
	ScheduleID string    `json:"schedule_id"`
	PartyID    string    `json:"party_id"`
	CellIDs    []string  `json:"cell_ids"`
	SeatCount  int       `json:"seat_count"`
	Cancelled  bool      `json:"cancelled"`
	CreatedAt  time.Time `json:"created_at"`
}

func toTicketResponse(t *model.Ticket) ticketResponse {
	return ticketResponse{
		ID:         t.ID,
		ScheduleID: t.ScheduleID,
		PartyID:    t.PartyID,
		CellIDs:    t.CellIDs,
		SeatCount:  t.SeatCount,
		Cancelled:  t.Cancelled,
		CreatedAt:  t.CreatedAt,
	}
}
