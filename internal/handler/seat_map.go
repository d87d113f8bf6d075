package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/stagepass/internal/middleware"
	"github.com/stagepass/stagepass/internal/model"
)

// seatMapResponse is the full layout tree as served to clients.
type seatMapResponse struct {
	ID         string            `json:"id"`
	ScheduleID string            `json:"schedule_id"`
	Name       string            `json:"name"`
	Sections   []sectionResponse `json:"sections"`
	CreatedAt  time.Time         `json:"created_at"`
}

type sectionResponse struct {
	ID           string           `json:"id"`
	RowIndex     int              `json:"row_index"`
	AisleIndexes []int            `json:"aisle_indexes"`
	Columns      []columnResponse `json:"columns"`
}

type columnResponse struct {
	ID          string         `json:"id"`
	ColumnIndex int            `json:"column_index"`
	CellType    string         `json:"cell_type"`
	Cells       []cellResponse `json:"cells"`
}

func toSeatMapResponse(m *model.SeatMap) seatMapResponse {
	resp := seatMapResponse{
		ID:         m.ID,
		ScheduleID: m.ScheduleID,
		Name:       m.Name,
		Sections:   make([]sectionResponse, 0, len(m.Sections)),
		CreatedAt:  m.CreatedAt,
	}
	for _, sec := range m.Sections {
		sr := sectionResponse{
			ID:           sec.ID,
			RowIndex:     sec.RowIndex,
			AisleIndexes: sec.AisleIndexes,
			Columns:      make([]columnResponse, 0, len(sec.Columns)),
		}
		if sr.AisleIndexes == nil {
			sr.AisleIndexes = []int{}
		}
		for _, col := range sec.Columns {
			sr.Columns = append(sr.Columns, columnResponse{
				ID:          col.ID,
				ColumnIndex: col.ColumnIndex,
				CellType:    string(col.CellType),
				Cells:       toCellResponse(col.Cells),
			})
		}
		resp.Sections = append(resp.Sections, sr)
	}
	return resp
}

// CreateSeatMap handles POST /v1/schedules/:schedule_id/seat-map. The body
// is the full layout tree; validation failures come back as 400 with the
// first violated rule, a duplicate map as 409.
func (h *SeatHandler) CreateSeatMap(c echo.Context) error {
	scheduleID := c.Param("schedule_id")
	if scheduleID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var req model.CreateSeatMap
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	m, err := h.engine.CreateSeatMap(c.Request().Context(), scheduleID, &req)
	if err != nil {
		return h.engineError(c, err)
	}
	h.log.Info("seat map created",
		"seat_map_id", m.ID, "schedule_id", scheduleID, "party_id", middleware.PartyID(c))
	return c.JSON(http.StatusCreated, toSeatMapResponse(m))
}

// GetSeatMap handles GET /v1/schedules/:schedule_id/seat-map.
func (h *SeatHandler) GetSeatMap(c echo.Context) error {
	scheduleID := c.Param("schedule_id")
	if scheduleID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	m, err := h.engine.SeatMap(c.Request().Context(), scheduleID)
	if err != nil {
		return h.engineError(c, err)
	}
	return c.JSON(http.StatusOK, toSeatMapResponse(m))
}
