package model

import (
	"errors"
	"fmt"
	"time"
)

// CellType classifies a grid position inside a seat map. Only SEAT cells
// can be booked; EMPTY and AISLE are layout placeholders.
type CellType string

const (
	CellTypeSeat  CellType = "SEAT"
	CellTypeEmpty CellType = "EMPTY"
	CellTypeAisle CellType = "AISLE"
)

// Valid reports whether t is one of the known cell types.
func (t CellType) Valid() bool {
	switch t {
	case CellTypeSeat, CellTypeEmpty, CellTypeAisle:
		return true
	}
	return false
}

// SeatMap is the static geometry of a venue layout for one scheduled
// occurrence. A map contains at least one section; sections contain
// columns; SEAT columns contain bookable cells.
type SeatMap struct {
	ID         string    // seat_maps.id
	ScheduleID string    // seat_maps.schedule_id (one map per occurrence)
	Name       string    // seat_maps.name
	Sections   []Section // ordered by row_index
	CreatedAt  time.Time // seat_maps.created_at
	UpdatedAt  time.Time // seat_maps.updated_at
}

// Section is one horizontal block of a seat map. AisleIndexes lists the
// column indices that are walkways; each must fall inside the column range.
type Section struct {
	ID           string       // sections.id
	SeatMapID    string       // sections.seat_map_id
	RowIndex     int          // sections.row_index
	AisleIndexes []int        // sections.aisle_indexes (JSON)
	Columns      []SeatColumn // ordered by column_index
	CreatedAt    time.Time    // sections.created_at
}

// SeatColumn is a vertical slice of a section. EMPTY and AISLE columns own
// no cells; SEAT columns own at least one.
type SeatColumn struct {
	ID          string    // seat_columns.id
	SectionID   string    // seat_columns.section_id
	ColumnIndex int       // seat_columns.column_index
	CellType    CellType  // seat_columns.cell_type
	Cells       []Cell    // ordered by row_index
	CreatedAt   time.Time // seat_columns.created_at
}

// Cell is the atomic bookable unit. ColumnID is a lookup reference back to
// the owning column, not an owning pointer; deleting a lock or waitlist
// entry never cascades into cell data. IsAvailable is meaningful only when
// CellType is SEAT and flips to false only when a lock is finalized into a
// ticket (or back to true on cancellation or unlock of a finalized seat).
type Cell struct {
	ID          string    // cells.id
	ColumnID    string    // cells.column_id
	ScheduleID  string    // cells.schedule_id
	CellType    CellType  // cells.cell_type
	RowIndex    int       // cells.row_index
	IsAvailable bool      // cells.is_available
	Version     int       // cells.version
	CreatedAt   time.Time // cells.created_at
	UpdatedAt   time.Time // cells.updated_at
}

// CreateSeatMap is the validated input for building a seat map for a
// schedule. The shape mirrors the persisted tree one level at a time so
// the repository can bulk-insert each layer.
type CreateSeatMap struct {
	Name     string          `json:"name"`
	Sections []CreateSection `json:"sections"`
}

// CreateSection describes one section of a new seat map.
type CreateSection struct {
	RowIndex     int                `json:"row_index"`
	AisleIndexes []int              `json:"aisle_indexes"`
	Columns      []CreateSeatColumn `json:"columns"`
}

// CreateSeatColumn describes one column of a new section.
type CreateSeatColumn struct {
	ColumnIndex int          `json:"column_index"`
	CellType    CellType     `json:"cell_type"`
	Cells       []CreateCell `json:"cells"`
}

// CreateCell describes one cell of a new SEAT column.
type CreateCell struct {
	CellType CellType `json:"cell_type"`
	RowIndex int      `json:"row_index"`
}

// ErrInvalidSeatMap wraps all seat map construction failures so callers can
// distinguish bad input from storage errors with a single errors.Is check.
var ErrInvalidSeatMap = errors.New("invalid seat map")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSeatMap, fmt.Sprintf(format, args...))
}

// Validate checks the structural invariants of a seat map request:
// at least one section, at least one column per section, aisle indices
// inside [0, len(columns)-1], EMPTY/AISLE columns owning zero cells and
// SEAT columns owning at least one.
func (m *CreateSeatMap) Validate() error {
	if m.Name == "" {
		return invalidf("name is required")
	}
	if len(m.Sections) == 0 {
		return invalidf("at least one section is required")
	}
	for si, sec := range m.Sections {
		if len(sec.Columns) == 0 {
			return invalidf("section %d has no columns", si)
		}
		for _, aisle := range sec.AisleIndexes {
			if aisle < 0 || aisle >= len(sec.Columns) {
				return invalidf("section %d aisle index %d out of range [0,%d]", si, aisle, len(sec.Columns)-1)
			}
		}
		for ci, col := range sec.Columns {
			if !col.CellType.Valid() {
				return invalidf("section %d column %d has unknown cell type %q", si, ci, col.CellType)
			}
			switch col.CellType {
			case CellTypeSeat:
				if len(col.Cells) == 0 {
					return invalidf("section %d column %d is a SEAT column with no cells", si, ci)
				}
			default:
				if len(col.Cells) != 0 {
					return invalidf("section %d column %d is %s but owns %d cells", si, ci, col.CellType, len(col.Cells))
				}
			}
			for celli, cell := range col.Cells {
				if !cell.CellType.Valid() {
					return invalidf("section %d column %d cell %d has unknown cell type %q", si, ci, celli, cell.CellType)
				}
				if cell.RowIndex < 0 {
					return invalidf("section %d column %d cell %d has negative row index", si, ci, celli)
				}
			}
		}
	}
	return nil
}
