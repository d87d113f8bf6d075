package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/stagepass/stagepass/internal/model"
)

// SeatMapRepo persists the static geometry of a venue layout: one seat map
// per schedule, containing sections, columns and cells. The tree is
// written once at creation; cells are the only layer that mutates
// afterwards (availability flag), and that is CellRepo's job.
type SeatMapRepo struct {
	db *sql.DB
}

// NewSeatMapRepo returns a SeatMapRepo bound to the provided database.
func NewSeatMapRepo(db *sql.DB) *SeatMapRepo { return &SeatMapRepo{db: db} }

// CreateTx inserts a full seat map tree for a schedule inside the provided
// transaction. IDs are generated here and populated on the returned model.
// It returns ErrSeatMapExists when the schedule already has a map.
func (r *SeatMapRepo) CreateTx(ctx context.Context, tx *sql.Tx, scheduleID string, req *model.CreateSeatMap) (*model.SeatMap, error) {
	m := &model.SeatMap{
		ID:         uuid.NewString(),
		ScheduleID: scheduleID,
		Name:       req.Name,
	}
	const mapQ = `INSERT INTO seat_maps (id, schedule_id, name) VALUES (?, ?, ?)`
	if _, err := tx.ExecContext(ctx, mapQ, m.ID, m.ScheduleID, m.Name); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, ErrSeatMapExists
		}
		return nil, err
	}

	for _, sec := range req.Sections {
		aisles, err := json.Marshal(sortedAisles(sec.AisleIndexes))
		if err != nil {
			return nil, err
		}
		section := model.Section{
			ID:           uuid.NewString(),
			SeatMapID:    m.ID,
			RowIndex:     sec.RowIndex,
			AisleIndexes: sec.AisleIndexes,
		}
		const secQ = `INSERT INTO sections (id, seat_map_id, row_index, aisle_indexes) VALUES (?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, secQ, section.ID, section.SeatMapID, section.RowIndex, string(aisles)); err != nil {
			return nil, err
		}
		for _, col := range sec.Columns {
			column := model.SeatColumn{
				ID:          uuid.NewString(),
				SectionID:   section.ID,
				ColumnIndex: col.ColumnIndex,
				CellType:    col.CellType,
			}
			const colQ = `INSERT INTO seat_columns (id, section_id, column_index, cell_type) VALUES (?, ?, ?, ?)`
			if _, err := tx.ExecContext(ctx, colQ, column.ID, column.SectionID, column.ColumnIndex, string(column.CellType)); err != nil {
				return nil, err
			}
			if len(col.Cells) > 0 {
				query := `INSERT INTO cells (id, column_id, schedule_id, cell_type, row_index, is_available) VALUES `
				args := make([]interface{}, 0, len(col.Cells)*6)
				for i, cell := range col.Cells {
					if i > 0 {
						query += ","
					}
					query += "(?, ?, ?, ?, ?, ?)"
					c := model.Cell{
						ID:          uuid.NewString(),
						ColumnID:    column.ID,
						ScheduleID:  scheduleID,
						CellType:    cell.CellType,
						RowIndex:    cell.RowIndex,
						IsAvailable: cell.CellType == model.CellTypeSeat,
					}
					args = append(args, c.ID, c.ColumnID, c.ScheduleID, string(c.CellType), c.RowIndex, c.IsAvailable)
					column.Cells = append(column.Cells, c)
				}
				if _, err := tx.ExecContext(ctx, query, args...); err != nil {
					return nil, err
				}
			}
			section.Columns = append(section.Columns, column)
		}
		m.Sections = append(m.Sections, section)
	}
	return m, nil
}

// GetBySchedule loads the full seat map tree for a schedule: the map row,
// its sections ordered by row index, columns ordered by column index and
// cells ordered by row index. Returns ErrSeatMapNotFound when the schedule
// has no map.
func (r *SeatMapRepo) GetBySchedule(ctx context.Context, scheduleID string) (*model.SeatMap, error) {
	const mapQ = `SELECT id, schedule_id, name, created_at, updated_at FROM seat_maps WHERE schedule_id = ?`
	var m model.SeatMap
	err := r.db.QueryRowContext(ctx, mapQ, scheduleID).Scan(&m.ID, &m.ScheduleID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatMapNotFound
		}
		return nil, err
	}

	const secQ = `SELECT id, seat_map_id, row_index, aisle_indexes, created_at
	              FROM sections WHERE seat_map_id = ? ORDER BY row_index`
	rows, err := r.db.QueryContext(ctx, secQ, m.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sectionIdx := make(map[string]int)
	for rows.Next() {
		var sec model.Section
		var aisles []byte
		if err := rows.Scan(&sec.ID, &sec.SeatMapID, &sec.RowIndex, &aisles, &sec.CreatedAt); err != nil {
			return nil, err
		}
		if len(aisles) > 0 {
			if err := json.Unmarshal(aisles, &sec.AisleIndexes); err != nil {
				return nil, err
			}
		}
		sectionIdx[sec.ID] = len(m.Sections)
		m.Sections = append(m.Sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const colQ = `SELECT sc.id, sc.section_id, sc.column_index, sc.cell_type, sc.created_at
	              FROM seat_columns sc
	              JOIN sections s ON s.id = sc.section_id
	              WHERE s.seat_map_id = ?
	              ORDER BY s.row_index, sc.column_index`
	crows, err := r.db.QueryContext(ctx, colQ, m.ID)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	columnIdx := make(map[string][2]int) // column id -> (section index, column index)
	for crows.Next() {
		var col model.SeatColumn
		var cellType string
		if err := crows.Scan(&col.ID, &col.SectionID, &col.ColumnIndex, &cellType, &col.CreatedAt); err != nil {
			return nil, err
		}
		col.CellType = model.CellType(cellType)
		si, ok := sectionIdx[col.SectionID]
		if !ok {
			continue
		}
		columnIdx[col.ID] = [2]int{si, len(m.Sections[si].Columns)}
		m.Sections[si].Columns = append(m.Sections[si].Columns, col)
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}

	const cellQ = `SELECT id, column_id, schedule_id, cell_type, row_index, is_available, version, created_at, updated_at
	               FROM cells WHERE schedule_id = ? ORDER BY row_index`
	cells, err := r.db.QueryContext(ctx, cellQ, scheduleID)
	if err != nil {
		return nil, err
	}
	defer cells.Close()
	for cells.Next() {
		c, err := scanCell(cells)
		if err != nil {
			return nil, err
		}
		pos, ok := columnIdx[c.ColumnID]
		if !ok {
			continue
		}
		col := &m.Sections[pos[0]].Columns[pos[1]]
		col.Cells = append(col.Cells, c)
	}
	if err := cells.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func sortedAisles(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	sort.Ints(out)
	return out
}
