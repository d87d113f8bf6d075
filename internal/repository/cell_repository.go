package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/stagepass/stagepass/internal/model"
)

// CellRepo is the seat availability ledger. The is_available flag on a
// cell is the single source of truth for "can this seat be picked"; it is
// flipped only when a lock is finalized into a ticket or when a sale is
// reversed. Holds and sweeps never touch it.
type CellRepo struct {
	db *sql.DB
}

// NewCellRepo returns a CellRepo bound to the provided database.
func NewCellRepo(db *sql.DB) *CellRepo { return &CellRepo{db: db} }

const cellColumns = `id, column_id, schedule_id, cell_type, row_index, is_available, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCell(rs rowScanner) (model.Cell, error) {
	var c model.Cell
	var cellType string
	err := rs.Scan(&c.ID, &c.ColumnID, &c.ScheduleID, &cellType, &c.RowIndex,
		&c.IsAvailable, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Cell{}, err
	}
	c.CellType = model.CellType(cellType)
	return c, nil
}

// AvailableBySchedule returns every SEAT cell for the schedule that can be
// offered to the given party right now:
//
//   - availability flag is true,
//   - no unexpired lock is present (a held seat is invisible until the
//     hold is released, finalized away, or swept),
//   - no waitlist contention by other parties, unless the querying party
//     is itself on the cell's waitlist.
//
// Read-only; safe for unbounded concurrent callers.
func (r *CellRepo) AvailableBySchedule(ctx context.Context, scheduleID, partyID string) ([]model.Cell, error) {
	q := `SELECT ` + cellColumns + `
	      FROM cells c
	      WHERE c.schedule_id = ?
	        AND c.cell_type = 'SEAT'
	        AND c.is_available = 1
	        AND NOT EXISTS (
	            SELECT 1 FROM seat_locks l
	            WHERE l.cell_id = c.id AND l.expires_at > UTC_TIMESTAMP()
	        )
	        AND (
	            EXISTS (
	                SELECT 1 FROM seat_waitlist w
	                WHERE w.cell_id = c.id AND w.party_id = ?
	            )
	            OR NOT EXISTS (
	                SELECT 1 FROM seat_waitlist w
	                WHERE w.cell_id = c.id AND w.party_id <> ?
	            )
	        )
	      ORDER BY c.row_index, c.id`
	rows, err := r.db.QueryContext(ctx, q, scheduleID, partyID, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Cell, 0)
	for rows.Next() {
		c, err := scanCell(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single cell by id, or sql.ErrNoRows.
func (r *CellRepo) GetByID(ctx context.Context, id string) (*model.Cell, error) {
	q := `SELECT ` + cellColumns + ` FROM cells WHERE id = ?`
	c, err := scanCell(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetForUpdateTx reads the given cells inside the transaction with
// SELECT ... FOR UPDATE, serializing every concurrent lock/finalize/unlock
// attempt that targets any of the same cells. Callers must pass ids in a
// deterministic order (the engine sorts them) to keep row lock acquisition
// order stable across competing transactions. Cells that do not exist are
// simply absent from the result; the caller decides what a miss means.
func (r *CellRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, cellIDs []string) ([]model.Cell, error) {
	if len(cellIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + cellColumns + ` FROM cells WHERE id IN (` + placeholders(len(cellIDs)) + `) ORDER BY id FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, stringArgs(cellIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Cell
	for rows.Next() {
		c, err := scanCell(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetAvailabilityTx flips the availability flag for the given cells and
// bumps their version counter. Used by finalize (to false) and by
// unlock/cancellation (back to true).
func (r *CellRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, cellIDs []string, available bool) error {
	if len(cellIDs) == 0 {
		return nil
	}
	q := `UPDATE cells SET is_available = ?, version = version + 1 WHERE id IN (` + placeholders(len(cellIDs)) + `)`
	args := make([]interface{}, 0, len(cellIDs)+1)
	args = append(args, available)
	args = append(args, stringArgs(cellIDs)...)
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// placeholders returns a "?, ?, ..." list of length n for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func stringArgs(ids []string) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
