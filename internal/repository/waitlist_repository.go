package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/stagepass/stagepass/internal/model"
)

// WaitlistRepo provides data access to the seat_waitlist table. Entries
// are unique per (cell, party); membership is the only semantic the table
// carries. There is no priority order: the first party to win a lock takes
// the seat.
type WaitlistRepo struct {
	db *sql.DB
}

// NewWaitlistRepo returns a WaitlistRepo bound to the provided database.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo { return &WaitlistRepo{db: db} }

// Join registers the party's interest in a cell. The entry cap is
// enforced inside the statement: the row is only inserted while the cell
// holds fewer than cap entries, so concurrent joins cannot overshoot it.
// Returns true when a row was inserted. False means the insert was
// blocked, either because the party is already waiting on the cell (the
// unique key made it a no-op) or because the cell is at capacity; the
// caller tells the two apart with IsMember.
func (r *WaitlistRepo) Join(ctx context.Context, cellID, partyID string, cap int) (bool, error) {
	const q = `INSERT INTO seat_waitlist (id, cell_id, party_id)
	           SELECT ?, ?, ?
	           FROM (SELECT 1) seed
	           WHERE (SELECT COUNT(*) FROM seat_waitlist w WHERE w.cell_id = ?) < ?
	           ON DUPLICATE KEY UPDATE id = id`
	res, err := r.db.ExecContext(ctx, q, uuid.NewString(), cellID, partyID, cellID, cap)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsMember reports whether the party already waits on the cell.
func (r *WaitlistRepo) IsMember(ctx context.Context, cellID, partyID string) (bool, error) {
	const q = `SELECT 1 FROM seat_waitlist WHERE cell_id = ? AND party_id = ?`
	var one int
	err := r.db.QueryRowContext(ctx, q, cellID, partyID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ContestedBySchedule returns the SEAT cells of a schedule that are sold
// (availability flag false) and still joinable: fewer than cap waitlist
// entries. Cells with zero entries qualify.
func (r *WaitlistRepo) ContestedBySchedule(ctx context.Context, scheduleID string, cap int) ([]model.Cell, error) {
	q := `SELECT ` + cellColumns + `
	      FROM cells c
	      WHERE c.schedule_id = ?
	        AND c.cell_type = 'SEAT'
	        AND c.is_available = 0
	        AND (SELECT COUNT(*) FROM seat_waitlist w WHERE w.cell_id = c.id) < ?
	      ORDER BY c.row_index, c.id`
	rows, err := r.db.QueryContext(ctx, q, scheduleID, cap)
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

// ByCellsAndParty returns the party's waitlist entries for the given
// cells of a schedule. Passing an empty cell list returns all entries the
// party holds for the schedule.
func (r *WaitlistRepo) ByCellsAndParty(ctx context.Context, scheduleID string, cellIDs []string, partyID string) ([]model.WaitlistEntry, error) {
	q := `SELECT w.id, w.cell_id, w.party_id, w.created_at
	      FROM seat_waitlist w
	      JOIN cells c ON c.id = w.cell_id
	      WHERE c.schedule_id = ? AND w.party_id = ?`
	args := []interface{}{scheduleID, partyID}
	if len(cellIDs) > 0 {
		q += ` AND w.cell_id IN (` + placeholders(len(cellIDs)) + `)`
		args = append(args, stringArgs(cellIDs)...)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.WaitlistEntry, 0)
	for rows.Next() {
		var e model.WaitlistEntry
		if err := rows.Scan(&e.ID, &e.CellID, &e.PartyID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByCellsAndPartyTx removes the party's entries for the given cells
// inside the caller's transaction. Finalization calls this so a party that
// won a seat stops occupying its waitlist slot.
func (r *WaitlistRepo) DeleteByCellsAndPartyTx(ctx context.Context, tx *sql.Tx, cellIDs []string, partyID string) error {
	if len(cellIDs) == 0 {
		return nil
	}
	q := `DELETE FROM seat_waitlist WHERE party_id = ? AND cell_id IN (` + placeholders(len(cellIDs)) + `)`
	args := make([]interface{}, 0, len(cellIDs)+1)
	args = append(args, partyID)
	args = append(args, stringArgs(cellIDs)...)
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// Leave removes the party's entry for one cell outside any transaction.
// Used when a party abandons interest explicitly.
func (r *WaitlistRepo) Leave(ctx context.Context, cellID, partyID string) error {
	const q = `DELETE FROM seat_waitlist WHERE cell_id = ? AND party_id = ?`
	_, err := r.db.ExecContext(ctx, q, cellID, partyID)
	return err
}
