package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/stagepass/stagepass/internal/model"
)

// LockRepo provides data access to the seat_locks table. A lock row is a
// short-lived exclusive hold on one cell. Expiry comparisons happen in the
// database against UTC_TIMESTAMP() so that every process instance shares
// one clock.
type LockRepo struct {
	db *sql.DB
}

// NewLockRepo returns a LockRepo bound to the provided database.
func NewLockRepo(db *sql.DB) *LockRepo { return &LockRepo{db: db} }

const lockColumns = `id, cell_id, party_id, display_name, expires_at, created_at`

// LiveByCellsTx returns all unexpired locks on the given cells. It runs
// inside the caller's transaction; because the caller has already taken
// row locks on the cells themselves, this read is serialized against
// competing lock attempts. Expired rows are treated as absent even when
// the sweeper has not removed them yet.
func (r *LockRepo) LiveByCellsTx(ctx context.Context, tx *sql.Tx, cellIDs []string) ([]model.SeatLock, error) {
	if len(cellIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + lockColumns + ` FROM seat_locks
	      WHERE cell_id IN (` + placeholders(len(cellIDs)) + `) AND expires_at > UTC_TIMESTAMP()`
	rows, err := tx.QueryContext(ctx, q, stringArgs(cellIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var locks []model.SeatLock
	for rows.Next() {
		var l model.SeatLock
		if err := rows.Scan(&l.ID, &l.CellID, &l.PartyID, &l.DisplayName, &l.ExpiresAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		locks = append(locks, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locks, nil
}

// CreateBulkTx inserts one lock row per cell, all bound to the same party,
// display name and expiry, in a single statement. Returns the created
// locks with generated ids. Partial inserts are impossible: either the
// statement succeeds for every row or the caller rolls back.
func (r *LockRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, cellIDs []string, partyID, displayName string, expiresAt time.Time) ([]model.SeatLock, error) {
	if len(cellIDs) == 0 {
		return nil, nil
	}
	query := `INSERT INTO seat_locks (id, cell_id, party_id, display_name, expires_at) VALUES `
	args := make([]interface{}, 0, len(cellIDs)*5)
	locks := make([]model.SeatLock, 0, len(cellIDs))
	for i, cid := range cellIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		l := model.SeatLock{
			ID:          uuid.NewString(),
			CellID:      cid,
			PartyID:     partyID,
			DisplayName: displayName,
			ExpiresAt:   expiresAt,
		}
		args = append(args, l.ID, l.CellID, l.PartyID, l.DisplayName, l.ExpiresAt.UTC().Format("2006-01-02 15:04:05"))
		locks = append(locks, l)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	return locks, nil
}

// DeleteByCellsTx removes every lock row referencing the given cells,
// regardless of owner or expiry. Used by unlock and by finalization after
// the owning locks have been validated.
func (r *LockRepo) DeleteByCellsTx(ctx context.Context, tx *sql.Tx, cellIDs []string) (int64, error) {
	if len(cellIDs) == 0 {
		return 0, nil
	}
	q := `DELETE FROM seat_locks WHERE cell_id IN (` + placeholders(len(cellIDs)) + `)`
	res, err := tx.ExecContext(ctx, q, stringArgs(cellIDs)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByCellsAndPartyTx removes only the party's own lock rows on the
// given cells. Explicit release goes through this so one party can never
// drop another party's hold.
func (r *LockRepo) DeleteByCellsAndPartyTx(ctx context.Context, tx *sql.Tx, cellIDs []string, partyID string) (int64, error) {
	if len(cellIDs) == 0 {
		return 0, nil
	}
	q := `DELETE FROM seat_locks WHERE party_id = ? AND cell_id IN (` + placeholders(len(cellIDs)) + `)`
	args := make([]interface{}, 0, len(cellIDs)+1)
	args = append(args, partyID)
	args = append(args, stringArgs(cellIDs)...)
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteExpiredTx removes every lock whose expiry has passed. This is the
// whole of the sweep: the availability flag was never cleared at lock
// time, so deleting the row is enough to make the seat visible again.
func (r *LockRepo) DeleteExpiredTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	const q = `DELETE FROM seat_locks WHERE expires_at <= UTC_TIMESTAMP()`
	res, err := tx.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
