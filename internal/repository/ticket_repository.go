package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/stagepass/stagepass/internal/model"
)

// TicketRepo provides data access to the tickets table. A ticket is the
// permanent record of a finalized reservation; its serialized cell id set
// is written once and the only later mutation is the cancelled flag.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the provided database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// CreateTx inserts a ticket inside the caller's transaction and populates
// the generated id. The caller is the finalizer: the insert must share a
// transaction with the availability flips it records.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	t.ID = uuid.NewString()
	t.SeatCount = len(t.CellIDs)
	cellIDs, err := json.Marshal(t.CellIDs)
	if err != nil {
		return err
	}
	const q = `INSERT INTO tickets (id, schedule_id, party_id, cell_ids, seat_count) VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, t.ID, t.ScheduleID, t.PartyID, string(cellIDs), t.SeatCount); err != nil {
		return err
	}
	const sel = `SELECT created_at, updated_at FROM tickets WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func scanTicket(rs rowScanner) (model.Ticket, error) {
	var t model.Ticket
	var cellIDs []byte
	err := rs.Scan(&t.ID, &t.ScheduleID, &t.PartyID, &cellIDs, &t.SeatCount, &t.Cancelled, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Ticket{}, err
	}
	if len(cellIDs) > 0 {
		if err := json.Unmarshal(cellIDs, &t.CellIDs); err != nil {
			return model.Ticket{}, err
		}
	}
	return t, nil
}

const ticketColumns = `id, schedule_id, party_id, cell_ids, seat_count, cancelled, created_at, updated_at`

// ListByParty returns the party's non-cancelled tickets, newest first,
// with offset pagination, plus the total count for the pager.
func (r *TicketRepo) ListByParty(ctx context.Context, partyID string, page, limit int) ([]model.Ticket, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	var total int
	const countQ = `SELECT COUNT(*) FROM tickets WHERE party_id = ? AND cancelled = 0`
	if err := r.db.QueryRowContext(ctx, countQ, partyID).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + ticketColumns + ` FROM tickets
	      WHERE party_id = ? AND cancelled = 0
	      ORDER BY created_at DESC
	      LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, partyID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// GetByIDForParty returns one ticket, enforcing ownership. Returns
// ErrTicketNotFound when the id does not exist for this party.
func (r *TicketRepo) GetByIDForParty(ctx context.Context, ticketID, partyID string) (*model.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ? AND party_id = ?`
	t, err := scanTicket(r.db.QueryRowContext(ctx, q, ticketID, partyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetForCancelTx loads a cancellable ticket and its schedule start time
// inside the caller's transaction, taking a row lock on the ticket so two
// concurrent cancellations cannot both proceed. Already-cancelled tickets
// are reported as not found.
func (r *TicketRepo) GetForCancelTx(ctx context.Context, tx *sql.Tx, ticketID, partyID string) (*model.Ticket, time.Time, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ? AND party_id = ? AND cancelled = 0 FOR UPDATE`
	t, err := scanTicket(tx.QueryRowContext(ctx, q, ticketID, partyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, ErrTicketNotFound
		}
		return nil, time.Time{}, err
	}
	var startsAt time.Time
	const schedQ = `SELECT starts_at FROM schedules WHERE id = ?`
	if err := tx.QueryRowContext(ctx, schedQ, t.ScheduleID).Scan(&startsAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, ErrScheduleNotFound
		}
		return nil, time.Time{}, err
	}
	return &t, startsAt.UTC(), nil
}

// MarkCancelledTx sets the cancelled flag inside the caller's transaction.
// The caller reverts the availability flag of the ticket's cells in the
// same transaction.
func (r *TicketRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, ticketID string) error {
	const q = `UPDATE tickets SET cancelled = 1 WHERE id = ? AND cancelled = 0`
	res, err := tx.ExecContext(ctx, q, ticketID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTicketNotFound
	}
	return nil
}
