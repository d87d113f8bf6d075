// Package reservation implements the seat reservation concurrency engine:
// the availability ledger, the locking protocol, the waitlist, the expiry
// sweep and the reservation finalizer. The relational database is the only
// concurrency primitive; every state transition on cells and locks runs in
// one transaction with SELECT ... FOR UPDATE on the cell rows, so at most
// one of {lock, finalize, unlock, sweep} wins a check against a cell's
// state at a time, across any number of process instances.
package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/stagepass/stagepass/internal/model"
	"github.com/stagepass/stagepass/internal/repository"
)

// Options tunes the engine. Zero values fall back to the defaults below.
type Options struct {
	HoldDuration      time.Duration // lifetime of a granted lock (default 180s)
	WaitlistCap       int           // max waitlist entries per cell (default 5)
	CancelCutoff      time.Duration // min time before occurrence start for cancellation (default 24h)
	TxConflictRetries int           // bounded retries on deadlock/lock-wait (default 3)
}

const (
	defaultHoldDuration = 180 * time.Second
	defaultWaitlistCap  = 5
	defaultCancelCutoff = 24 * time.Hour
	defaultTxRetries    = 3
)

// Engine is the programmatic contract of the seat reservation core. It is
// safe for concurrent use; all shared state lives in the database.
type Engine struct {
	db        *sql.DB
	cells     *repository.CellRepo
	locks     *repository.LockRepo
	waitlist  *repository.WaitlistRepo
	tickets   *repository.TicketRepo
	schedules *repository.ScheduleRepo
	seatMaps  *repository.SeatMapRepo
	log       *slog.Logger

	holdDuration time.Duration
	waitlistCap  int
	cancelCutoff time.Duration
	maxRetries   int
	now          func() time.Time
}

// New constructs an Engine over the given database handle.
func New(db *sql.DB, log *slog.Logger, opts Options) *Engine {
	if opts.HoldDuration <= 0 {
		opts.HoldDuration = defaultHoldDuration
	}
	if opts.WaitlistCap <= 0 {
		opts.WaitlistCap = defaultWaitlistCap
	}
	if opts.CancelCutoff <= 0 {
		opts.CancelCutoff = defaultCancelCutoff
	}
	if opts.TxConflictRetries <= 0 {
		opts.TxConflictRetries = defaultTxRetries
	}
	return &Engine{
		db:           db,
		cells:        repository.NewCellRepo(db),
		locks:        repository.NewLockRepo(db),
		waitlist:     repository.NewWaitlistRepo(db),
		tickets:      repository.NewTicketRepo(db),
		schedules:    repository.NewScheduleRepo(db),
		seatMaps:     repository.NewSeatMapRepo(db),
		log:          log,
		holdDuration: opts.HoldDuration,
		waitlistCap:  opts.WaitlistCap,
		cancelCutoff: opts.CancelCutoff,
		maxRetries:   opts.TxConflictRetries,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// HoldDuration reports the configured lock lifetime.
func (e *Engine) HoldDuration() time.Duration { return e.holdDuration }

// CreateSeatMap validates and stores the seat geometry for a schedule.
func (e *Engine) CreateSeatMap(ctx context.Context, scheduleID string, req *model.CreateSeatMap) (*model.SeatMap, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ok, err := e.schedules.Exists(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrScheduleNotFound
	}
	var created *model.SeatMap
	err = e.withTx(ctx, func(tx *sql.Tx) error {
		m, err := e.seatMaps.CreateTx(ctx, tx, scheduleID, req)
		if err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SeatMap loads the full layout tree for a schedule.
func (e *Engine) SeatMap(ctx context.Context, scheduleID string) (*model.SeatMap, error) {
	return e.seatMaps.GetBySchedule(ctx, scheduleID)
}

// AvailableSeats returns every seat the given party may pick for the
// schedule right now. Seats under waitlist contention by other parties are
// hidden unless the caller is on that seat's waitlist; seats with a live
// lock are hidden until the hold ends. Read-only.
func (e *Engine) AvailableSeats(ctx context.Context, scheduleID, partyID string) ([]model.Cell, error) {
	return e.cells.AvailableBySchedule(ctx, scheduleID, partyID)
}

// LockGrant is the result of a successful lock acquisition.
type LockGrant struct {
	Cells     []model.Cell
	LockIDs   []string
	ExpiresAt time.Time
}

// Lock acquires a short-lived exclusive hold on every requested cell for
// the party, all-or-nothing. It fails with ErrSeatUnavailable when any
// cell is missing, not a seat, or already sold, and with
// ErrSeatAlreadyLocked when any cell carries an unexpired lock (the
// caller's own included). Expired locks are invisible to the contention
// check even before the sweeper removes them. Partial locks are never
// observable: the insert shares its transaction with both checks.
func (e *Engine) Lock(ctx context.Context, cellIDs []string, partyID, displayName string) (*LockGrant, error) {
	ids := normalizeIDs(cellIDs)
	if len(ids) == 0 {
		return nil, seatErr(ErrSeatUnavailable, nil)
	}
	var grant *LockGrant
	err := e.withTx(ctx, func(tx *sql.Tx) error {
		cells, err := e.cells.GetForUpdateTx(ctx, tx, ids)
		if err != nil {
			return err
		}
		if bad := unsellable(ids, cells); len(bad) > 0 {
			return seatErr(ErrSeatUnavailable, bad)
		}
		live, err := e.locks.LiveByCellsTx(ctx, tx, ids)
		if err != nil {
			return err
		}
		if len(live) > 0 {
			held := make([]string, 0, len(live))
			for _, l := range live {
				held = append(held, l.CellID)
			}
			return seatErr(ErrSeatAlreadyLocked, held)
		}
		expiresAt := e.now().Add(e.holdDuration)
		locks, err := e.locks.CreateBulkTx(ctx, tx, ids, partyID, displayName, expiresAt)
		if err != nil {
			return err
		}
		lockIDs := make([]string, 0, len(locks))
		for _, l := range locks {
			lockIDs = append(lockIDs, l.ID)
		}
		grant = &LockGrant{Cells: cells, LockIDs: lockIDs, ExpiresAt: expiresAt}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return grant, nil
}

// FinalizeResult reports which precondition layer a finalize attempt
// reached. IsLocked is true when the caller held valid locks; IsAvailable
// is true only on full success.
type FinalizeResult struct {
	IsAvailable bool
	IsLocked    bool
	Ticket      *model.Ticket
}

// Finalize converts the caller's live locks on the given cells into a
// permanent ticket. Preconditions, checked in order inside one
// transaction:
//
//  1. every cell has an unexpired lock owned by the party — otherwise
//     {false,false} with ErrLockExpiredOrMissing and no mutation;
//  2. every cell is still a SEAT with the availability flag set for this
//     schedule — otherwise {false,true} with ErrSeatUnavailable and no
//     mutation (the lock existed but the seat was invalidated underneath).
//
// On success it flips the flags, deletes the consumed locks and the
// party's waitlist entries for those cells, and creates the ticket, all in
// the same transaction. Retrying after a crash before commit is safe:
// nothing was mutated.
func (e *Engine) Finalize(ctx context.Context, cellIDs []string, partyID, scheduleID string) (FinalizeResult, error) {
	ids := normalizeIDs(cellIDs)
	if len(ids) == 0 {
		return FinalizeResult{}, seatErr(ErrLockExpiredOrMissing, nil)
	}
	var result FinalizeResult
	err := e.withTx(ctx, func(tx *sql.Tx) error {
		result = FinalizeResult{}
		cells, err := e.cells.GetForUpdateTx(ctx, tx, ids)
		if err != nil {
			return err
		}
		live, err := e.locks.LiveByCellsTx(ctx, tx, ids)
		if err != nil {
			return err
		}
		owned := make(map[string]bool, len(live))
		for _, l := range live {
			if l.PartyID == partyID {
				owned[l.CellID] = true
			}
		}
		var unowned []string
		for _, id := range ids {
			if !owned[id] {
				unowned = append(unowned, id)
			}
		}
		if len(unowned) > 0 {
			return seatErr(ErrLockExpiredOrMissing, unowned)
		}
		result.IsLocked = true

		byID := make(map[string]model.Cell, len(cells))
		for _, c := range cells {
			byID[c.ID] = c
		}
		var stale []string
		for _, id := range ids {
			c, ok := byID[id]
			if !ok || c.CellType != model.CellTypeSeat || !c.IsAvailable || c.ScheduleID != scheduleID {
				stale = append(stale, id)
			}
		}
		if len(stale) > 0 {
			return seatErr(ErrSeatUnavailable, stale)
		}

		if err := e.cells.SetAvailabilityTx(ctx, tx, ids, false); err != nil {
			return err
		}
		if _, err := e.locks.DeleteByCellsTx(ctx, tx, ids); err != nil {
			return err
		}
		if err := e.waitlist.DeleteByCellsAndPartyTx(ctx, tx, ids, partyID); err != nil {
			return err
		}
		ticket := &model.Ticket{
			ScheduleID: scheduleID,
			PartyID:    partyID,
			CellIDs:    ids,
		}
		if err := e.tickets.CreateTx(ctx, tx, ticket); err != nil {
			return err
		}
		result.IsAvailable = true
		result.Ticket = ticket
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// Unlock releases the caller's holds on the given cells, in one
// transaction. Only cells carrying a live lock owned by the party can be
// released: foreign or absent holds report ErrLockExpiredOrMissing, and
// sold cells ErrSeatUnavailable, since a sale is reversed through ticket
// cancellation, never through unlock. The availability flag is untouched
// because acquiring a lock never cleared it; deleting the caller's lock
// rows is the entire release.
func (e *Engine) Unlock(ctx context.Context, cellIDs []string, partyID string) error {
	ids := normalizeIDs(cellIDs)
	if len(ids) == 0 {
		return nil
	}
	return e.withTx(ctx, func(tx *sql.Tx) error {
		cells, err := e.cells.GetForUpdateTx(ctx, tx, ids)
		if err != nil {
			return err
		}
		var sold []string
		for _, c := range cells {
			if !c.IsAvailable {
				sold = append(sold, c.ID)
			}
		}
		if len(sold) > 0 {
			return seatErr(ErrSeatUnavailable, sold)
		}
		live, err := e.locks.LiveByCellsTx(ctx, tx, ids)
		if err != nil {
			return err
		}
		owned := make(map[string]bool, len(live))
		for _, l := range live {
			if l.PartyID == partyID {
				owned[l.CellID] = true
			}
		}
		var unowned []string
		for _, id := range ids {
			if !owned[id] {
				unowned = append(unowned, id)
			}
		}
		if len(unowned) > 0 {
			return seatErr(ErrLockExpiredOrMissing, unowned)
		}
		_, err = e.locks.DeleteByCellsAndPartyTx(ctx, tx, ids, partyID)
		return err
	})
}

// CancelTicket reverses a finalized reservation: it marks the ticket
// cancelled and returns every one of its cells to the available state in
// one transaction. Cancellation is refused with ErrCancellationWindowClosed
// once the occurrence start is closer than the configured cutoff.
func (e *Engine) CancelTicket(ctx context.Context, ticketID, partyID string) (*model.Ticket, error) {
	var cancelled *model.Ticket
	err := e.withTx(ctx, func(tx *sql.Tx) error {
		t, startsAt, err := e.tickets.GetForCancelTx(ctx, tx, ticketID, partyID)
		if err != nil {
			return err
		}
		if startsAt.Sub(e.now()) < e.cancelCutoff {
			return ErrCancellationWindowClosed
		}
		if err := e.tickets.MarkCancelledTx(ctx, tx, t.ID); err != nil {
			return err
		}
		ids := normalizeIDs(t.CellIDs)
		if _, err := e.cells.GetForUpdateTx(ctx, tx, ids); err != nil {
			return err
		}
		if err := e.cells.SetAvailabilityTx(ctx, tx, ids, true); err != nil {
			return err
		}
		if _, err := e.locks.DeleteByCellsTx(ctx, tx, ids); err != nil {
			return err
		}
		t.Cancelled = true
		cancelled = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// JoinWaitlist registers the party's interest in a contested (sold) seat.
// Joining an available seat is rejected with ErrSeatNotContested, and a
// cell that already carries the maximum number of entries with
// ErrWaitlistFull. Joining twice is a no-op. The cap check lives inside
// the insert statement itself, so concurrent joins on the same cell
// cannot push it past the cap. Waitlist membership grants visibility
// only: when the seat frees up, the first member to win a lock takes it,
// regardless of join order.
func (e *Engine) JoinWaitlist(ctx context.Context, cellID, partyID string) error {
	c, err := e.cells.GetByID(ctx, cellID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return seatErr(ErrSeatUnavailable, []string{cellID})
		}
		return err
	}
	if c.CellType != model.CellTypeSeat {
		return seatErr(ErrSeatUnavailable, []string{cellID})
	}
	if c.IsAvailable {
		return seatErr(ErrSeatNotContested, []string{cellID})
	}
	inserted, err := e.waitlist.Join(ctx, cellID, partyID, e.waitlistCap)
	if err != nil {
		return err
	}
	if inserted {
		return nil
	}
	// Blocked insert: a repeat join by an existing member stays a no-op
	// even when the cell is at capacity.
	member, err := e.waitlist.IsMember(ctx, cellID, partyID)
	if err != nil {
		return err
	}
	if member {
		return nil
	}
	return seatErr(ErrWaitlistFull, []string{cellID})
}

// LeaveWaitlist drops the party's interest in a cell.
func (e *Engine) LeaveWaitlist(ctx context.Context, cellID, partyID string) error {
	return e.waitlist.Leave(ctx, cellID, partyID)
}

// ContestedSeats lists the sold seats of a schedule that still accept
// waitlist joins.
func (e *Engine) ContestedSeats(ctx context.Context, scheduleID string) ([]model.Cell, error) {
	return e.waitlist.ContestedBySchedule(ctx, scheduleID, e.waitlistCap)
}

// WaitlistFor returns the party's waitlist entries for the given cells of
// a schedule (all of the party's entries when cellIDs is empty).
func (e *Engine) WaitlistFor(ctx context.Context, scheduleID string, cellIDs []string, partyID string) ([]model.WaitlistEntry, error) {
	return e.waitlist.ByCellsAndParty(ctx, scheduleID, cellIDs, partyID)
}

// Tickets returns the party's non-cancelled tickets, newest first.
func (e *Engine) Tickets(ctx context.Context, partyID string, page, limit int) ([]model.Ticket, int, error) {
	return e.tickets.ListByParty(ctx, partyID, page, limit)
}

// Ticket returns one ticket, enforcing ownership.
func (e *Engine) Ticket(ctx context.Context, ticketID, partyID string) (*model.Ticket, error) {
	return e.tickets.GetByIDForParty(ctx, ticketID, partyID)
}

// Sweep reclaims every lock whose expiry has passed, in one transaction,
// and returns the number of rows removed. It touches no availability
// flags: the flag was never cleared at lock time, so removing the row is
// the entire reclamation. Sweep is idempotent and takes no arguments so a
// scheduler can call it blindly on every tick; failures are for the
// scheduler to log and retry on the next tick, never to escalate.
func (e *Engine) Sweep(ctx context.Context) (int64, error) {
	var removed int64
	err := e.withTx(ctx, func(tx *sql.Tx) error {
		n, err := e.locks.DeleteExpiredTx(ctx, tx)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		e.log.Info("expired seat locks reclaimed", "count", removed)
	}
	return removed, nil
}

// withTx runs fn inside a transaction, retrying a bounded number of times
// when the backend reports a serialization failure (MySQL 1213 deadlock or
// 1205 lock wait timeout). Any other error, seat-state errors included,
// rolls back and returns immediately.
func (e *Engine) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	var last error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			e.log.Warn("retrying transaction after conflict", "attempt", attempt, "err", last)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 20 * time.Millisecond):
			}
		}
		err := e.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		last = err
	}
	return fmt.Errorf("%w: %v", ErrTxConflict, last)
}

func (e *Engine) runTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func isSerializationFailure(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == 1213 || me.Number == 1205
}

// normalizeIDs deduplicates and sorts cell ids. Sorting keeps row lock
// acquisition order identical across competing transactions, which is what
// keeps deadlocks rare rather than routine.
func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// unsellable returns the requested ids that cannot be locked: absent from
// the read, not SEAT cells, or already sold.
func unsellable(requested []string, cells []model.Cell) []string {
	byID := make(map[string]model.Cell, len(cells))
	for _, c := range cells {
		byID[c.ID] = c
	}
	var bad []string
	for _, id := range requested {
		c, ok := byID[id]
		if !ok || c.CellType != model.CellTypeSeat || !c.IsAvailable {
			bad = append(bad, id)
		}
	}
	return bad
}
