package reservation

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, opts Options) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	e := New(db, slog.New(slog.NewTextHandler(io.Discard, nil)), opts)
	e.now = func() time.Time { return fixedNow }
	return e, mock
}

func cellRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "column_id", "schedule_id", "cell_type", "row_index",
		"is_available", "version", "created_at", "updated_at",
	})
	for i, id := range ids {
		rows.AddRow(id, "col-1", "sched-1", "SEAT", i, true, 0, fixedNow, fixedNow)
	}
	return rows
}

func lockRowCols() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "cell_id", "party_id", "display_name", "expires_at", "created_at"})
}

func TestLockGrantsAllCells(t *testing.T) {
	e, mock := newTestEngine(t, Options{HoldDuration: 3 * time.Minute})

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM cells WHERE id IN \(\?,\?\) ORDER BY id FOR UPDATE`).
		WithArgs("c1", "c2").
		WillReturnRows(cellRows("c1", "c2"))
	mock.ExpectQuery(`SELECT (.+) FROM seat_locks`).
		WithArgs("c1", "c2").
		WillReturnRows(lockRowCols())
	mock.ExpectExec(`INSERT INTO seat_locks`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	// Unordered duplicated input must come out sorted and deduped.
	grant, err := e.Lock(context.Background(), []string{"c2", "c1", "c2"}, "party-1", "Ada")
	require.NoError(t, err)
	assert.Len(t, grant.LockIDs, 2)
	assert.Equal(t, fixedNow.Add(3*time.Minute), grant.ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockRejectsHeldSeat(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	held := lockRowCols().
		AddRow("l1", "c1", "party-2", "Rival", fixedNow.Add(time.Minute), fixedNow)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1", "c2").
		WillReturnRows(cellRows("c1", "c2"))
	mock.ExpectQuery(`FROM seat_locks`).
		WithArgs("c1", "c2").
		WillReturnRows(held)
	mock.ExpectRollback()

	_, err := e.Lock(context.Background(), []string{"c1", "c2"}, "party-1", "Ada")
	require.ErrorIs(t, err, ErrSeatAlreadyLocked)
	var se *SeatError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"c1"}, se.CellIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockRejectsSoldSeat(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	sold := sqlmock.NewRows([]string{
		"id", "column_id", "schedule_id", "cell_type", "row_index",
		"is_available", "version", "created_at", "updated_at",
	}).AddRow("c1", "col-1", "sched-1", "SEAT", 0, false, 3, fixedNow, fixedNow)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1").
		WillReturnRows(sold)
	mock.ExpectRollback()

	_, err := e.Lock(context.Background(), []string{"c1"}, "party-1", "Ada")
	require.ErrorIs(t, err, ErrSeatUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockRejectsMissingCell(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("ghost").
		WillReturnRows(cellRows())
	mock.ExpectRollback()

	_, err := e.Lock(context.Background(), []string{"ghost"}, "party-1", "Ada")
	require.ErrorIs(t, err, ErrSeatUnavailable)
	var se *SeatError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"ghost"}, se.CellIDs)
}

func TestFinalizeSuccess(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	owned := lockRowCols().
		AddRow("l1", "c1", "party-1", "Ada", fixedNow.Add(time.Minute), fixedNow).
		AddRow("l2", "c2", "party-1", "Ada", fixedNow.Add(time.Minute), fixedNow)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1", "c2").
		WillReturnRows(cellRows("c1", "c2"))
	mock.ExpectQuery(`FROM seat_locks`).
		WithArgs("c1", "c2").
		WillReturnRows(owned)
	mock.ExpectExec(`UPDATE cells SET is_available = \?, version = version \+ 1`).
		WithArgs(false, "c1", "c2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM seat_locks WHERE cell_id IN`).
		WithArgs("c1", "c2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM seat_waitlist WHERE party_id = \?`).
		WithArgs("party-1", "c1", "c2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO tickets`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT created_at, updated_at FROM tickets`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedNow, fixedNow))
	mock.ExpectCommit()

	res, err := e.Finalize(context.Background(), []string{"c1", "c2"}, "party-1", "sched-1")
	require.NoError(t, err)
	assert.True(t, res.IsLocked)
	assert.True(t, res.IsAvailable)
	require.NotNil(t, res.Ticket)
	assert.Equal(t, 2, res.Ticket.SeatCount)
	assert.Equal(t, []string{"c1", "c2"}, res.Ticket.CellIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeWithoutLock(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1").
		WillReturnRows(cellRows("c1"))
	mock.ExpectQuery(`FROM seat_locks`).
		WithArgs("c1").
		WillReturnRows(lockRowCols())
	mock.ExpectRollback()

	res, err := e.Finalize(context.Background(), []string{"c1"}, "party-1", "sched-1")
	require.ErrorIs(t, err, ErrLockExpiredOrMissing)
	assert.False(t, res.IsLocked)
	assert.False(t, res.IsAvailable)
}

func TestFinalizeLockOwnedByOtherParty(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	rival := lockRowCols().
		AddRow("l1", "c1", "party-2", "Rival", fixedNow.Add(time.Minute), fixedNow)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1").
		WillReturnRows(cellRows("c1"))
	mock.ExpectQuery(`FROM seat_locks`).
		WithArgs("c1").
		WillReturnRows(rival)
	mock.ExpectRollback()

	res, err := e.Finalize(context.Background(), []string{"c1"}, "party-1", "sched-1")
	require.ErrorIs(t, err, ErrLockExpiredOrMissing)
	assert.False(t, res.IsLocked)
}

func TestFinalizeSeatInvalidatedUnderLock(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	sold := sqlmock.NewRows([]string{
		"id", "column_id", "schedule_id", "cell_type", "row_index",
		"is_available", "version", "created_at", "updated_at",
	}).AddRow("c1", "col-1", "sched-1", "SEAT", 0, false, 5, fixedNow, fixedNow)
	owned := lockRowCols().
		AddRow("l1", "c1", "party-1", "Ada", fixedNow.Add(time.Minute), fixedNow)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1").
		WillReturnRows(sold)
	mock.ExpectQuery(`FROM seat_locks`).
		WithArgs("c1").
		WillReturnRows(owned)
	mock.ExpectRollback()

	res, err := e.Finalize(context.Background(), []string{"c1"}, "party-1", "sched-1")
	require.ErrorIs(t, err, ErrSeatUnavailable)
	assert.True(t, res.IsLocked)
	assert.False(t, res.IsAvailable)
}

func TestFinalizeWrongSchedule(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	owned := lockRowCols().
		AddRow("l1", "c1", "party-1", "Ada", fixedNow.Add(time.Minute), fixedNow)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1").
		WillReturnRows(cellRows("c1")) // cells belong to sched-1
	mock.ExpectQuery(`FROM seat_locks`).
		WithArgs("c1").
		WillReturnRows(owned)
	mock.ExpectRollback()

	res, err := e.Finalize(context.Background(), []string{"c1"}, "party-1", "sched-other")
	require.ErrorIs(t, err, ErrSeatUnavailable)
	assert.True(t, res.IsLocked)
}

func TestUnlockReleasesOwnLocks(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	owned := lockRowCols().
		AddRow("l1", "c1", "party-1", "Ada", fixedNow.Add(time.Minute), fixedNow).
		AddRow("l2", "c2", "party-1", "Ada", fixedNow.Add(time.Minute), fixedNow)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1", "c2").
		WillReturnRows(cellRows("c1", "c2"))
	mock.ExpectQuery(`FROM seat_locks`).
		WithArgs("c1", "c2").
		WillReturnRows(owned)
	mock.ExpectExec(`DELETE FROM seat_locks WHERE party_id = \?`).
		WithArgs("party-1", "c1", "c2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, e.Unlock(context.Background(), []string{"c2", "c1"}, "party-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlockLeavesSoldSeatAlone(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	// Sold cell, no live lock. Unlocking it must refuse rather than flip
	// is_available back while the ticket stays uncancelled; otherwise a
	// second party could lock and finalize the same seat.
	sold := sqlmock.NewRows([]string{
		"id", "column_id", "schedule_id", "cell_type", "row_index",
		"is_available", "version", "created_at", "updated_at",
	}).AddRow("c1", "col-1", "sched-1", "SEAT", 0, false, 4, fixedNow, fixedNow)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1").
		WillReturnRows(sold)
	mock.ExpectRollback()

	err := e.Unlock(context.Background(), []string{"c1"}, "party-1")
	require.ErrorIs(t, err, ErrSeatUnavailable)
	var se *SeatError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"c1"}, se.CellIDs)
	// Any UPDATE or DELETE would fail this: the rollback is the only write.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlockRejectsForeignLock(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	rival := lockRowCols().
		AddRow("l1", "c1", "party-2", "Rival", fixedNow.Add(time.Minute), fixedNow)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1").
		WillReturnRows(cellRows("c1"))
	mock.ExpectQuery(`FROM seat_locks`).
		WithArgs("c1").
		WillReturnRows(rival)
	mock.ExpectRollback()

	err := e.Unlock(context.Background(), []string{"c1"}, "party-1")
	require.ErrorIs(t, err, ErrLockExpiredOrMissing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlockWithoutLiveLock(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1").
		WillReturnRows(cellRows("c1"))
	mock.ExpectQuery(`FROM seat_locks`).
		WithArgs("c1").
		WillReturnRows(lockRowCols())
	mock.ExpectRollback()

	err := e.Unlock(context.Background(), []string{"c1"}, "party-1")
	require.ErrorIs(t, err, ErrLockExpiredOrMissing)
}

func TestUnlockNothingIsNoop(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	require.NoError(t, e.Unlock(context.Background(), nil, "party-1"))
}

func TestSweepDeletesExpired(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM seat_locks WHERE expires_at <= UTC_TIMESTAMP\(\)`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	removed, err := e.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTicketInsideCutoff(t *testing.T) {
	e, mock := newTestEngine(t, Options{CancelCutoff: 24 * time.Hour})

	ticket := sqlmock.NewRows([]string{
		"id", "schedule_id", "party_id", "cell_ids", "seat_count", "cancelled", "created_at", "updated_at",
	}).AddRow("t1", "sched-1", "party-1", []byte(`["c1"]`), 1, false, fixedNow, fixedNow)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tickets WHERE id = \? AND party_id = \? AND cancelled = 0 FOR UPDATE`).
		WithArgs("t1", "party-1").
		WillReturnRows(ticket)
	mock.ExpectQuery(`SELECT starts_at FROM schedules`).
		WithArgs("sched-1").
		WillReturnRows(sqlmock.NewRows([]string{"starts_at"}).AddRow(fixedNow.Add(2 * time.Hour)))
	mock.ExpectRollback()

	_, err := e.CancelTicket(context.Background(), "t1", "party-1")
	require.ErrorIs(t, err, ErrCancellationWindowClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTicketSuccess(t *testing.T) {
	e, mock := newTestEngine(t, Options{CancelCutoff: 24 * time.Hour})

	ticket := sqlmock.NewRows([]string{
		"id", "schedule_id", "party_id", "cell_ids", "seat_count", "cancelled", "created_at", "updated_at",
	}).AddRow("t1", "sched-1", "party-1", []byte(`["c1","c2"]`), 2, false, fixedNow, fixedNow)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tickets WHERE id = \? AND party_id = \? AND cancelled = 0 FOR UPDATE`).
		WithArgs("t1", "party-1").
		WillReturnRows(ticket)
	mock.ExpectQuery(`SELECT starts_at FROM schedules`).
		WithArgs("sched-1").
		WillReturnRows(sqlmock.NewRows([]string{"starts_at"}).AddRow(fixedNow.Add(72 * time.Hour)))
	mock.ExpectExec(`UPDATE tickets SET cancelled = 1`).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1", "c2").
		WillReturnRows(cellRows("c1", "c2"))
	mock.ExpectExec(`UPDATE cells SET is_available = \?`).
		WithArgs(true, "c1", "c2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM seat_locks WHERE cell_id IN`).
		WithArgs("c1", "c2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	cancelled, err := e.CancelTicket(context.Background(), "t1", "party-1")
	require.NoError(t, err)
	assert.True(t, cancelled.Cancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinWaitlistRejectsAvailableSeat(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	mock.ExpectQuery(`FROM cells WHERE id = \?`).
		WithArgs("c1").
		WillReturnRows(cellRows("c1"))

	err := e.JoinWaitlist(context.Background(), "c1", "party-1")
	require.ErrorIs(t, err, ErrSeatNotContested)
}

func TestJoinWaitlistFullCell(t *testing.T) {
	e, mock := newTestEngine(t, Options{WaitlistCap: 2})

	sold := sqlmock.NewRows([]string{
		"id", "column_id", "schedule_id", "cell_type", "row_index",
		"is_available", "version", "created_at", "updated_at",
	}).AddRow("c1", "col-1", "sched-1", "SEAT", 0, false, 1, fixedNow, fixedNow)

	mock.ExpectQuery(`FROM cells WHERE id = \?`).
		WithArgs("c1").
		WillReturnRows(sold)
	// The insert carries the cap predicate; zero rows means it was blocked.
	mock.ExpectExec(`INSERT INTO seat_waitlist`).
		WithArgs(sqlmock.AnyArg(), "c1", "party-1", "c1", 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM seat_waitlist`).
		WithArgs("c1", "party-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := e.JoinWaitlist(context.Background(), "c1", "party-1")
	require.ErrorIs(t, err, ErrWaitlistFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinWaitlistRepeatIsNoop(t *testing.T) {
	e, mock := newTestEngine(t, Options{WaitlistCap: 2})

	sold := sqlmock.NewRows([]string{
		"id", "column_id", "schedule_id", "cell_type", "row_index",
		"is_available", "version", "created_at", "updated_at",
	}).AddRow("c1", "col-1", "sched-1", "SEAT", 0, false, 1, fixedNow, fixedNow)

	mock.ExpectQuery(`FROM cells WHERE id = \?`).
		WithArgs("c1").
		WillReturnRows(sold)
	mock.ExpectExec(`INSERT INTO seat_waitlist`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// Blocked insert but the party is already a member: still a success.
	mock.ExpectQuery(`SELECT 1 FROM seat_waitlist`).
		WithArgs("c1", "party-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	require.NoError(t, e.JoinWaitlist(context.Background(), "c1", "party-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinWaitlistSoldSeat(t *testing.T) {
	e, mock := newTestEngine(t, Options{WaitlistCap: 5})

	sold := sqlmock.NewRows([]string{
		"id", "column_id", "schedule_id", "cell_type", "row_index",
		"is_available", "version", "created_at", "updated_at",
	}).AddRow("c1", "col-1", "sched-1", "SEAT", 0, false, 1, fixedNow, fixedNow)

	mock.ExpectQuery(`FROM cells WHERE id = \?`).
		WithArgs("c1").
		WillReturnRows(sold)
	mock.ExpectExec(`INSERT INTO seat_waitlist`).
		WithArgs(sqlmock.AnyArg(), "c1", "party-1", "c1", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, e.JoinWaitlist(context.Background(), "c1", "party-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinWaitlistUnknownCell(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	mock.ExpectQuery(`FROM cells WHERE id = \?`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	err := e.JoinWaitlist(context.Background(), "ghost", "party-1")
	require.ErrorIs(t, err, ErrSeatUnavailable)
}

func TestWithTxRetriesDeadlock(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM seat_locks WHERE expires_at`).
		WillReturnError(deadlock)
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM seat_locks WHERE expires_at`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := e.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxConflictExhausted(t *testing.T) {
	e, mock := newTestEngine(t, Options{TxConflictRetries: 1})

	lockWait := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM seat_locks WHERE expires_at`).
			WillReturnError(lockWait)
		mock.ExpectRollback()
	}

	_, err := e.Sweep(context.Background())
	require.ErrorIs(t, err, ErrTxConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxDoesNotRetrySeatErrors(t *testing.T) {
	e, mock := newTestEngine(t, Options{})

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cells WHERE id IN`).
		WithArgs("c1").
		WillReturnRows(cellRows())
	mock.ExpectRollback()

	_, err := e.Lock(context.Background(), []string{"c1"}, "party-1", "Ada")
	require.ErrorIs(t, err, ErrSeatUnavailable)
	// A second Begin would fail ExpectationsWereMet: exactly one attempt.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizeIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, normalizeIDs([]string{"c", "a", "b", "a", ""}))
	assert.Empty(t, normalizeIDs([]string{"", ""}))
}

func TestLockEmptyInput(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	_, err := e.Lock(context.Background(), nil, "party-1", "Ada")
	require.ErrorIs(t, err, ErrSeatUnavailable)
}

func TestFinalizeEmptyInput(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	_, err := e.Finalize(context.Background(), []string{""}, "party-1", "sched-1")
	require.ErrorIs(t, err, ErrLockExpiredOrMissing)
}

func TestSeatErrorMessage(t *testing.T) {
	err := seatErr(ErrSeatAlreadyLocked, []string{"c1", "c2"})
	assert.Equal(t, "seat already locked: cells [c1, c2]", err.Error())
	assert.True(t, errors.Is(err, ErrSeatAlreadyLocked))
}
