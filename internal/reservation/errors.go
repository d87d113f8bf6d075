package reservation

import (
	"errors"
	"fmt"
	"strings"
)

// Seat-state errors are reported synchronously with no partial mutation;
// the surrounding transaction rolls back whenever one is returned.
var (
	// ErrSeatUnavailable: one or more requested cells are not in the
	// SEAT/available state (missing, non-seat, or already sold).
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrSeatAlreadyLocked: one or more requested cells carry a live,
	// unexpired lock belonging to any party, including the caller.
	ErrSeatAlreadyLocked = errors.New("seat already locked")

	// ErrLockExpiredOrMissing: finalize was attempted without a valid
	// lock owned by the caller on every requested cell.
	ErrLockExpiredOrMissing = errors.New("lock expired or missing")

	// ErrCancellationWindowClosed: cancellation was requested inside the
	// cutoff window before the occurrence start.
	ErrCancellationWindowClosed = errors.New("cancellation window closed")

	// ErrSeatNotContested: a waitlist join targeted a seat that is still
	// available; joinable seats are exactly the sold ones.
	ErrSeatNotContested = errors.New("seat is not contested")

	// ErrWaitlistFull: the cell already has the maximum number of
	// waitlist entries.
	ErrWaitlistFull = errors.New("waitlist full")

	// ErrTxConflict: the backend reported a serialization failure
	// (deadlock or lock wait timeout) on every bounded retry. Callers may
	// retry the whole operation; this is never a seat-level verdict.
	ErrTxConflict = errors.New("transaction conflict")
)

// SeatError carries the offending cell ids alongside one of the seat-state
// sentinels so callers can report exactly which seats failed. It matches
// the underlying sentinel through errors.Is.
type SeatError struct {
	Sentinel error
	CellIDs  []string
}

func (e *SeatError) Error() string {
	if len(e.CellIDs) == 0 {
		return e.Sentinel.Error()
	}
	return fmt.Sprintf("%s: cells [%s]", e.Sentinel.Error(), strings.Join(e.CellIDs, ", "))
}

func (e *SeatError) Unwrap() error { return e.Sentinel }

func seatErr(sentinel error, cellIDs []string) error {
	return &SeatError{Sentinel: sentinel, CellIDs: cellIDs}
}
