package model

import "time"

// SeatLock is a short-lived exclusive hold on one cell, bound to the party
// that requested it. At most one unexpired lock exists per cell at any
// instant; this is enforced transactionally at acquisition time, not by a
// uniqueness constraint, because acquisition requires a prior availability
// check. A lock disappears through explicit release, successful
// finalization, or the expiry sweep.
type SeatLock struct {
	ID          string    // seat_locks.id
	CellID      string    // seat_locks.cell_id (weak reference)
	PartyID     string    // seat_locks.party_id
	DisplayName string    // seat_locks.display_name
	ExpiresAt   time.Time // seat_locks.expires_at
	CreatedAt   time.Time // seat_locks.created_at
}

// Expired reports whether the lock has passed its expiry at the given
// instant. Expired locks are invisible to the contention check even before
// the sweeper removes the row.
func (l SeatLock) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}
