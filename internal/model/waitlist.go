package model

import "time"

// WaitlistEntry records a party's interest in a contested cell. Entries are
// unique per (cell, party) pair. Membership is the only semantic: there is
// no priority ordering, and the first party to win a lock takes the seat
// regardless of join order.
type WaitlistEntry struct {
	ID        string    // seat_waitlist.id
	CellID    string    // seat_waitlist.cell_id (weak reference)
	PartyID   string    // seat_waitlist.party_id
	CreatedAt time.Time // seat_waitlist.created_at
}
