package model

import "time"

// Ticket is a permanent sale produced by finalizing a lock. CellIDs is the
// serialized set of cells consumed by the sale; it is written once at
// creation. The only mutation a ticket ever sees is cancellation, which
// sets Cancelled and reverts the availability flag of every referenced
// cell in the same transaction.
type Ticket struct {
	ID         string    // tickets.id
	ScheduleID string    // tickets.schedule_id
	PartyID    string    // tickets.party_id
	CellIDs    []string  // tickets.cell_ids (JSON)
	SeatCount  int       // tickets.seat_count
	Cancelled  bool      // tickets.cancelled
	CreatedAt  time.Time // tickets.created_at
	UpdatedAt  time.Time // tickets.updated_at
}
