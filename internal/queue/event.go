// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketIssuedEvent is published when a reservation is finalized into a
// ticket. It carries enough for downstream consumers (notification,
// analytics) to act without querying the primary database.
type TicketIssuedEvent struct {
	TicketID    string   `json:"ticket_id"`
	ScheduleID  string   `json:"schedule_id"`
	PartyID     string   `json:"party_id"`
	DisplayName string   `json:"display_name"`
	CellIDs     []string `json:"cell_ids"`
	SeatCount   int      `json:"seat_count"`
	IssuedAt    string   `json:"issued_at"`
}

// TicketCancelledEvent is published when a finalized ticket is cancelled
// and its seats return to the pool. Waitlisted parties are the intended
// audience downstream.
type TicketCancelledEvent struct {
	TicketID    string   `json:"ticket_id"`
	ScheduleID  string   `json:"schedule_id"`
	PartyID     string   `json:"party_id"`
	CellIDs     []string `json:"cell_ids"`
	CancelledAt string   `json:"cancelled_at"`
}
