// Package repository implements data access for the seat engine over
// database/sql. Methods with a Tx suffix run inside a caller-owned
// transaction; the caller commits or rolls back. Sentinel errors defined
// here let higher layers distinguish failure scenarios with errors.Is.
package repository

import "errors"

// ErrScheduleNotFound is returned when an occurrence id resolves to no
// schedule row. Schedules are provisioned by the catalog service; the
// engine only reads them.
var ErrScheduleNotFound = errors.New("schedule not found")

// ErrSeatMapNotFound is returned when a schedule has no seat map yet.
var ErrSeatMapNotFound = errors.New("seat map not found")

// ErrSeatMapExists is returned when a seat map is created for a schedule
// that already has one.
var ErrSeatMapExists = errors.New("seat map already exists for schedule")

// ErrTicketNotFound is returned when a ticket lookup yields no row for the
// given id and party.
var ErrTicketNotFound = errors.New("ticket not found")
