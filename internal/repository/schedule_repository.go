package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ScheduleRepo reads the schedules table. Schedules are owned by the
// catalog service; the engine only resolves occurrence ids and start
// times, never creates or edits them.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a ScheduleRepo bound to the provided database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// Exists reports whether the schedule id resolves to a row.
func (r *ScheduleRepo) Exists(ctx context.Context, scheduleID string) (bool, error) {
	const q = `SELECT 1 FROM schedules WHERE id = ?`
	var one int
	err := r.db.QueryRowContext(ctx, q, scheduleID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// StartsAt returns the occurrence start time in UTC. Returns
// ErrScheduleNotFound when the id is unknown.
func (r *ScheduleRepo) StartsAt(ctx context.Context, scheduleID string) (time.Time, error) {
	const q = `SELECT starts_at FROM schedules WHERE id = ?`
	var t time.Time
	if err := r.db.QueryRowContext(ctx, q, scheduleID).Scan(&t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrScheduleNotFound
		}
		return time.Time{}, err
	}
	return t.UTC(), nil
}
