// Package sweeper schedules the periodic reclamation of expired seat
// locks. The sweep itself lives on the engine and is idempotent; this
// package only gives it a clock. Scheduling goes through asynq so that a
// fleet of server processes shares one tick: the scheduler enqueues a
// sweep task on the configured interval and exactly one worker picks it
// up, which also survives process restarts without relying on in-memory
// timers tied to individual locks.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TypeSweepExpired is the asynq task type for the expiry sweep.
const TypeSweepExpired = "seats:sweep-expired"

// Sweep is the slice of the reservation engine the sweeper needs.
type Sweep interface {
	Sweep(ctx context.Context) (int64, error)
}

// Sweeper owns the asynq scheduler and worker for the expiry sweep.
type Sweeper struct {
	engine    Sweep
	log       *slog.Logger
	interval  time.Duration
	redisOpt  asynq.RedisClientOpt
	server    *asynq.Server
	scheduler *asynq.Scheduler
}

// New builds a Sweeper that sweeps on the given interval.
func New(engine Sweep, log *slog.Logger, redisAddr string, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		engine:   engine,
		log:      log,
		interval: interval,
		redisOpt: asynq.RedisClientOpt{Addr: redisAddr},
	}
}

// Run starts the scheduler and the worker and blocks until Shutdown is
// called. A failed sweep is logged and retried on the next tick; it never
// takes the process down.
func (s *Sweeper) Run() error {
	s.server = asynq.NewServer(s.redisOpt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{"default": 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSweepExpired, s.handleSweep)

	s.scheduler = asynq.NewScheduler(s.redisOpt, nil)
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.scheduler.Register(spec, asynq.NewTask(TypeSweepExpired, nil)); err != nil {
		return fmt.Errorf("register sweep schedule: %w", err)
	}

	go func() {
		if err := s.scheduler.Run(); err != nil {
			s.log.Error("sweep scheduler stopped", "err", err)
		}
	}()
	return s.server.Run(mux)
}

// Shutdown stops the scheduler and worker.
func (s *Sweeper) Shutdown() {
	if s.scheduler != nil {
		s.scheduler.Shutdown()
	}
	if s.server != nil {
		s.server.Shutdown()
	}
}

func (s *Sweeper) handleSweep(ctx context.Context, _ *asynq.Task) error {
	removed, err := s.engine.Sweep(ctx)
	if err != nil {
		// Returning nil keeps asynq from re-running a failed sweep
		// immediately; the next scheduled tick retries anyway.
		s.log.Error("expiry sweep failed; will retry next tick", "err", err)
		return nil
	}
	s.log.Debug("expiry sweep complete", "removed", removed)
	return nil
}
