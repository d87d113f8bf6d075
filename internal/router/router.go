// Package router wires the HTTP surface: which routes exist, which are
// authenticated, and which reads sit behind the response cache.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/stagepass/stagepass/internal/config"
	"github.com/stagepass/stagepass/internal/handler"
	"github.com/stagepass/stagepass/internal/middleware"
)

// Register mounts every route on the Echo instance. All seat, waitlist and
// ticket endpoints require a bearer token carrying the party identity; the
// rate limiter guards the whole group and the cache wraps only the heavy
// read endpoints. Writes are never cached.
func Register(e *echo.Echo, h *handler.SeatHandler, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	v1 := e.Group("/v1")
	v1.Use(middleware.PartyAuth(jwtSecret))
	v1.Use(limitMW)

	// Seat map geometry.
	v1.POST("/schedules/:schedule_id/seat-map", h.CreateSeatMap)
	v1.GET("/schedules/:schedule_id/seat-map", h.GetSeatMap, cacheMW)

	// Availability reads.
	v1.GET("/schedules/:schedule_id/seats/available", h.AvailableSeats, cacheMW)
	v1.GET("/schedules/:schedule_id/seats/contested", h.ContestedSeats, cacheMW)

	// The locking protocol.
	v1.POST("/schedules/:schedule_id/seats/lock", h.LockSeats)
	v1.POST("/schedules/:schedule_id/seats/unlock", h.UnlockSeats)
	v1.POST("/schedules/:schedule_id/seats/reserve", h.ReserveSeats)

	// Waitlist membership.
	v1.POST("/cells/:cell_id/waitlist", h.JoinWaitlist)
	v1.DELETE("/cells/:cell_id/waitlist", h.LeaveWaitlist)
	v1.GET("/schedules/:schedule_id/waitlist", h.MyWaitlist)

	// Tickets.
	v1.GET("/tickets", h.ListTickets)
	v1.GET("/tickets/:ticket_id", h.GetTicket)
	v1.POST("/tickets/:ticket_id/cancel", h.CancelTicket)
}
