package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/stagepass/stagepass/internal/config"
	"github.com/stagepass/stagepass/internal/database"
	"github.com/stagepass/stagepass/internal/handler"
	"github.com/stagepass/stagepass/internal/logger"
	"github.com/stagepass/stagepass/internal/queue"
	"github.com/stagepass/stagepass/internal/reservation"
	"github.com/stagepass/stagepass/internal/router"
	"github.com/stagepass/stagepass/internal/sweeper"
)

func main() {
	cfg := config.Load()
	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	db, err := database.Open(database.Config{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unreachable; cache and rate limiting disabled")
	}

	engine := reservation.New(db, log, reservation.Options{
		HoldDuration:      cfg.LockHold,
		WaitlistCap:       cfg.WaitlistCap,
		CancelCutoff:      cfg.CancelCutoff,
		TxConflictRetries: cfg.TxConflictRetries,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	router.Register(e, handler.NewSeatHandler(engine, log), cfg.JWTSecret, rdb)

	// The sweeper needs Redis for its schedule; without it expired locks
	// still fall out of every query, they just keep their rows longer.
	var sw *sweeper.Sweeper
	if rdb != nil {
		sw = sweeper.New(engine, log, config.RedisAddr(), cfg.SweepInterval)
		go func() {
			if err := sw.Run(); err != nil {
				log.Error("sweeper stopped", "err", err)
			}
		}()
	} else {
		log.Warn("sweeper disabled: no redis for the schedule")
	}

	go func() {
		if err := queue.StartTicketConsumer(log); err != nil {
			log.Error("ticket consumer stopped", "err", err)
		}
	}()

	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil {
			log.Info("http server stopped", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if sw != nil {
		sw.Shutdown()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
