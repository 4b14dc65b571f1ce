// Command server runs the desk booking HTTP API.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/deskhub/desk-booking/internal/booking"
	"github.com/deskhub/desk-booking/internal/config"
	"github.com/deskhub/desk-booking/internal/database"
	"github.com/deskhub/desk-booking/internal/handler"
	"github.com/deskhub/desk-booking/internal/logger"
	"github.com/deskhub/desk-booking/internal/metrics"
	"github.com/deskhub/desk-booking/internal/middleware"
	"github.com/deskhub/desk-booking/internal/queue"
	"github.com/deskhub/desk-booking/internal/repository"
	"github.com/deskhub/desk-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		zlog.Fatal("schema migration failed", zap.Error(err))
	}
	if n, err := database.SeedDesks(ctx, db); err != nil {
		cancel()
		zlog.Fatal("desk seeding failed", zap.Error(err))
	} else if n > 0 {
		zlog.Info("seeded desks", zap.Int("count", n))
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		zlog.Warn("redis unavailable; rate limiting and caching disabled")
	}

	// Background consumer for booking lifecycle events (audit log).
	go queue.StartConsumer(zlog)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	desks := repository.NewDeskRepo(db)
	bookings := repository.NewBookingRepo(db)

	sweeper := booking.NewSweeper(bookings, cfg.RetentionDays, zlog)
	allocator := booking.NewAllocator(users, desks, bookings, sweeper, zlog)
	resolver := booking.NewResolver(desks, bookings)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID)
	e.Use(logger.RequestLogger(zlog))
	e.Use(metrics.Middleware)

	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Desks:     handler.NewDeskHandler(resolver),
		Bookings:  handler.NewBookingHandler(allocator, desks, bookings, zlog),
		Admin:     handler.NewAdminHandler(users, desks, bookings, sweeper, zlog),
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
	})

	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := e.Start(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
