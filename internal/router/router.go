// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/deskhub/desk-booking/internal/config"
	"github.com/deskhub/desk-booking/internal/handler"
	"github.com/deskhub/desk-booking/internal/middleware"
)

// Deps carries everything the route table needs.
type Deps struct {
	Auth     *handler.AuthHandler
	Desks    *handler.DeskHandler
	Bookings *handler.BookingHandler
	Admin    *handler.AdminHandler

	JWTSecret string
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
}

// Register mounts all routes. Public endpoints are the health check,
// the metrics scrape target and the auth entry points; everything else
// requires a valid access token. Admin routes additionally require the
// ADMIN role.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	limiter := middleware.NewTokenBucket(d.RateLimit, d.Redis)
	cache := middleware.NewRedisCache(d.Cache, d.Redis)

	auth := e.Group("/v1/auth", limiter)
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	v1 := e.Group("/v1", middleware.JWTAuth(d.JWTSecret), middleware.RequireRole("EMPLOYEE", "ADMIN"))
	v1.GET("/me", d.Auth.Me)

	// The desk grid is the hot read path; cache it per viewer and date.
	v1.GET("/desks", d.Desks.List, cache)

	v1.POST("/bookings", d.Bookings.Create, limiter)
	v1.DELETE("/bookings/:id", d.Bookings.Cancel, limiter)
	v1.GET("/bookings", d.Bookings.ListMine)

	admin := v1.Group("/admin", middleware.RequireRole("ADMIN"))
	admin.PUT("/desks/:id/assignment", d.Admin.Assign)
	admin.DELETE("/desks/:id/assignment", d.Admin.Unassign)
	admin.PUT("/desks/:id/availability", d.Admin.SetAvailability)
	admin.GET("/bookings", d.Admin.ListBookingsForDate)
	admin.POST("/maintenance/purge", d.Admin.Purge)
}
