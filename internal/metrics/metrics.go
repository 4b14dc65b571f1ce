// Package metrics registers the Prometheus collectors for the booking
// service and exposes an Echo middleware recording request durations.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "deskbooking"

var (
	// BookingsCreated counts successful desk reservations.
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created",
	})

	// BookingsCancelled counts cancelled (deleted) bookings.
	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_cancelled_total",
		Help:      "Total number of bookings cancelled",
	})

	// BookingRejections counts business-rule rejections by code, the
	// lost-race DESK_ALREADY_BOOKED conflicts included.
	BookingRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_rejections_total",
			Help:      "Total number of booking attempts rejected, by rejection code",
		},
		[]string{"code"},
	)

	// BookingsPurged counts bookings removed by the retention sweeper.
	BookingsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_purged_total",
		Help:      "Total number of bookings deleted by the retention sweeper",
	})

	// RequestDuration observes HTTP request latency per route and status.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Middleware records a duration sample for every request. The route
// label uses the Echo route pattern, not the raw path, to keep
// cardinality bounded.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.WithLabelValues(
			c.Request().Method,
			route,
			strconv.Itoa(c.Response().Status),
		).Observe(time.Since(start).Seconds())
		return err
	}
}
