package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/deskhub/desk-booking/internal/booking"
	"github.com/deskhub/desk-booking/internal/metrics"
	"github.com/deskhub/desk-booking/internal/middleware"
	"github.com/deskhub/desk-booking/internal/model"
	"github.com/deskhub/desk-booking/internal/queue"
	"github.com/deskhub/desk-booking/internal/repository"
	queue_publisher "github.com/deskhub/desk-booking/internal/service"
)

// BookingHandler exposes the reservation write path and the caller's
// own booking history.
type BookingHandler struct {
	Alloc    *booking.Allocator
	Desks    *repository.DeskRepo
	Bookings *repository.BookingRepo
	Log      *zap.Logger
}

func NewBookingHandler(a *booking.Allocator, d *repository.DeskRepo, b *repository.BookingRepo, log *zap.Logger) *BookingHandler {
	return &BookingHandler{Alloc: a, Desks: d, Bookings: b, Log: log}
}

type createBookingReq struct {
	DeskID uint64  `json:"desk_id"`
	Date   string  `json:"date"`
	Notes  *string `json:"notes"`
}

type bookingResp struct {
	ID          uint64  `json:"id"`
	UserID      uint64  `json:"user_id"`
	DeskID      uint64  `json:"desk_id"`
	BookingDate string  `json:"booking_date"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type bookingDetailResp struct {
	bookingResp
	DeskName string `json:"desk_name"`
	Room     string `json:"room"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:          b.ID,
		UserID:      b.UserID,
		DeskID:      b.DeskID,
		BookingDate: b.BookingDate.Format(booking.DateLayout),
		Status:      b.Status,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create reserves a desk for a whole day for the authenticated caller.
// Business-rule rejections return 409 with a machine-readable code so
// clients can re-resolve availability and explain the refusal.
//
// POST /v1/bookings
func (h *BookingHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DeskID == 0 || req.Date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "desk_id and date required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Alloc.Book(ctx, booking.BookRequest{
		DeskID: req.DeskID,
		Date:   req.Date,
		UserID: uid,
		Email:  middleware.Email(c),
		Notes:  req.Notes,
	})
	if err != nil {
		if be := booking.AsError(err); be != nil {
			metrics.BookingRejections.WithLabelValues(be.Code).Inc()
			return c.JSON(http.StatusConflict, echo.Map{"error": be.Message, "code": be.Code})
		}
		switch {
		case errors.Is(err, booking.ErrInvalidDate), errors.Is(err, booking.ErrPastDate):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrDeskNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "desk not found"})
		}
		h.Log.Error("create booking failed", zap.Error(err), zap.Uint64("user_id", uid))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	metrics.BookingsCreated.Inc()

	// Event delivery is best-effort; the reservation is already durable.
	if desk, derr := h.Desks.GetByID(ctx, b.DeskID); derr == nil {
		_ = queue_publisher.PublishBookingCreated(ctx, h.Log, queue.BookingCreatedEvent{
			BookingID:   b.ID,
			UserID:      b.UserID,
			DeskID:      b.DeskID,
			DeskName:    desk.Name,
			Room:        desk.Location,
			BookingDate: b.BookingDate.Format(booking.DateLayout),
			CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Cancel deletes a booking. The owner may cancel their own booking;
// administrators may cancel anyone's.
//
// DELETE /v1/bookings/:id
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.UserID != uid && middleware.Role(c) != "ADMIN" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}

	if err := h.Alloc.Cancel(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			// Lost a race with another cancel; the end state is the same.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		h.Log.Error("cancel booking failed", zap.Error(err), zap.Uint64("booking_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	metrics.BookingsCancelled.Inc()

	_ = queue_publisher.PublishBookingCancelled(ctx, h.Log, queue.BookingCancelledEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		DeskID:      b.DeskID,
		BookingDate: b.BookingDate.Format(booking.DateLayout),
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.NoContent(http.StatusNoContent)
}

// ListMine returns the caller's bookings, newest first. The optional
// limit query parameter caps the page size.
//
// GET /v1/bookings?limit=50
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Alloc.ListBookings(ctx, uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	out := make([]bookingDetailResp, 0, len(items))
	for i := range items {
		out = append(out, bookingDetailResp{
			bookingResp: toBookingResp(&items[i].Booking),
			DeskName:    items[i].DeskName,
			Room:        items[i].DeskLocation,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}
