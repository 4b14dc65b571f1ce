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
	"github.com/deskhub/desk-booking/internal/repository"
)

// AdminHandler covers desk administration and maintenance: permanent
// assignments, desk enable/disable, day-level booking oversight and the
// explicit retention purge. All routes behind it require the ADMIN role.
type AdminHandler struct {
	Users    *repository.UserRepo
	Desks    *repository.DeskRepo
	Bookings *repository.BookingRepo
	Sweeper  *booking.Sweeper
	Log      *zap.Logger
}

func NewAdminHandler(u *repository.UserRepo, d *repository.DeskRepo, b *repository.BookingRepo, s *booking.Sweeper, log *zap.Logger) *AdminHandler {
	return &AdminHandler{Users: u, Desks: d, Bookings: b, Sweeper: s, Log: log}
}

func deskIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid desk id")
	}
	return id, nil
}

type assignReq struct {
	UserID uint64  `json:"user_id"`
	Note   *string `json:"note"`
}

// Assign permanently binds a desk to a user. An assigned desk never
// shows as bookable; the assignee is blocked from booking other desks
// for as long as the assignment stands.
//
// PUT /v1/admin/desks/:id/assignment
func (h *AdminHandler) Assign(c echo.Context) error {
	deskID, err := deskIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req assignReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Desks.Assign(ctx, deskID, req.UserID, req.Note); err != nil {
		if errors.Is(err, repository.ErrDeskNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "desk not found"})
		}
		h.Log.Error("assign desk failed", zap.Error(err), zap.Uint64("desk_id", deskID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"desk_id": deskID, "assigned_to_user_id": req.UserID})
}

// Unassign clears a desk's permanent assignment.
//
// DELETE /v1/admin/desks/:id/assignment
func (h *AdminHandler) Unassign(c echo.Context) error {
	deskID, err := deskIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Desks.Unassign(ctx, deskID); err != nil {
		if errors.Is(err, repository.ErrDeskNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "desk not found"})
		}
		h.Log.Error("unassign desk failed", zap.Error(err), zap.Uint64("desk_id", deskID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unassign failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type availabilityReq struct {
	IsAvailable *bool `json:"is_available"`
}

// SetAvailability soft-enables or soft-disables a desk. Disabled desks
// vanish from the grid and reject new bookings; existing bookings stay
// in place until cancelled or purged.
//
// PUT /v1/admin/desks/:id/availability
func (h *AdminHandler) SetAvailability(c echo.Context) error {
	deskID, err := deskIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req availabilityReq
	if err := c.Bind(&req); err != nil || req.IsAvailable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_available required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Desks.SetAvailability(ctx, deskID, *req.IsAvailable); err != nil {
		if errors.Is(err, repository.ErrDeskNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "desk not found"})
		}
		h.Log.Error("set desk availability failed", zap.Error(err), zap.Uint64("desk_id", deskID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"desk_id": deskID, "is_available": *req.IsAvailable})
}

// ListBookingsForDate returns every active booking on one calendar day
// with user and desk names, for administrative oversight.
//
// GET /v1/admin/bookings?date=2026-09-01
func (h *AdminHandler) ListBookingsForDate(c echo.Context) error {
	date, err := booking.ParseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Bookings.ListForDate(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	type row struct {
		bookingResp
		UserName string `json:"user_name"`
		DeskName string `json:"desk_name"`
	}
	out := make([]row, 0, len(items))
	for i := range items {
		out = append(out, row{
			bookingResp: toBookingResp(&items[i].Booking),
			UserName:    items[i].UserName,
			DeskName:    items[i].DeskName,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":     date.Format(booking.DateLayout),
		"bookings": out,
	})
}

type purgeReq struct {
	RetentionDays *int `json:"retention_days"`
}

// Purge runs the retention sweep on demand, so retention does not rely
// on read traffic alone. An optional retention_days in the body
// overrides the configured window for this run; it must be positive.
//
// POST /v1/admin/maintenance/purge
func (h *AdminHandler) Purge(c echo.Context) error {
	var req purgeReq
	// The body is optional; a bind failure just means defaults apply.
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	var (
		deleted int64
		err     error
	)
	if req.RetentionDays != nil {
		if *req.RetentionDays <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "retention_days must be positive"})
		}
		deleted, err = h.Sweeper.PurgeOlderThan(ctx, *req.RetentionDays)
	} else {
		deleted, err = h.Sweeper.Purge(ctx)
	}
	if err != nil {
		h.Log.Error("retention purge failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "purge failed"})
	}
	metrics.BookingsPurged.Add(float64(deleted))
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}
