package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deskhub/desk-booking/internal/booking"
	"github.com/deskhub/desk-booking/internal/middleware"
)

// DeskHandler serves the desk availability grid.
type DeskHandler struct {
	Resolver *booking.Resolver
}

func NewDeskHandler(r *booking.Resolver) *DeskHandler {
	return &DeskHandler{Resolver: r}
}

// List returns every enabled desk with its display status for the
// requested date, as seen by the authenticated caller. The date query
// parameter defaults to today (UTC) when omitted.
//
// GET /v1/desks?date=2026-09-01
func (h *DeskHandler) List(c echo.Context) error {
	raw := c.QueryParam("date")
	var date time.Time
	if raw == "" {
		now := time.Now().UTC()
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		var err error
		date, err = booking.ParseDate(raw)
		if err != nil {
			if errors.Is(err, booking.ErrInvalidDate) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
	}

	viewerID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	views, err := h.Resolver.Resolve(ctx, date, viewerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve availability failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":  date.Format(booking.DateLayout),
		"desks": views,
	})
}
