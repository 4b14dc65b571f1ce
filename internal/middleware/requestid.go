package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// requestIDHeader is the header carrying the request correlation id.
const requestIDHeader = "X-Request-ID"

// RequestID attaches a unique request id to every request, honoring an
// id supplied by an upstream proxy. The id is echoed in the response
// headers and stored in the context for the request logger.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rid := c.Request().Header.Get(requestIDHeader)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Request().Header.Set(requestIDHeader, rid)
		c.Response().Header().Set(requestIDHeader, rid)
		c.Set("request_id", rid)
		return next(c)
	}
}
