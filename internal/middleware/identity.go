package middleware

// identity.go defines helpers shared across middleware files for
// pulling the caller's identity out of the Echo context after JWTAuth
// has run. JWT numbers arrive as float64 from encoding/json, so the
// extraction tolerates several representations.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// UserID extracts the authenticated user's numeric id from the context.
// The second return is false when no usable value is present.
func UserID(c echo.Context) (uint64, bool) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, true
	case int:
		return uint64(t), true
	case int64:
		return uint64(t), true
	case float64:
		return uint64(t), true
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Email returns the email claim, or "" when absent.
func Email(c echo.Context) string {
	if s, ok := c.Get("email").(string); ok {
		return s
	}
	return ""
}

// Role returns the role claim, or "" when absent.
func Role(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// rateKeyUserID renders the caller's id for rate-limit bucket keys;
// unauthenticated callers share the "anon" bucket.
func rateKeyUserID(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
