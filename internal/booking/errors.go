// Package booking implements the desk booking core: the availability
// resolver (read path), the allocator (write path) and the retention
// sweeper. All operations take the caller's identity as an explicit
// argument; nothing is read from ambient session state. The storage
// layer's uniqueness constraints remain the final arbiter against
// double booking — every check in this package before the insert is
// advisory and exists to give callers a friendly, coded rejection.
package booking

import "errors"

// Rejection codes for business-rule failures. Callers branch on the
// code; the accompanying message is display text only.
const (
	CodeUserHasAssignedDesk      = "USER_HAS_ASSIGNED_DESK"
	CodeUserBookingLimitExceeded = "USER_BOOKING_LIMIT_EXCEEDED"
	CodeDeskPermanentlyAssigned  = "DESK_PERMANENTLY_ASSIGNED"
	CodeDeskAlreadyBooked        = "DESK_ALREADY_BOOKED"
)

// Error is a coded business-rule rejection. It is an expected outcome
// of the allocator, not an infrastructure failure: the request was
// understood and refused under the booking rules.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// AsError unwraps a coded rejection from err, or returns nil when err
// is a validation or infrastructure failure instead.
func AsError(err error) *Error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	return nil
}

// Validation errors, rejected before any store call.
var (
	// ErrInvalidDate is returned when the supplied date is not a
	// parseable ISO-8601 calendar day.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrPastDate is returned when the requested booking day lies
	// before today (UTC). Booking for today is allowed.
	ErrPastDate = errors.New("booking date must not be in the past")
)
