// Package repository defines the data access layer over MySQL along
// with sentinel error values reused across repositories. The sentinels
// let higher layers such as the booking core and HTTP handlers branch
// on failure kind with errors.Is instead of string matching.
package repository

import "errors"

// ErrEmailExists is returned when registering a user whose email is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrDeskNotFound is returned when a desk lookup matches no row.
var ErrDeskNotFound = errors.New("desk not found")

// ErrBookingNotFound is returned when a booking lookup or deletion
// matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDeskTaken is returned when an insert trips the (desk_id,
// booking_date) uniqueness constraint: another request won the race for
// the same desk and day. Callers should re-resolve availability rather
// than retry the same insert.
var ErrDeskTaken = errors.New("desk already booked for this date")

// ErrDailyLimit is returned when an insert trips the (user_id,
// booking_date) uniqueness constraint: the user already holds a booking
// for that day.
var ErrDailyLimit = errors.New("user already has a booking for this date")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")
