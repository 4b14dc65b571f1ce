package model

import "time"

// Booking statuses persisted in bookings.status. Cancellation performs
// a physical delete, so rows visible to readers are always ACTIVE; the
// CANCELLED value exists in the schema but no code path writes it.
const (
	BookingStatusActive    = "ACTIVE"
	BookingStatusCancelled = "CANCELLED"
)

// Booking records one user's whole-day reservation of one desk. The
// pair (desk_id, booking_date) is unique among live rows, as is
// (user_id, booking_date); both are enforced by the database and are
// the authoritative guard against double booking.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who made the booking.
//  DeskID      – desk being reserved.
//  BookingDate – calendar day of the reservation (no time component).
//  Status      – ACTIVE for every live row (see constants above).
//  Notes       – optional free-text note supplied by the user.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booking struct {
	ID          uint64    // bookings.id
	UserID      uint64    // bookings.user_id
	DeskID      uint64    // bookings.desk_id
	BookingDate time.Time // bookings.booking_date (date only, UTC)
	Status      string    // bookings.status
	Notes       *string   // bookings.notes (nullable)
	CreatedAt   time.Time // bookings.created_at
	UpdatedAt   time.Time // bookings.updated_at
}
