// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names for booking lifecycle events.
const (
	BookingCreatedQueue   = "booking.created"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingCreatedEvent is published when a desk reservation is created.
// It carries enough information for downstream consumers to log, notify
// or feed analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	DeskID      uint64 `json:"desk_id"`
	DeskName    string `json:"desk_name"`
	Room        string `json:"room"`
	BookingDate string `json:"booking_date"`
	CreatedAt   string `json:"created_at"`
}

// BookingCancelledEvent is published when a booking is cancelled. The
// row is physically deleted, so the event is the only durable trace of
// the cancellation.
type BookingCancelledEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	DeskID      uint64 `json:"desk_id"`
	BookingDate string `json:"booking_date"`
	CancelledAt string `json:"cancelled_at"`
}
