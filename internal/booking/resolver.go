package booking

import (
	"context"
	"time"

	"github.com/deskhub/desk-booking/internal/repository"
)

// Desk display statuses in precedence order: a permanent assignment
// beats a booking, a booking beats availability. Every consumer of the
// desk grid sees the same precedence because DeriveStatus is the only
// place it is computed.
const (
	StatusAvailable  = "AVAILABLE"
	StatusBooked     = "BOOKED"
	StatusMyBooking  = "MY_BOOKING"
	StatusAssigned   = "ASSIGNED"
	StatusMyAssigned = "MY_ASSIGNED"
)

// DeskView is one desk's display state for a given date and viewer.
// OccupantName is the assignee or booking owner shown next to occupied
// desks; BookingID is set only on the viewer's own booking so the UI
// can offer cancellation in place.
type DeskView struct {
	DeskID       uint64  `json:"desk_id"`
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	Status       string  `json:"status"`
	OccupantName *string `json:"occupant_name,omitempty"`
	Note         *string `json:"note,omitempty"`
	BookingID    *uint64 `json:"booking_id,omitempty"`
}

// Resolver computes per-desk display status for a date. It performs two
// reads and a pure derivation: no mutation, safe to call repeatedly and
// concurrently.
type Resolver struct {
	desks    DeskStore
	bookings BookingStore
}

// NewResolver constructs a Resolver over the given stores.
func NewResolver(desks DeskStore, bookings BookingStore) *Resolver {
	return &Resolver{desks: desks, bookings: bookings}
}

// DeriveStatus computes the display status for one desk. viewerID may
// be zero for an anonymous viewer, in which case the "my" variants
// never apply. The booking argument is nil when no booking exists for
// the desk on the date under consideration.
func DeriveStatus(desk repository.DeskWithAssignee, bk *repository.BookingWithNames, viewerID uint64) string {
	if desk.AssignedToUserID != nil {
		if viewerID != 0 && *desk.AssignedToUserID == viewerID {
			return StatusMyAssigned
		}
		return StatusAssigned
	}
	if bk != nil {
		if viewerID != 0 && bk.UserID == viewerID {
			return StatusMyBooking
		}
		return StatusBooked
	}
	return StatusAvailable
}

// Resolve returns the display state of every enabled desk for the given
// date as seen by viewerID (zero for anonymous). Desks arrive from the
// store ordered by name, so the output ordering is stable across calls.
// The date is not range-checked here; callers restrict the input range.
// Store errors propagate verbatim and no partial result is returned.
func (r *Resolver) Resolve(ctx context.Context, date time.Time, viewerID uint64) ([]DeskView, error) {
	desks, err := r.desks.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := r.bookings.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	// Date is fixed, so desk ID is a sufficient key: the (desk_id,
	// booking_date) uniqueness invariant guarantees one entry per desk.
	byDesk := make(map[uint64]*repository.BookingWithNames, len(bookings))
	for i := range bookings {
		byDesk[bookings[i].DeskID] = &bookings[i]
	}

	views := make([]DeskView, 0, len(desks))
	for _, d := range desks {
		bk := byDesk[d.ID]
		v := DeskView{
			DeskID:   d.ID,
			Name:     d.Name,
			Location: d.Location,
			Status:   DeriveStatus(d, bk, viewerID),
		}
		switch v.Status {
		case StatusAssigned, StatusMyAssigned:
			v.OccupantName = d.AssigneeName
			v.Note = d.AssignmentNote
		case StatusBooked:
			name := bk.UserName
			v.OccupantName = &name
		case StatusMyBooking:
			name := bk.UserName
			v.OccupantName = &name
			id := bk.ID
			v.BookingID = &id
		}
		views = append(views, v)
	}
	return views, nil
}
