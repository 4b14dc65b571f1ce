package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/deskhub/desk-booking/internal/model"
	"github.com/deskhub/desk-booking/internal/repository"
)

// BookRequest carries one desk reservation attempt. Identity fields
// come from verified token claims and are passed explicitly; Email,
// FirstName and LastName are only used to self-heal a missing profile.
type BookRequest struct {
	DeskID    uint64
	Date      string // ISO-8601 calendar day
	UserID    uint64
	Email     string
	FirstName string
	LastName  string
	Notes     *string
}

// Allocator is the write-path component: it validates and executes
// reservation requests under the booking rules and executes
// cancellations. It holds no state of its own; all shared state lives
// in the store, and concurrent allocators compete only through the
// store's uniqueness constraints.
type Allocator struct {
	users    UserStore
	desks    DeskStore
	bookings BookingStore
	sweeper  *Sweeper
	log      *zap.Logger
	now      func() time.Time
}

// NewAllocator constructs an Allocator. The sweeper is invoked
// opportunistically before booking listings.
func NewAllocator(users UserStore, desks DeskStore, bookings BookingStore, sweeper *Sweeper, log *zap.Logger) *Allocator {
	return &Allocator{
		users:    users,
		desks:    desks,
		bookings: bookings,
		sweeper:  sweeper,
		log:      log,
		now:      time.Now,
	}
}

// Book attempts to reserve a desk for a whole day. Preconditions are
// checked in order, each short-circuiting on failure:
//
//  1. the date must parse and must not lie before today (UTC);
//  2. the caller's profile is created if missing (self-healing);
//  3. a caller holding any permanent desk assignment cannot book;
//  4. the caller must not already hold a booking for that day;
//  5. the desk must exist, be enabled, and not be permanently
//     assigned to someone else;
//  6. the insert itself — the uniqueness constraints decide any race
//     that slipped past the checks above, and a violation surfaces as
//     a coded rejection telling the caller to re-resolve availability.
func (a *Allocator) Book(ctx context.Context, req BookRequest) (*model.Booking, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if date.Before(today(a.now())) {
		return nil, ErrPastDate
	}

	if err := a.users.EnsureProfile(ctx, req.UserID, req.Email, req.FirstName, req.LastName); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	assigned, err := a.desks.GetAssignedToUser(ctx, req.UserID)
	switch {
	case err == nil:
		return nil, &Error{
			Code:    CodeUserHasAssignedDesk,
			Message: fmt.Sprintf("you have a permanently assigned desk (%s) and cannot make bookings", assigned.Name),
		}
	case !errors.Is(err, repository.ErrDeskNotFound):
		return nil, err
	}

	taken, err := a.bookings.HasBookingOn(ctx, req.UserID, date)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &Error{
			Code:    CodeUserBookingLimitExceeded,
			Message: "you already have a booking for this date",
		}
	}

	desk, err := a.desks.GetByID(ctx, req.DeskID)
	if err != nil {
		return nil, err
	}
	if !desk.IsAvailable {
		return nil, repository.ErrDeskNotFound
	}
	if desk.AssignedToUserID != nil && *desk.AssignedToUserID != req.UserID {
		return nil, &Error{
			Code:    CodeDeskPermanentlyAssigned,
			Message: fmt.Sprintf("desk %s is permanently assigned to another user", desk.Name),
		}
	}

	b, err := a.bookings.Create(ctx, req.UserID, req.DeskID, date, req.Notes)
	switch {
	case errors.Is(err, repository.ErrDeskTaken):
		return nil, &Error{
			Code:    CodeDeskAlreadyBooked,
			Message: fmt.Sprintf("desk %s was just booked by someone else", desk.Name),
		}
	case errors.Is(err, repository.ErrDailyLimit):
		return nil, &Error{
			Code:    CodeUserBookingLimitExceeded,
			Message: "you already have a booking for this date",
		}
	case err != nil:
		return nil, err
	}
	return b, nil
}

// Cancel physically deletes a booking by id. Ownership is not checked
// here; the HTTP boundary restricts cancellation to the owner or an
// administrator before calling in. Cancelling a booking that no longer
// exists returns repository.ErrBookingNotFound.
func (a *Allocator) Cancel(ctx context.Context, bookingID uint64) error {
	return a.bookings.DeleteByID(ctx, bookingID)
}

// Owner returns the booking's owning user for boundary-level access
// control checks.
func (a *Allocator) Owner(ctx context.Context, bookingID uint64) (uint64, error) {
	b, err := a.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	return b.UserID, nil
}

// ListBookings returns the user's bookings, newest first. A retention
// sweep runs first on a best-effort basis: a failed purge is logged and
// never blocks the read it piggy-backs on.
func (a *Allocator) ListBookings(ctx context.Context, userID uint64, limit int) ([]repository.BookingDetail, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if a.sweeper != nil {
		if _, err := a.sweeper.Purge(ctx); err != nil {
			a.log.Warn("retention sweep failed", zap.Error(err))
		}
	}
	return a.bookings.ListByUser(ctx, userID, limit)
}
