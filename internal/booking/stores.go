package booking

import (
	"context"
	"time"

	"github.com/deskhub/desk-booking/internal/model"
	"github.com/deskhub/desk-booking/internal/repository"
)

// The core depends on narrow store interfaces rather than the concrete
// repositories so the booking rules can be exercised against in-memory
// fakes. The repository types satisfy these interfaces directly.

// UserStore covers the self-healing profile write the allocator
// performs before booking.
type UserStore interface {
	EnsureProfile(ctx context.Context, id uint64, email, firstName, lastName string) error
}

// DeskStore covers the desk reads the resolver and allocator need.
type DeskStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Desk, error)
	GetAssignedToUser(ctx context.Context, userID uint64) (*model.Desk, error)
	ListAvailable(ctx context.Context) ([]repository.DeskWithAssignee, error)
}

// BookingStore covers booking reads and writes. Create must enforce
// the (desk, date) and (user, date) uniqueness invariants and signal
// violations with repository.ErrDeskTaken / repository.ErrDailyLimit.
type BookingStore interface {
	Create(ctx context.Context, userID, deskID uint64, date time.Time, notes *string) (*model.Booking, error)
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	HasBookingOn(ctx context.Context, userID uint64, date time.Time) (bool, error)
	ListForDate(ctx context.Context, date time.Time) ([]repository.BookingWithNames, error)
	ListByUser(ctx context.Context, userID uint64, limit int) ([]repository.BookingDetail, error)
	DeleteByID(ctx context.Context, id uint64) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
