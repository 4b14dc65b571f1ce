package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/deskhub/desk-booking/internal/repository"
)

// fixedNow pins "today" to 2026-03-14 UTC for every test.
var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestAllocator(f *fakeStore, retentionDays int) *Allocator {
	bs := fakeBookingStore{f}
	sw := NewSweeper(bs, retentionDays, zap.NewNop())
	sw.now = func() time.Time { return fixedNow }
	a := NewAllocator(f, f, bs, sw, zap.NewNop())
	a.now = func() time.Time { return fixedNow }
	return a
}

func seedBasic(f *fakeStore) {
	f.addUser(1, "Ada", "Lovelace")
	f.addUser(2, "Grace", "Hopper")
	f.addUser(3, "Alan", "Turing")
	f.addDesk(10, "A01", "Atlas")
	f.addDesk(11, "A02", "Atlas")
	f.addDesk(12, "B01", "Borealis")
}

func TestBookSuccess(t *testing.T) {
	f := newFakeStore()
	seedBasic(f)
	a := newTestAllocator(f, 90)

	notes := "window seat"
	b, err := a.Book(context.Background(), BookRequest{
		DeskID: 10, Date: "2026-03-14", UserID: 1, Email: "ada@example.com", Notes: &notes,
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if b.DeskID != 10 || b.UserID != 1 {
		t.Errorf("booking = desk %d user %d, want desk 10 user 1", b.DeskID, b.UserID)
	}
	if b.BookingDate.Format(DateLayout) != "2026-03-14" {
		t.Errorf("booking date = %s, want 2026-03-14", b.BookingDate.Format(DateLayout))
	}
	if b.Notes == nil || *b.Notes != "window seat" {
		t.Errorf("notes not carried through: %v", b.Notes)
	}
}

func TestBookDateValidation(t *testing.T) {
	f := newFakeStore()
	seedBasic(f)
	a := newTestAllocator(f, 90)

	tests := []struct {
		name    string
		date    string
		wantErr error
	}{
		{"garbage", "not-a-date", ErrInvalidDate},
		{"wrong format", "14/03/2026", ErrInvalidDate},
		{"yesterday", "2026-03-13", ErrPastDate},
		{"far past", "2020-01-01", ErrPastDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Book(context.Background(), BookRequest{DeskID: 10, Date: tt.date, UserID: 1})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Book(%q) err = %v, want %v", tt.date, err, tt.wantErr)
			}
		})
	}

	// Today and tomorrow are both bookable.
	for i, date := range []string{"2026-03-14", "2026-03-15"} {
		if _, err := a.Book(context.Background(), BookRequest{DeskID: uint64(10 + i), Date: date, UserID: uint64(1 + i)}); err != nil {
			t.Errorf("Book(%q) unexpected error: %v", date, err)
		}
	}
}

func TestBookAssignedUserRejected(t *testing.T) {
	f := newFakeStore()
	seedBasic(f)
	f.assignDesk(12, 1, nil)
	a := newTestAllocator(f, 90)

	_, err := a.Book(context.Background(), BookRequest{DeskID: 10, Date: "2026-03-14", UserID: 1})
	be := AsError(err)
	if be == nil || be.Code != CodeUserHasAssignedDesk {
		t.Fatalf("err = %v, want code %s", err, CodeUserHasAssignedDesk)
	}
	// The message names the assigned desk so the rejection is actionable.
	if want := "B01"; !strings.Contains(be.Message, want) {
		t.Errorf("message %q does not mention desk %s", be.Message, want)
	}
}

// An assignment blocks booking even before the daily-limit check: the
// assignment rejection must win when both conditions hold.
func TestBookPreconditionOrder(t *testing.T) {
	f := newFakeStore()
	seedBasic(f)
	if _, err := f.Create(context.Background(), 1, 11, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), nil); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	f.assignDesk(12, 1, nil)
	a := newTestAllocator(f, 90)

	_, err := a.Book(context.Background(), BookRequest{DeskID: 10, Date: "2026-03-14", UserID: 1})
	if be := AsError(err); be == nil || be.Code != CodeUserHasAssignedDesk {
		t.Errorf("err = %v, want code %s", err, CodeUserHasAssignedDesk)
	}
}

func TestBookDailyLimit(t *testing.T) {
	f := newFakeStore()
	seedBasic(f)
	a := newTestAllocator(f, 90)

	if _, err := a.Book(context.Background(), BookRequest{DeskID: 10, Date: "2026-03-14", UserID: 1}); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// Second desk, same day.
	_, err := a.Book(context.Background(), BookRequest{DeskID: 11, Date: "2026-03-14", UserID: 1})
	if be := AsError(err); be == nil || be.Code != CodeUserBookingLimitExceeded {
		t.Errorf("same-day err = %v, want code %s", err, CodeUserBookingLimitExceeded)
	}
	// A different day is fine.
	if _, err := a.Book(context.Background(), BookRequest{DeskID: 11, Date: "2026-03-15", UserID: 1}); err != nil {
		t.Errorf("next-day booking: %v", err)
	}
}

func TestBookDeskAssignedToOther(t *testing.T) {
	f := newFakeStore()
	seedBasic(f)
	f.assignDesk(10, 2, nil)
	a := newTestAllocator(f, 90)

	_, err := a.Book(context.Background(), BookRequest{DeskID: 10, Date: "2026-03-14", UserID: 1})
	if be := AsError(err); be == nil || be.Code != CodeDeskPermanentlyAssigned {
		t.Errorf("err = %v, want code %s", err, CodeDeskPermanentlyAssigned)
	}
}

func TestBookDeskTakenByOther(t *testing.T) {
	f := newFakeStore()
	seedBasic(f)
	a := newTestAllocator(f, 90)

	if _, err := a.Book(context.Background(), BookRequest{DeskID: 10, Date: "2026-03-14", UserID: 2}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	_, err := a.Book(context.Background(), BookRequest{DeskID: 10, Date: "2026-03-14", UserID: 1})
	if be := AsError(err); be == nil || be.Code != CodeDeskAlreadyBooked {
		t.Errorf("err = %v, want code %s", err, CodeDeskAlreadyBooked)
	}
}

func TestBookUnknownOrDisabledDesk(t *testing.T) {
	f := newFakeStore()
	seedBasic(f)
	f.disableDesk(12)
	a := newTestAllocator(f, 90)

	if _, err := a.Book(context.Background(), BookRequest{DeskID: 999, Date: "2026-03-14", UserID: 1}); !errors.Is(err, repository.ErrDeskNotFound) {
		t.Errorf("unknown desk err = %v, want ErrDeskNotFound", err)
	}
	// A disabled desk behaves exactly like a missing one.
	if _, err := a.Book(context.Background(), BookRequest{DeskID: 12, Date: "2026-03-14", UserID: 1}); !errors.Is(err, repository.ErrDeskNotFound) {
		t.Errorf("disabled desk err = %v, want ErrDeskNotFound", err)
	}
}

// Many users race for one desk on one day; the store's uniqueness rule
// must let exactly one through and reject the rest as already booked.
func TestBookConcurrentSingleWinner(t *testing.T) {
	f := newFakeStore()
	f.addDesk(10, "A01", "Atlas")
	const racers = 32
	for i := uint64(1); i <= racers; i++ {
		f.addUser(i, "User", "")
	}
	a := newTestAllocator(f, 90)

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.Book(context.Background(), BookRequest{
				DeskID: 10, Date: "2026-03-20", UserID: uint64(i + 1),
			})
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case AsError(err) != nil && AsError(err).Code == CodeDeskAlreadyBooked:
			lost++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Errorf("winners = %d, want exactly 1", won)
	}
	if lost != racers-1 {
		t.Errorf("losers = %d, want %d", lost, racers-1)
	}
}

func TestCancel(t *testing.T) {
	f := newFakeStore()
	seedBasic(f)
	a := newTestAllocator(f, 90)

	b, err := a.Book(context.Background(), BookRequest{DeskID: 10, Date: "2026-03-14", UserID: 1})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if err := a.Cancel(context.Background(), b.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	// Second cancel reports the row as gone.
	if err := a.Cancel(context.Background(), b.ID); !errors.Is(err, repository.ErrBookingNotFound) {
		t.Errorf("double cancel err = %v, want ErrBookingNotFound", err)
	}
	// The desk is immediately bookable again by someone else.
	if _, err := a.Book(context.Background(), BookRequest{DeskID: 10, Date: "2026-03-14", UserID: 2}); err != nil {
		t.Errorf("rebook after cancel: %v", err)
	}
}

func TestOwner(t *testing.T) {
	f := newFakeStore()
	seedBasic(f)
	a := newTestAllocator(f, 90)

	b, err := a.Book(context.Background(), BookRequest{DeskID: 10, Date: "2026-03-14", UserID: 2})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	owner, err := a.Owner(context.Background(), b.ID)
	if err != nil || owner != 2 {
		t.Errorf("Owner = %d, %v; want 2, nil", owner, err)
	}
	if _, err := a.Owner(context.Background(), 999); !errors.Is(err, repository.ErrBookingNotFound) {
		t.Errorf("Owner(999) err = %v, want ErrBookingNotFound", err)
	}
}

func TestListBookingsSweepsAndLimits(t *testing.T) {
	f := newFakeStore()
	seedBasic(f)
	a := newTestAllocator(f, 90)

	// One booking well past retention, one current.
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := f.Create(context.Background(), 1, 10, old, nil); err != nil {
		t.Fatalf("seed old booking: %v", err)
	}
	current := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if _, err := f.Create(context.Background(), 1, 11, current, nil); err != nil {
		t.Fatalf("seed current booking: %v", err)
	}

	items, err := a.ListBookings(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d bookings, want 1 (expired row should be purged)", len(items))
	}
	if items[0].DeskName != "A02" || items[0].DeskLocation != "Atlas" {
		t.Errorf("detail = %q/%q, want A02/Atlas", items[0].DeskName, items[0].DeskLocation)
	}
}
