package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/deskhub/desk-booking/internal/model"
	"github.com/deskhub/desk-booking/internal/repository"
)

// fakeStore is an in-memory stand-in for the repositories. It enforces
// the same uniqueness rules as the database schema, guarded by a mutex
// so the concurrency tests exercise real contention.
type fakeStore struct {
	mu       sync.Mutex
	users    map[uint64]model.User
	desks    map[uint64]model.Desk
	bookings map[uint64]model.Booking
	nextID   uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[uint64]model.User{},
		desks:    map[uint64]model.Desk{},
		bookings: map[uint64]model.Booking{},
	}
}

func (f *fakeStore) addUser(id uint64, first, last string) {
	f.users[id] = model.User{ID: id, FirstName: first, LastName: last, IsActive: true}
}

func (f *fakeStore) addDesk(id uint64, name, location string) {
	f.desks[id] = model.Desk{ID: id, Name: name, Location: location, IsAvailable: true}
}

func (f *fakeStore) assignDesk(deskID, userID uint64, note *string) {
	d := f.desks[deskID]
	d.AssignedToUserID = &userID
	d.AssignmentNote = note
	f.desks[deskID] = d
}

func (f *fakeStore) disableDesk(deskID uint64) {
	d := f.desks[deskID]
	d.IsAvailable = false
	f.desks[deskID] = d
}

// ----- UserStore -----

func (f *fakeStore) EnsureProfile(_ context.Context, id uint64, email, firstName, lastName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		f.users[id] = model.User{ID: id, Email: email, FirstName: firstName, LastName: lastName, IsActive: true}
	}
	return nil
}

// ----- DeskStore -----

func (f *fakeStore) GetByID(_ context.Context, id uint64) (*model.Desk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.desks[id]
	if !ok {
		return nil, repository.ErrDeskNotFound
	}
	cp := d
	return &cp, nil
}

func (f *fakeStore) GetAssignedToUser(_ context.Context, userID uint64) (*model.Desk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.desks {
		if d.AssignedToUserID != nil && *d.AssignedToUserID == userID {
			cp := d
			return &cp, nil
		}
	}
	return nil, repository.ErrDeskNotFound
}

func (f *fakeStore) ListAvailable(_ context.Context) ([]repository.DeskWithAssignee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.DeskWithAssignee, 0, len(f.desks))
	for _, d := range f.desks {
		if !d.IsAvailable {
			continue
		}
		dw := repository.DeskWithAssignee{Desk: d}
		if d.AssignedToUserID != nil {
			if u, ok := f.users[*d.AssignedToUserID]; ok {
				name := u.DisplayName()
				dw.AssigneeName = &name
			}
		}
		out = append(out, dw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ----- BookingStore -----

func (f *fakeStore) Create(_ context.Context, userID, deskID uint64, date time.Time, notes *string) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.DeskID == deskID && b.BookingDate.Equal(date) {
			return nil, repository.ErrDeskTaken
		}
		if b.UserID == userID && b.BookingDate.Equal(date) {
			return nil, repository.ErrDailyLimit
		}
	}
	f.nextID++
	b := model.Booking{
		ID:          f.nextID,
		UserID:      userID,
		DeskID:      deskID,
		BookingDate: date,
		Status:      model.BookingStatusActive,
		Notes:       notes,
		CreatedAt:   date,
		UpdatedAt:   date,
	}
	f.bookings[b.ID] = b
	cp := b
	return &cp, nil
}

// fakeBookingStore adapts fakeStore to the BookingStore interface. The
// embedded store's GetByID returns desks, so the booking variant lives
// on this wrapper.
type fakeBookingStore struct{ *fakeStore }

func (f fakeBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := b
	return &cp, nil
}

func (f *fakeStore) HasBookingOn(_ context.Context, userID uint64, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.UserID == userID && b.BookingDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListForDate(_ context.Context, date time.Time) ([]repository.BookingWithNames, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.BookingWithNames, 0)
	for _, b := range f.bookings {
		if !b.BookingDate.Equal(date) {
			continue
		}
		bw := repository.BookingWithNames{Booking: b}
		if u, ok := f.users[b.UserID]; ok {
			bw.UserName = u.DisplayName()
		}
		if d, ok := f.desks[b.DeskID]; ok {
			bw.DeskName = d.Name
		}
		out = append(out, bw)
	}
	return out, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uint64, limit int) ([]repository.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.BookingDetail, 0)
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		bd := repository.BookingDetail{Booking: b}
		if d, ok := f.desks[b.DeskID]; ok {
			bd.DeskName = d.Name
			bd.DeskLocation = d.Location
		}
		out = append(out, bd)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.After(out[j].BookingDate)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) DeleteByID(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeStore) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, b := range f.bookings {
		if b.BookingDate.Before(cutoff) {
			delete(f.bookings, id)
			n++
		}
	}
	return n, nil
}
