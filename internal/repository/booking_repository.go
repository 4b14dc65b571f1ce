package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/deskhub/desk-booking/internal/model"
)

// dateLayout is how booking dates are rendered into SQL parameters. The
// column is a plain DATE; all comparisons happen on calendar days.
const dateLayout = "2006-01-02"

// BookingWithNames joins a booking with the owning user's display name
// and the desk's name. The availability resolver consumes this shape to
// label booked desks without extra round trips.
type BookingWithNames struct {
	model.Booking
	UserName string
	DeskName string
}

// BookingDetail extends a booking with desk name and room for the
// "my bookings" listing.
type BookingDetail struct {
	model.Booking
	DeskName     string
	DeskLocation string
}

// BookingRepo provides access to the bookings table. The two uniqueness
// constraints on (desk_id, booking_date) and (user_id, booking_date)
// are the authoritative concurrency guard; Create translates their
// violations into sentinel errors so callers can branch.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a booking row and reads it back to populate the
// generated ID, status and timestamps. When the insert trips a
// duplicate-key error, the violated index decides the sentinel:
// uq_bookings_desk_date means another request won the desk for that
// day (ErrDeskTaken); uq_bookings_user_date means the user already
// holds a booking that day (ErrDailyLimit).
func (r *BookingRepo) Create(ctx context.Context, userID, deskID uint64, date time.Time, notes *string) (*model.Booking, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (user_id, desk_id, booking_date, notes) VALUES (?, ?, ?, ?)`,
		userID, deskID, date.Format(dateLayout), notes)
	if err != nil {
		if isDuplicateKey(err) {
			if strings.Contains(err.Error(), "uq_bookings_user_date") {
				return nil, ErrDailyLimit
			}
			return nil, ErrDeskTaken
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a booking by id, returning ErrBookingNotFound when no
// row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, desk_id, booking_date, status, notes, created_at, updated_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.DeskID, &b.BookingDate, &b.Status, &notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}
	return &b, nil
}

// HasBookingOn reports whether the user holds a booking on the given
// date. This is the advisory pre-check behind the daily-limit
// rejection; the uq_bookings_user_date constraint remains the true
// guard under concurrency.
func (r *BookingRepo) HasBookingOn(ctx context.Context, userID uint64, date time.Time) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM bookings WHERE user_id = ? AND booking_date = ? AND status = ? LIMIT 1`,
		userID, date.Format(dateLayout), model.BookingStatusActive).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListForDate returns all active bookings for exactly one calendar day,
// each joined to the owner's display name and the desk's name.
func (r *BookingRepo) ListForDate(ctx context.Context, date time.Time) ([]BookingWithNames, error) {
	const q = `SELECT b.id, b.user_id, b.desk_id, b.booking_date, b.status, b.notes,
	                  b.created_at, b.updated_at,
	                  u.first_name, u.last_name, d.name
	           FROM bookings b
	           JOIN users u ON u.id = b.user_id
	           JOIN desks d ON d.id = b.desk_id
	           WHERE b.booking_date = ? AND b.status = ?`
	rows, err := r.db.QueryContext(ctx, q, date.Format(dateLayout), model.BookingStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingWithNames, 0)
	for rows.Next() {
		var b BookingWithNames
		var notes sql.NullString
		var first, last string
		if err := rows.Scan(&b.ID, &b.UserID, &b.DeskID, &b.BookingDate, &b.Status, &notes,
			&b.CreatedAt, &b.UpdatedAt, &first, &last, &b.DeskName); err != nil {
			return nil, err
		}
		if notes.Valid {
			n := notes.String
			b.Notes = &n
		}
		b.UserName = model.User{FirstName: first, LastName: last}.DisplayName()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns the user's bookings joined with desk name and
// room, newest booking date first, capped at limit.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.user_id, b.desk_id, b.booking_date, b.status, b.notes,
	                  b.created_at, b.updated_at, d.name, d.location
	           FROM bookings b
	           JOIN desks d ON d.id = b.desk_id
	           WHERE b.user_id = ?
	           ORDER BY b.booking_date DESC, b.id DESC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var b BookingDetail
		var notes sql.NullString
		if err := rows.Scan(&b.ID, &b.UserID, &b.DeskID, &b.BookingDate, &b.Status, &notes,
			&b.CreatedAt, &b.UpdatedAt, &b.DeskName, &b.DeskLocation); err != nil {
			return nil, err
		}
		if notes.Valid {
			n := notes.String
			b.Notes = &n
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByID physically removes a booking row. ErrBookingNotFound is
// returned when no row matched, so callers can distinguish an already
// cancelled booking from a successful cancellation.
func (r *BookingRepo) DeleteByID(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// PurgeBefore deletes every booking dated strictly before the cutoff
// day and returns how many rows were removed.
func (r *BookingRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM bookings WHERE booking_date < ?`, cutoff.Format(dateLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
