package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deskhub/desk-booking/internal/model"
)

// DeskWithAssignee pairs a desk with the display name of its permanent
// assignee, when one exists. It is what the availability resolver
// consumes: the join spares a second round trip per desk.
type DeskWithAssignee struct {
	model.Desk
	AssigneeName *string
}

// DeskRepo provides access to the desks table. Desks are seeded once at
// startup and are read-mostly; only administrative assignment and
// availability toggles mutate them.
type DeskRepo struct {
	db *sql.DB
}

// NewDeskRepo constructs a DeskRepo with the given DB handle.
func NewDeskRepo(db *sql.DB) *DeskRepo {
	return &DeskRepo{db: db}
}

func scanDesk(s interface {
	Scan(dest ...interface{}) error
}, d *model.Desk) error {
	var assigned sql.NullInt64
	var note sql.NullString
	if err := s.Scan(&d.ID, &d.Name, &d.Location, &d.IsAvailable,
		&assigned, &note, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return err
	}
	if assigned.Valid {
		id := uint64(assigned.Int64)
		d.AssignedToUserID = &id
	}
	if note.Valid {
		n := note.String
		d.AssignmentNote = &n
	}
	return nil
}

const deskColumns = "id, name, location, is_available, assigned_to_user_id, assignment_note, created_at, updated_at"

// GetByID retrieves a desk by its ID. It returns ErrDeskNotFound when
// no row exists.
func (r *DeskRepo) GetByID(ctx context.Context, id uint64) (*model.Desk, error) {
	const q = `SELECT ` + deskColumns + ` FROM desks WHERE id = ?`
	var d model.Desk
	if err := scanDesk(r.db.QueryRowContext(ctx, q, id), &d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeskNotFound
		}
		return nil, err
	}
	return &d, nil
}

// GetAssignedToUser returns the desk permanently assigned to the given
// user, or ErrDeskNotFound when the user holds no assignment. Disabled
// desks still count: a user bound to a disabled desk remains blocked
// from ordinary booking until an administrator unassigns them.
func (r *DeskRepo) GetAssignedToUser(ctx context.Context, userID uint64) (*model.Desk, error) {
	const q = `SELECT ` + deskColumns + ` FROM desks WHERE assigned_to_user_id = ? LIMIT 1`
	var d model.Desk
	if err := scanDesk(r.db.QueryRowContext(ctx, q, userID), &d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeskNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListAvailable returns every desk with is_available = true together
// with the assignee's display name when the desk is permanently
// assigned. Results are ordered by desk name so the rendered room
// layout is deterministic.
func (r *DeskRepo) ListAvailable(ctx context.Context) ([]DeskWithAssignee, error) {
	const q = `SELECT d.id, d.name, d.location, d.is_available,
	                  d.assigned_to_user_id, d.assignment_note, d.created_at, d.updated_at,
	                  u.first_name, u.last_name
	           FROM desks d
	           LEFT JOIN users u ON u.id = d.assigned_to_user_id
	           WHERE d.is_available = 1
	           ORDER BY d.name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]DeskWithAssignee, 0)
	for rows.Next() {
		var d DeskWithAssignee
		var assigned sql.NullInt64
		var note sql.NullString
		var first, last sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &d.Location, &d.IsAvailable,
			&assigned, &note, &d.CreatedAt, &d.UpdatedAt, &first, &last); err != nil {
			return nil, err
		}
		if assigned.Valid {
			id := uint64(assigned.Int64)
			d.AssignedToUserID = &id
			name := model.User{FirstName: first.String, LastName: last.String}.DisplayName()
			d.AssigneeName = &name
		}
		if note.Valid {
			n := note.String
			d.AssignmentNote = &n
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Assign binds a desk permanently to a user, replacing any previous
// assignee of that desk. The note is optional. ErrDeskNotFound is
// returned when the desk does not exist. RowsAffected cannot be used to
// detect a missing desk here because MySQL reports zero affected rows
// for value-preserving updates, so existence is checked up front.
func (r *DeskRepo) Assign(ctx context.Context, deskID, userID uint64, note *string) error {
	if _, err := r.GetByID(ctx, deskID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE desks SET assigned_to_user_id = ?, assignment_note = ? WHERE id = ?`,
		userID, note, deskID)
	return err
}

// Unassign clears a desk's permanent assignment and note.
func (r *DeskRepo) Unassign(ctx context.Context, deskID uint64) error {
	if _, err := r.GetByID(ctx, deskID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE desks SET assigned_to_user_id = NULL, assignment_note = NULL WHERE id = ?`,
		deskID)
	return err
}

// SetAvailability soft-enables or soft-disables a desk. A disabled desk
// is removed from every booking and display path.
func (r *DeskRepo) SetAvailability(ctx context.Context, deskID uint64, available bool) error {
	if _, err := r.GetByID(ctx, deskID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE desks SET is_available = ? WHERE id = ?`, available, deskID)
	return err
}
