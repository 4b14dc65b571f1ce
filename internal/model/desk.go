package model

import "time"

// Desk describes one bookable physical seat in the office. Desks are
// seeded once from a static inventory and rarely mutated afterwards;
// administrators may flip IsAvailable to soft-disable a desk or bind
// it permanently to a single user. A disabled desk disappears from
// every booking and display path. At most one user can be assigned to
// a desk at a time (the column simply holds one nullable user ID).
//
// Fields:
//  ID               – primary key identifier.
//  Name             – unique desk label (e.g. "A01"), unique office-wide.
//  Location         – room the desk belongs to (display/layout concern).
//  IsAvailable      – whether the desk participates in booking at all.
//  AssignedToUserID – user holding a permanent assignment; nil when none.
//  AssignmentNote   – optional free-text note attached to the assignment.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Desk struct {
	ID               uint64    // desks.id
	Name             string    // desks.name
	Location         string    // desks.location
	IsAvailable      bool      // desks.is_available
	AssignedToUserID *uint64   // desks.assigned_to_user_id (nullable)
	AssignmentNote   *string   // desks.assignment_note (nullable)
	CreatedAt        time.Time // desks.created_at
	UpdatedAt        time.Time // desks.updated_at
}
