package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates the three core tables plus refresh tokens for
// the auth boundary. The two UNIQUE KEYs on bookings are load-bearing:
// they are the final arbiter against double booking regardless of any
// application-level pre-checks, so concurrent inserts for the same desk
// and day (or the same user and day) resolve to exactly one winner.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL DEFAULT '',
		first_name    VARCHAR(100)    NOT NULL DEFAULT '',
		last_name     VARCHAR(100)    NOT NULL DEFAULT '',
		role          VARCHAR(20)     NOT NULL DEFAULT 'EMPLOYEE',
		is_active     TINYINT(1)      NOT NULL DEFAULT 1,
		created_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS desks (
		id                  BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name                VARCHAR(50)     NOT NULL,
		location            VARCHAR(100)    NOT NULL,
		is_available        TINYINT(1)      NOT NULL DEFAULT 1,
		assigned_to_user_id BIGINT UNSIGNED NULL,
		assignment_note     VARCHAR(255)    NULL,
		created_at          TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at          TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_desks_name (name),
		KEY idx_desks_assigned (assigned_to_user_id),
		CONSTRAINT fk_desks_assigned_user FOREIGN KEY (assigned_to_user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id      BIGINT UNSIGNED NOT NULL,
		desk_id      BIGINT UNSIGNED NOT NULL,
		booking_date DATE            NOT NULL,
		status       ENUM('ACTIVE','CANCELLED') NOT NULL DEFAULT 'ACTIVE',
		notes        VARCHAR(500)    NULL,
		created_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_bookings_desk_date (desk_id, booking_date),
		UNIQUE KEY uq_bookings_user_date (user_id, booking_date),
		KEY idx_bookings_date (booking_date),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT fk_bookings_desk FOREIGN KEY (desk_id) REFERENCES desks (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_token_hash (token_hash),
		KEY idx_refresh_user (user_id),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema applies the CREATE TABLE statements in order. Statements
// are idempotent, so running this on every start is safe.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// deskRoom describes one room of the static inventory: a name prefix
// for its desks, the room label, and how many desks it holds.
type deskRoom struct {
	prefix string
	room   string
	count  int
}

// The office floor plan is a fixed seed list; rooms and desk counts are
// not configurable at runtime.
var seedRooms = []deskRoom{
	{prefix: "A", room: "Atlas", count: 50},
	{prefix: "B", room: "Borealis", count: 16},
	{prefix: "C", room: "Cedar", count: 14},
}

// SeedDesks inserts the static desk inventory when the desks table is
// empty. It returns the number of desks inserted (zero when the table
// was already seeded).
func SeedDesks(ctx context.Context, db *sql.DB) (int, error) {
	var existing int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM desks`).Scan(&existing); err != nil {
		return 0, fmt.Errorf("count desks: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	query := `INSERT INTO desks (name, location) VALUES `
	args := make([]interface{}, 0, 160)
	first := true
	for _, r := range seedRooms {
		for i := 1; i <= r.count; i++ {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?)"
			args = append(args, fmt.Sprintf("%s%02d", r.prefix, i), r.room)
		}
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("seed desks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
