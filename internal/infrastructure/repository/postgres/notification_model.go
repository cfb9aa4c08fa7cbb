package postgres

import (
	"database/sql"
	"time"
)

type notificationTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	UserPublicID string         `db:"user_public_id"`
	TeamPublicID sql.NullString `db:"team_public_id"`
	Type         string         `db:"type"`
	Payload      string         `db:"payload"`
	Read         bool           `db:"read"`
	CreatedAt    time.Time      `db:"created_at"`
}

type notificationInsertModel struct {
	PublicID     string    `db:"public_id"`
	UserPublicID string    `db:"user_public_id"`
	TeamPublicID *string   `db:"team_public_id"`
	Type         string    `db:"type"`
	Payload      string    `db:"payload"`
	Read         bool      `db:"read"`
	CreatedAt    time.Time `db:"created_at"`
}
