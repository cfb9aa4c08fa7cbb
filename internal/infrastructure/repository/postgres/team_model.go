package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	Name             string         `db:"name"`
	Sport            string         `db:"sport"`
	JoinPasswordHash sql.NullString `db:"join_password_hash"`
	InviteCode       sql.NullString `db:"invite_code"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	DeletedAt        *time.Time     `db:"deleted_at"`
}

type membershipTableModel struct {
	ID           int64     `db:"id"`
	TeamPublicID string    `db:"team_public_id"`
	UserPublicID string    `db:"user_public_id"`
	Role         string    `db:"role"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type membershipInsertModel struct {
	TeamPublicID string `db:"team_public_id"`
	UserPublicID string `db:"user_public_id"`
	Role         string `db:"role"`
	IsAdmin      bool   `db:"is_admin"`
}
