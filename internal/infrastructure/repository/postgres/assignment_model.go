package postgres

import (
	"database/sql"
	"time"
)

type assignmentTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	MatchPublicID string         `db:"match_public_id"`
	TeamPublicID  sql.NullString `db:"team_public_id"`
	UserPublicID  string         `db:"user_public_id"`
	Duty          string         `db:"duty"`
	Status        string         `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type assignmentInsertModel struct {
	PublicID      string    `db:"public_id"`
	MatchPublicID string    `db:"match_public_id"`
	TeamPublicID  *string   `db:"team_public_id"`
	UserPublicID  string    `db:"user_public_id"`
	Duty          string    `db:"duty"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
}
