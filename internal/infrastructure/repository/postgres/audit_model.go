package postgres

import (
	"database/sql"
	"time"
)

type auditEntryTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	ActorPublicID  string         `db:"actor_public_id"`
	TeamPublicID   sql.NullString `db:"team_public_id"`
	LeaguePublicID sql.NullString `db:"league_public_id"`
	Action         string         `db:"action"`
	Payload        string         `db:"payload"`
	CreatedAt      time.Time      `db:"created_at"`
}

type auditEntryInsertModel struct {
	PublicID       string    `db:"public_id"`
	ActorPublicID  string    `db:"actor_public_id"`
	TeamPublicID   *string   `db:"team_public_id"`
	LeaguePublicID *string   `db:"league_public_id"`
	Action         string    `db:"action"`
	Payload        string    `db:"payload"`
	CreatedAt      time.Time `db:"created_at"`
}
