package postgres

import "time"

type leagueTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	Name            string     `db:"name"`
	Sport           string     `db:"sport"`
	ManagerPublicID string     `db:"manager_public_id"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type leagueTeamTableModel struct {
	ID             int64     `db:"id"`
	LeaguePublicID string    `db:"league_public_id"`
	TeamPublicID   string    `db:"team_public_id"`
	CreatedAt      time.Time `db:"created_at"`
}

type leagueTeamInsertModel struct {
	LeaguePublicID string `db:"league_public_id"`
	TeamPublicID   string `db:"team_public_id"`
}
