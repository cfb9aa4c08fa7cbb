package postgres

import (
	"database/sql"
	"time"
)

type seasonMatchTableModel struct {
	ID             int64         `db:"id"`
	PublicID       string        `db:"public_id"`
	LeaguePublicID string        `db:"league_public_id"`
	HomePublicID   string        `db:"home_team_public_id"`
	AwayPublicID   string        `db:"away_team_public_id"`
	ScheduledAt    time.Time     `db:"scheduled_at"`
	Status         string        `db:"status"`
	HomeScore      sql.NullInt64 `db:"home_score"`
	AwayScore      sql.NullInt64 `db:"away_score"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

type scoreSubmissionTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	MatchID      string    `db:"match_public_id"`
	TeamPublicID string    `db:"team_public_id"`
	HomeScore    int       `db:"home_score"`
	AwayScore    int       `db:"away_score"`
	Status       string    `db:"status"`
	SubmittedAt  time.Time `db:"submitted_at"`
}

type scoreSubmissionInsertModel struct {
	PublicID     string    `db:"public_id"`
	MatchID      string    `db:"match_public_id"`
	TeamPublicID string    `db:"team_public_id"`
	HomeScore    int       `db:"home_score"`
	AwayScore    int       `db:"away_score"`
	Status       string    `db:"status"`
	SubmittedAt  time.Time `db:"submitted_at"`
}

type pendingSubmissionJoinedRow struct {
	SubmissionPublicID string        `db:"submission_public_id"`
	MatchPublicID      string        `db:"match_public_id"`
	TeamPublicID       string        `db:"team_public_id"`
	SubmissionHome     int           `db:"submission_home"`
	SubmissionAway     int           `db:"submission_away"`
	SubmissionStatus   string        `db:"submission_status"`
	SubmittedAt        time.Time     `db:"submitted_at"`
	LeaguePublicID     string        `db:"league_public_id"`
	HomePublicID       string        `db:"home_team_public_id"`
	AwayPublicID       string        `db:"away_team_public_id"`
	ScheduledAt        time.Time     `db:"scheduled_at"`
	MatchStatus        string        `db:"match_status"`
	HomeScore          sql.NullInt64 `db:"home_score"`
	AwayScore          sql.NullInt64 `db:"away_score"`
}
