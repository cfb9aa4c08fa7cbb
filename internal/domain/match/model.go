package match

import (
	"fmt"
	"time"
)

// Match lifecycle status. Canonical scores are present only once the
// match is COMPLETED.
const (
	StatusScheduled = "SCHEDULED"
	StatusPostponed = "POSTPONED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// SubmissionStatus is the per-side score report state.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionAgreed   SubmissionStatus = "AGREED"
	SubmissionDisputed SubmissionStatus = "DISPUTED"
)

// SeasonMatch is one scheduled game between two league teams.
type SeasonMatch struct {
	ID          string
	LeagueID    string
	HomeTeamID  string
	AwayTeamID  string
	ScheduledAt time.Time
	Status      string
	HomeScore   *int
	AwayScore   *int
}

// HasTeam reports whether teamID plays in the match.
func (m SeasonMatch) HasTeam(teamID string) bool {
	return teamID != "" && (m.HomeTeamID == teamID || m.AwayTeamID == teamID)
}

// Opponent returns the other side of the match.
func (m SeasonMatch) Opponent(teamID string) string {
	switch teamID {
	case m.HomeTeamID:
		return m.AwayTeamID
	case m.AwayTeamID:
		return m.HomeTeamID
	default:
		return ""
	}
}

func (m SeasonMatch) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.LeagueID == "" {
		return fmt.Errorf("match league id is required")
	}
	if m.HomeTeamID == "" || m.AwayTeamID == "" {
		return fmt.Errorf("match team ids are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match teams must differ")
	}

	return nil
}

// ScoreSubmission is one side's reported result for a match. At most
// one PENDING submission per (match, team); a later report from the
// same side replaces the earlier one.
type ScoreSubmission struct {
	ID          string
	MatchID     string
	TeamID      string
	Home        int
	Away        int
	Status      SubmissionStatus
	SubmittedAt time.Time
}

// SameScore compares two submissions on the literal numeric pair.
func (s ScoreSubmission) SameScore(other ScoreSubmission) bool {
	return s.Home == other.Home && s.Away == other.Away
}
