package match

import (
	"context"
	"time"
)

// Repository describes match and score submission persistence needs.
//
// UpsertSubmission replaces any existing PENDING submission from the
// same team for the same match (one row per match/team pair, enforced
// by the backend).
type Repository interface {
	GetByID(ctx context.Context, matchID string) (SeasonMatch, bool, error)
	// SettleAgreed writes the canonical score, flips the match to
	// COMPLETED, stores the agreeing submission and marks the
	// counterpart AGREED in one atomic step. Returns false when the
	// match is no longer open for completion; in that case nothing is
	// written.
	SettleAgreed(ctx context.Context, matchID string, agreed ScoreSubmission, counterpartID string) (bool, error)
	// ListUnrecorded returns SCHEDULED matches of the league before
	// cutoff that have neither a canonical score nor any submission,
	// most recently scheduled first.
	ListUnrecorded(ctx context.Context, leagueID string, cutoff time.Time) ([]SeasonMatch, error)

	GetPendingSubmission(ctx context.Context, matchID string) (ScoreSubmission, bool, error)
	UpsertSubmission(ctx context.Context, s ScoreSubmission) error
	UpdateSubmissionStatus(ctx context.Context, submissionID string, status SubmissionStatus) error
	// ListPendingSubmissions returns the league's pending submissions
	// joined with their match, newest first.
	ListPendingSubmissions(ctx context.Context, leagueID string) ([]PendingSubmission, error)
}

// PendingSubmission is a submission joined with its match for the
// reconciliation dashboard.
type PendingSubmission struct {
	Submission ScoreSubmission
	Match      SeasonMatch
}
