package audit

import "context"

// Repository is append-only.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	ListByTeam(ctx context.Context, teamID string) ([]Entry, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Entry, error)
}
