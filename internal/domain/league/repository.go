package league

import (
	"context"
	"errors"
)

// ErrManagerChanged is returned by UpdateManager when the stored
// manager no longer matches the expected one.
var ErrManagerChanged = errors.New("league manager changed concurrently")

// Repository describes league persistence needs.
//
// UpdateManager is a compare-and-swap on the manager column: the write
// applies only while currentManagerID still holds, so there is never a
// window with zero or two managers.
type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	UpdateManager(ctx context.Context, leagueID, currentManagerID, newManagerID string) error
	ListTeams(ctx context.Context, leagueID string) ([]LeagueTeam, error)
	HasTeam(ctx context.Context, leagueID, teamID string) (bool, error)
	AddTeam(ctx context.Context, lt LeagueTeam) error
}
