package memory

import (
	"context"
	"sync"

	"github.com/ostvang/leaguedesk/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	leagues map[string]league.League
	teams   map[string][]league.LeagueTeam
}

func NewLeagueRepository(leagues []league.League, links []league.LeagueTeam) *LeagueRepository {
	r := &LeagueRepository{
		leagues: make(map[string]league.League, len(leagues)),
		teams:   make(map[string][]league.LeagueTeam),
	}
	for _, l := range leagues {
		r.leagues[l.ID] = l
	}
	for _, lt := range links {
		r.teams[lt.LeagueID] = append(r.teams[lt.LeagueID], lt)
	}

	return r
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leagues[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

// UpdateManager applies the swap only while currentManagerID still
// holds, under the write lock.
func (r *LeagueRepository) UpdateManager(_ context.Context, leagueID, currentManagerID, newManagerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leagues[leagueID]
	if !ok || l.ManagerID != currentManagerID {
		return league.ErrManagerChanged
	}

	l.ManagerID = newManagerID
	r.leagues[leagueID] = l
	return nil
}

func (r *LeagueRepository) ListTeams(_ context.Context, leagueID string) ([]league.LeagueTeam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]league.LeagueTeam(nil), r.teams[leagueID]...), nil
}

func (r *LeagueRepository) HasTeam(_ context.Context, leagueID, teamID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, lt := range r.teams[leagueID] {
		if lt.TeamID == teamID {
			return true, nil
		}
	}

	return false, nil
}

func (r *LeagueRepository) AddTeam(_ context.Context, lt league.LeagueTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.teams[lt.LeagueID] {
		if existing.TeamID == lt.TeamID {
			return nil
		}
	}
	r.teams[lt.LeagueID] = append(r.teams[lt.LeagueID], lt)
	return nil
}
