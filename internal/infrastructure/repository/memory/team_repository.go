package memory

import (
	"context"
	"sync"

	"github.com/ostvang/leaguedesk/internal/domain/team"
)

type TeamRepository struct {
	mu          sync.RWMutex
	teams       map[string]team.Team
	memberships map[string]team.Membership
}

func NewTeamRepository(teams []team.Team, memberships []team.Membership) *TeamRepository {
	r := &TeamRepository{
		teams:       make(map[string]team.Team, len(teams)),
		memberships: make(map[string]team.Membership, len(memberships)),
	}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	for _, m := range memberships {
		r.memberships[membershipKey(m.TeamID, m.UserID)] = m
	}

	return r
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return t, true, nil
}

func (r *TeamRepository) GetMembership(_ context.Context, teamID, userID string) (team.Membership, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.memberships[membershipKey(teamID, userID)]
	if !ok {
		return team.Membership{}, false, nil
	}

	return m, true, nil
}

func (r *TeamRepository) ListMemberships(_ context.Context, teamID string) ([]team.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []team.Membership
	for _, m := range r.memberships {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}

	return out, nil
}

func (r *TeamRepository) ListAdmins(_ context.Context, teamID string) ([]team.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []team.Membership
	for _, m := range r.memberships {
		if m.TeamID == teamID && m.IsAdmin {
			out = append(out, m)
		}
	}

	return out, nil
}

func (r *TeamRepository) ListInconsistent(_ context.Context) ([]team.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []team.Membership
	for _, m := range r.memberships {
		if !m.Consistent() {
			out = append(out, m)
		}
	}

	return out, nil
}

// UpsertMembership holds the write lock across the captain check and
// the write, serializing concurrent promotions the way the SQL backend
// does with its partial unique index.
func (r *TeamRepository) UpsertMembership(_ context.Context, m team.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.Role == team.RoleCaptain {
		for _, existing := range r.memberships {
			if existing.TeamID == m.TeamID && existing.Role == team.RoleCaptain && existing.UserID != m.UserID {
				return team.ErrCaptainTaken
			}
		}
	}

	r.memberships[membershipKey(m.TeamID, m.UserID)] = m
	return nil
}

func membershipKey(teamID, userID string) string {
	return teamID + "::" + userID
}
