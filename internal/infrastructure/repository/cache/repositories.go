// Package cache wraps repositories with a read-through TTL cache.
// Only the read-mostly authority lookups are cached; match and
// notification data changes too often to be worth the invalidation
// traffic.
package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/ostvang/leaguedesk/internal/domain/league"
	"github.com/ostvang/leaguedesk/internal/domain/team"
	"github.com/ostvang/leaguedesk/internal/domain/user"
	basecache "github.com/ostvang/leaguedesk/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:id:"+teamID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetMembership(ctx context.Context, teamID, userID string) (team.Membership, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, membershipKey(teamID, userID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetMembership(ctx, teamID, userID)
		if err != nil {
			return nil, err
		}
		return cachedMembership{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Membership{}, false, err
	}

	cached, _ := v.(cachedMembership)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) ListMemberships(ctx context.Context, teamID string) ([]team.Membership, error) {
	key := "team:members:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListMemberships(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return append([]team.Membership(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Membership)
	return append([]team.Membership(nil), items...), nil
}

func (r *TeamRepository) ListAdmins(ctx context.Context, teamID string) ([]team.Membership, error) {
	key := "team:admins:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListAdmins(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return append([]team.Membership(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Membership)
	return append([]team.Membership(nil), items...), nil
}

// ListInconsistent feeds the consistency sweep and must always see
// fresh rows, so it bypasses the cache.
func (r *TeamRepository) ListInconsistent(ctx context.Context) ([]team.Membership, error) {
	return r.next.ListInconsistent(ctx)
}

func (r *TeamRepository) UpsertMembership(ctx context.Context, m team.Membership) error {
	if err := r.next.UpsertMembership(ctx, m); err != nil {
		return err
	}

	r.cache.Delete(ctx, membershipKey(m.TeamID, m.UserID))
	r.cache.Delete(ctx, "team:members:"+m.TeamID)
	r.cache.Delete(ctx, "team:admins:"+m.TeamID)
	return nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

type cachedMembership struct {
	value  team.Membership
	exists bool
}

func membershipKey(teamID, userID string) string {
	return "team:member:" + teamID + ":" + userID
}

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:id:"+leagueID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) UpdateManager(ctx context.Context, leagueID, currentManagerID, newManagerID string) error {
	if err := r.next.UpdateManager(ctx, leagueID, currentManagerID, newManagerID); err != nil {
		return err
	}

	r.cache.Delete(ctx, "league:id:"+leagueID)
	return nil
}

func (r *LeagueRepository) ListTeams(ctx context.Context, leagueID string) ([]league.LeagueTeam, error) {
	key := "league:teams:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListTeams(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]league.LeagueTeam(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.LeagueTeam)
	return append([]league.LeagueTeam(nil), items...), nil
}

func (r *LeagueRepository) HasTeam(ctx context.Context, leagueID, teamID string) (bool, error) {
	key := "league:has-team:" + leagueID + ":" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		linked, err := r.next.HasTeam(ctx, leagueID, teamID)
		if err != nil {
			return nil, err
		}
		return linked, nil
	})
	if err != nil {
		return false, err
	}

	linked, _ := v.(bool)
	return linked, nil
}

func (r *LeagueRepository) AddTeam(ctx context.Context, lt league.LeagueTeam) error {
	if err := r.next.AddTeam(ctx, lt); err != nil {
		return err
	}

	r.cache.Delete(ctx, "league:teams:"+lt.LeagueID)
	r.cache.Delete(ctx, "league:has-team:"+lt.LeagueID+":"+lt.TeamID)
	return nil
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

type UserRepository struct {
	next  user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "user:id:"+userID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return cachedUserByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return user.User{}, false, err
	}

	cached, _ := v.(cachedUserByID)
	return cached.value, cached.exists, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	ids := append([]string(nil), userIDs...)
	sort.Strings(ids)
	key := "user:ids:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByIDs(ctx, userIDs)
		if err != nil {
			return nil, err
		}
		return append([]user.User(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]user.User)
	return append([]user.User(nil), items...), nil
}

type cachedUserByID struct {
	value  user.User
	exists bool
}
