package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ostvang/leaguedesk/internal/domain/team"
	qb "github.com/ostvang/leaguedesk/internal/platform/querybuilder"
)

const captainConstraint = "uq_team_captain"

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) GetMembership(ctx context.Context, teamID, userID string) (team.Membership, bool, error) {
	query, args, err := qb.Select("*").From("team_memberships").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("user_public_id", userID),
		).
		ToSQL()
	if err != nil {
		return team.Membership{}, false, fmt.Errorf("build get membership query: %w", err)
	}

	var row membershipTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Membership{}, false, nil
		}
		return team.Membership{}, false, fmt.Errorf("get membership: %w", err)
	}

	return membershipFromRow(row), true, nil
}

func (r *TeamRepository) ListMemberships(ctx context.Context, teamID string) ([]team.Membership, error) {
	return r.listMemberships(ctx, qb.Eq("team_public_id", teamID))
}

func (r *TeamRepository) ListAdmins(ctx context.Context, teamID string) ([]team.Membership, error) {
	return r.listMemberships(ctx,
		qb.Eq("team_public_id", teamID),
		qb.Eq("is_admin", true),
	)
}

func (r *TeamRepository) ListInconsistent(ctx context.Context) ([]team.Membership, error) {
	return r.listMemberships(ctx,
		qb.In("role", leadershipRoleValues()),
		qb.Eq("is_admin", false),
	)
}

func (r *TeamRepository) listMemberships(ctx context.Context, conditions ...qb.Condition) ([]team.Membership, error) {
	query, args, err := qb.Select("*").From("team_memberships").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list memberships query: %w", err)
	}

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	out := make([]team.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipFromRow(row))
	}

	return out, nil
}

// UpsertMembership writes the membership row. Captain uniqueness is a
// partial unique index on (team_public_id) WHERE role = 'CAPTAIN', so
// a losing concurrent writer comes back as team.ErrCaptainTaken.
func (r *TeamRepository) UpsertMembership(ctx context.Context, m team.Membership) error {
	insertModel := membershipInsertModel{
		TeamPublicID: m.TeamID,
		UserPublicID: m.UserID,
		Role:         string(m.Role),
		IsAdmin:      m.IsAdmin,
	}

	query, args, err := qb.InsertModel("team_memberships", insertModel, `ON CONFLICT (team_public_id, user_public_id)
DO UPDATE SET
    role = EXCLUDED.role,
    is_admin = EXCLUDED.is_admin,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert membership query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, captainConstraint) {
			return team.ErrCaptainTaken
		}
		return fmt.Errorf("upsert membership: %w", err)
	}

	return nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:               row.PublicID,
		Name:             row.Name,
		Sport:            row.Sport,
		JoinPasswordHash: nullStringValue(row.JoinPasswordHash),
		InviteCode:       nullStringValue(row.InviteCode),
	}
}

func membershipFromRow(row membershipTableModel) team.Membership {
	return team.Membership{
		TeamID:  row.TeamPublicID,
		UserID:  row.UserPublicID,
		Role:    team.Role(row.Role),
		IsAdmin: row.IsAdmin,
	}
}

func leadershipRoleValues() []any {
	roles := team.LeadershipRoles()
	out := make([]any, 0, len(roles))
	for _, role := range roles {
		out = append(out, string(role))
	}
	return out
}
