package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ostvang/leaguedesk/internal/domain/league"
	qb "github.com/ostvang/leaguedesk/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return league.League{
		ID:        row.PublicID,
		Name:      row.Name,
		Sport:     row.Sport,
		ManagerID: row.ManagerPublicID,
	}, true, nil
}

// UpdateManager is a compare-and-swap: the write lands only while
// currentManagerID still holds the seat. Zero rows means the seat
// moved under the caller.
func (r *LeagueRepository) UpdateManager(ctx context.Context, leagueID, currentManagerID, newManagerID string) error {
	query, args, err := qb.Update("leagues").
		Set("manager_public_id", newManagerID).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", leagueID),
			qb.Eq("manager_public_id", currentManagerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update manager query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update league manager: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read update manager result: %w", err)
	}
	if affected == 0 {
		return league.ErrManagerChanged
	}

	return nil
}

func (r *LeagueRepository) ListTeams(ctx context.Context, leagueID string) ([]league.LeagueTeam, error) {
	query, args, err := qb.Select("*").From("league_teams").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league teams query: %w", err)
	}

	var rows []leagueTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list league teams: %w", err)
	}

	out := make([]league.LeagueTeam, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.LeagueTeam{
			LeagueID: row.LeaguePublicID,
			TeamID:   row.TeamPublicID,
		})
	}

	return out, nil
}

func (r *LeagueRepository) HasTeam(ctx context.Context, leagueID, teamID string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("league_teams").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("team_public_id", teamID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build has team query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("count league team link: %w", err)
	}

	return count > 0, nil
}

func (r *LeagueRepository) AddTeam(ctx context.Context, lt league.LeagueTeam) error {
	insertModel := leagueTeamInsertModel{
		LeaguePublicID: lt.LeagueID,
		TeamPublicID:   lt.TeamID,
	}

	query, args, err := qb.InsertModel("league_teams", insertModel,
		`ON CONFLICT (league_public_id, team_public_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("build add league team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add league team: %w", err)
	}

	return nil
}
