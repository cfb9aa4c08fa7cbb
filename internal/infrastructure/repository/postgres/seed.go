package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ostvang/leaguedesk/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo dataset into an empty database. It is
// a no-op once any league exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count leagues for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(label, query string, params map[string]any) error {
		sqlQuery, args, err := sqlx.Named(query, params)
		if err != nil {
			return fmt.Errorf("bind seed %s query: %w", label, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed %s: %w", label, err)
		}
		return nil
	}

	for _, u := range memory.SeedUsers() {
		if err := exec("user "+u.ID, `
INSERT INTO users (public_id, email, name)
VALUES (:public_id, :email, :name)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": u.ID,
			"email":     u.Email,
			"name":      u.Name,
		}); err != nil {
			return err
		}
	}

	for _, l := range memory.SeedLeagues() {
		if err := exec("league "+l.ID, `
INSERT INTO leagues (public_id, name, sport, manager_public_id)
VALUES (:public_id, :name, :sport, :manager_public_id)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":         l.ID,
			"name":              l.Name,
			"sport":             l.Sport,
			"manager_public_id": l.ManagerID,
		}); err != nil {
			return err
		}
	}

	for _, t := range memory.SeedTeams() {
		if err := exec("team "+t.ID, `
INSERT INTO teams (public_id, name, sport, join_password_hash, invite_code)
VALUES (:public_id, :name, :sport, :join_password_hash, :invite_code)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":          t.ID,
			"name":               t.Name,
			"sport":              t.Sport,
			"join_password_hash": optionalString(t.JoinPasswordHash),
			"invite_code":        optionalString(t.InviteCode),
		}); err != nil {
			return err
		}
	}

	for _, m := range memory.SeedMemberships() {
		if err := exec(fmt.Sprintf("membership %s/%s", m.TeamID, m.UserID), `
INSERT INTO team_memberships (team_public_id, user_public_id, role, is_admin)
VALUES (:team_public_id, :user_public_id, :role, :is_admin)
ON CONFLICT (team_public_id, user_public_id) DO NOTHING`, map[string]any{
			"team_public_id": m.TeamID,
			"user_public_id": m.UserID,
			"role":           string(m.Role),
			"is_admin":       m.IsAdmin,
		}); err != nil {
			return err
		}
	}

	for _, lt := range memory.SeedLeagueTeams() {
		if err := exec(fmt.Sprintf("league team %s/%s", lt.LeagueID, lt.TeamID), `
INSERT INTO league_teams (league_public_id, team_public_id)
VALUES (:league_public_id, :team_public_id)
ON CONFLICT (league_public_id, team_public_id) DO NOTHING`, map[string]any{
			"league_public_id": lt.LeagueID,
			"team_public_id":   lt.TeamID,
		}); err != nil {
			return err
		}
	}

	for _, m := range memory.SeedMatches() {
		if err := exec("match "+m.ID, `
INSERT INTO season_matches (public_id, league_public_id, home_team_public_id, away_team_public_id, scheduled_at, status)
VALUES (:public_id, :league_public_id, :home_team_public_id, :away_team_public_id, :scheduled_at, :status)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":           m.ID,
			"league_public_id":    m.LeagueID,
			"home_team_public_id": m.HomeTeamID,
			"away_team_public_id": m.AwayTeamID,
			"scheduled_at":        m.ScheduledAt,
			"status":              string(m.Status),
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
