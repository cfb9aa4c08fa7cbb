package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ostvang/leaguedesk/internal/domain/match"
	qb "github.com/ostvang/leaguedesk/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.SeasonMatch, bool, error) {
	query, args, err := qb.Select("*").From("season_matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return match.SeasonMatch{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row seasonMatchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.SeasonMatch{}, false, nil
		}
		return match.SeasonMatch{}, false, fmt.Errorf("get match: %w", err)
	}

	return matchFromRow(row), true, nil
}

// SettleAgreed completes the match and records both AGREED submissions
// in one transaction. The status guard on the match update makes the
// transition first-writer-wins under concurrency; losing the guard
// rolls the whole settle back.
func (r *MatchRepository) SettleAgreed(ctx context.Context, matchID string, agreed match.ScoreSubmission, counterpartID string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin settle tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	completeQuery, completeArgs, err := qb.Update("season_matches").
		Set("status", match.StatusCompleted).
		Set("home_score", agreed.Home).
		Set("away_score", agreed.Away).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", matchID),
			qb.In("status", []any{
				match.StatusScheduled,
				match.StatusPostponed,
			}),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build complete match query: %w", err)
	}

	result, err := tx.ExecContext(ctx, completeQuery, completeArgs...)
	if err != nil {
		return false, fmt.Errorf("complete match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read complete match result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	upsertQuery, upsertArgs, err := buildUpsertSubmissionQuery(agreed)
	if err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, upsertQuery, upsertArgs...); err != nil {
		return false, fmt.Errorf("save agreed submission: %w", err)
	}

	counterpartQuery, counterpartArgs, err := qb.Update("score_submissions").
		Set("status", string(match.SubmissionAgreed)).
		Where(qb.Eq("public_id", counterpartID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark counterpart query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, counterpartQuery, counterpartArgs...); err != nil {
		return false, fmt.Errorf("mark counterpart submission agreed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit settle tx: %w", err)
	}

	return true, nil
}

func (r *MatchRepository) ListUnrecorded(ctx context.Context, leagueID string, cutoff time.Time) ([]match.SeasonMatch, error) {
	query, args, err := qb.Select("*").From("season_matches").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("status", string(match.StatusScheduled)),
			qb.Expr("scheduled_at < ?", cutoff),
			qb.IsNull("home_score"),
			qb.Expr("NOT EXISTS (SELECT 1 FROM score_submissions s WHERE s.match_public_id = season_matches.public_id)"),
		).
		OrderBy("scheduled_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list unrecorded matches query: %w", err)
	}

	var rows []seasonMatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list unrecorded matches: %w", err)
	}

	out := make([]match.SeasonMatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}

	return out, nil
}

func (r *MatchRepository) GetPendingSubmission(ctx context.Context, matchID string) (match.ScoreSubmission, bool, error) {
	query, args, err := qb.Select("*").From("score_submissions").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("status", string(match.SubmissionPending)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.ScoreSubmission{}, false, fmt.Errorf("build get pending submission query: %w", err)
	}

	var row scoreSubmissionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.ScoreSubmission{}, false, nil
		}
		return match.ScoreSubmission{}, false, fmt.Errorf("get pending submission: %w", err)
	}

	return submissionFromRow(row), true, nil
}

// UpsertSubmission keeps one row per (match, team): a later report
// from the same side replaces the earlier one in place.
func (r *MatchRepository) UpsertSubmission(ctx context.Context, s match.ScoreSubmission) error {
	query, args, err := buildUpsertSubmissionQuery(s)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}

	return nil
}

func buildUpsertSubmissionQuery(s match.ScoreSubmission) (string, []any, error) {
	insertModel := scoreSubmissionInsertModel{
		PublicID:     s.ID,
		MatchID:      s.MatchID,
		TeamPublicID: s.TeamID,
		HomeScore:    s.Home,
		AwayScore:    s.Away,
		Status:       string(s.Status),
		SubmittedAt:  s.SubmittedAt,
	}

	query, args, err := qb.InsertModel("score_submissions", insertModel, `ON CONFLICT (match_public_id, team_public_id)
DO UPDATE SET
    public_id = EXCLUDED.public_id,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    status = EXCLUDED.status,
    submitted_at = EXCLUDED.submitted_at`)
	if err != nil {
		return "", nil, fmt.Errorf("build upsert submission query: %w", err)
	}

	return query, args, nil
}

func (r *MatchRepository) UpdateSubmissionStatus(ctx context.Context, submissionID string, status match.SubmissionStatus) error {
	query, args, err := qb.Update("score_submissions").
		Set("status", string(status)).
		Where(qb.Eq("public_id", submissionID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update submission status query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}

	return nil
}

func (r *MatchRepository) ListPendingSubmissions(ctx context.Context, leagueID string) ([]match.PendingSubmission, error) {
	const query = `
SELECT
    s.public_id AS submission_public_id,
    s.match_public_id,
    s.team_public_id,
    s.home_score AS submission_home,
    s.away_score AS submission_away,
    s.status AS submission_status,
    s.submitted_at,
    m.league_public_id,
    m.home_team_public_id,
    m.away_team_public_id,
    m.scheduled_at,
    m.status AS match_status,
    m.home_score,
    m.away_score
FROM score_submissions s
JOIN season_matches m ON m.public_id = s.match_public_id
WHERE m.league_public_id = $1 AND s.status = $2 AND m.status <> $3
ORDER BY s.submitted_at DESC`

	var rows []pendingSubmissionJoinedRow
	if err := r.db.SelectContext(ctx, &rows, query, leagueID, string(match.SubmissionPending), match.StatusCompleted); err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}

	out := make([]match.PendingSubmission, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.PendingSubmission{
			Submission: match.ScoreSubmission{
				ID:          row.SubmissionPublicID,
				MatchID:     row.MatchPublicID,
				TeamID:      row.TeamPublicID,
				Home:        row.SubmissionHome,
				Away:        row.SubmissionAway,
				Status:      match.SubmissionStatus(row.SubmissionStatus),
				SubmittedAt: row.SubmittedAt,
			},
			Match: match.SeasonMatch{
				ID:          row.MatchPublicID,
				LeagueID:    row.LeaguePublicID,
				HomeTeamID:  row.HomePublicID,
				AwayTeamID:  row.AwayPublicID,
				ScheduledAt: row.ScheduledAt,
				Status:      row.MatchStatus,
				HomeScore:   nullInt64ToIntPtr(row.HomeScore),
				AwayScore:   nullInt64ToIntPtr(row.AwayScore),
			},
		})
	}

	return out, nil
}

func matchFromRow(row seasonMatchTableModel) match.SeasonMatch {
	return match.SeasonMatch{
		ID:          row.PublicID,
		LeagueID:    row.LeaguePublicID,
		HomeTeamID:  row.HomePublicID,
		AwayTeamID:  row.AwayPublicID,
		ScheduledAt: row.ScheduledAt,
		Status:      row.Status,
		HomeScore:   nullInt64ToIntPtr(row.HomeScore),
		AwayScore:   nullInt64ToIntPtr(row.AwayScore),
	}
}

func submissionFromRow(row scoreSubmissionTableModel) match.ScoreSubmission {
	return match.ScoreSubmission{
		ID:          row.PublicID,
		MatchID:     row.MatchID,
		TeamID:      row.TeamPublicID,
		Home:        row.HomeScore,
		Away:        row.AwayScore,
		Status:      match.SubmissionStatus(row.Status),
		SubmittedAt: row.SubmittedAt,
	}
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}
