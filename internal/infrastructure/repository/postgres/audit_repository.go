package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ostvang/leaguedesk/internal/domain/audit"
	qb "github.com/ostvang/leaguedesk/internal/platform/querybuilder"
)

// AuditRepository is append-only: entries are never updated or
// deleted.
type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, e audit.Entry) error {
	payload, err := encodePayload(e.Payload)
	if err != nil {
		return fmt.Errorf("encode audit payload: %w", err)
	}

	insertModel := auditEntryInsertModel{
		PublicID:       e.ID,
		ActorPublicID:  e.ActorID,
		TeamPublicID:   optionalString(e.TeamID),
		LeaguePublicID: optionalString(e.LeagueID),
		Action:         string(e.Action),
		Payload:        payload,
		CreatedAt:      e.CreatedAt,
	}

	query, args, err := qb.InsertModel("audit_log", insertModel, "")
	if err != nil {
		return fmt.Errorf("build append audit entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	return nil
}

func (r *AuditRepository) ListByTeam(ctx context.Context, teamID string) ([]audit.Entry, error) {
	return r.list(ctx, qb.Eq("team_public_id", teamID))
}

func (r *AuditRepository) ListByLeague(ctx context.Context, leagueID string) ([]audit.Entry, error) {
	return r.list(ctx, qb.Eq("league_public_id", leagueID))
}

func (r *AuditRepository) list(ctx context.Context, conditions ...qb.Condition) ([]audit.Entry, error) {
	query, args, err := qb.Select("*").From("audit_log").
		Where(conditions...).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list audit entries query: %w", err)
	}

	var rows []auditEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	out := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		payload, err := decodePayload(row.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode audit payload: %w", err)
		}
		out = append(out, audit.Entry{
			ID:        row.PublicID,
			ActorID:   row.ActorPublicID,
			TeamID:    nullStringValue(row.TeamPublicID),
			LeagueID:  nullStringValue(row.LeaguePublicID),
			Action:    row.Action,
			Payload:   payload,
			CreatedAt: row.CreatedAt,
		})
	}

	return out, nil
}
