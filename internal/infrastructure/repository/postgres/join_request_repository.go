package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ostvang/leaguedesk/internal/domain/joinrequest"
	qb "github.com/ostvang/leaguedesk/internal/platform/querybuilder"
)

const pendingPairConstraint = "uq_join_requests_pending"

type JoinRequestRepository struct {
	db *sqlx.DB
}

func NewJoinRequestRepository(db *sqlx.DB) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

func (r *JoinRequestRepository) GetByID(ctx context.Context, requestID string) (joinrequest.JoinRequest, bool, error) {
	query, args, err := qb.Select("*").From("join_requests").
		Where(qb.Eq("public_id", requestID)).
		ToSQL()
	if err != nil {
		return joinrequest.JoinRequest{}, false, fmt.Errorf("build get join request query: %w", err)
	}

	var row joinRequestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return joinrequest.JoinRequest{}, false, nil
		}
		return joinrequest.JoinRequest{}, false, fmt.Errorf("get join request: %w", err)
	}

	return joinRequestFromRow(row), true, nil
}

// Create inserts the request. A partial unique index on
// (kind, requester_public_id, target_public_id) WHERE status =
// 'PENDING' keeps the pair single-flight; a collision surfaces as
// joinrequest.ErrDuplicatePending.
func (r *JoinRequestRepository) Create(ctx context.Context, req joinrequest.JoinRequest) error {
	insertModel := joinRequestInsertModel{
		PublicID:          req.ID,
		Kind:              string(req.Kind),
		RequesterPublicID: req.RequesterID,
		TargetPublicID:    req.TargetID,
		Status:            string(req.Status),
		CreatedAt:         req.CreatedAt,
	}

	query, args, err := qb.InsertModel("join_requests", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create join request query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, pendingPairConstraint) {
			return joinrequest.ErrDuplicatePending
		}
		return fmt.Errorf("create join request: %w", err)
	}

	return nil
}

// UpdateStatus flips a PENDING request to a terminal status. The WHERE
// clause keeps the transition exactly-once: a second decider matches
// zero rows and gets joinrequest.ErrNotPending.
func (r *JoinRequestRepository) UpdateStatus(ctx context.Context, requestID string, status joinrequest.Status) error {
	query, args, err := qb.Update("join_requests").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", requestID),
			qb.Eq("status", string(joinrequest.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update join request status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update join request status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read update status result: %w", err)
	}
	if affected == 0 {
		return joinrequest.ErrNotPending
	}

	return nil
}

func (r *JoinRequestRepository) ListPendingByTarget(ctx context.Context, kind joinrequest.Kind, targetID string) ([]joinrequest.JoinRequest, error) {
	query, args, err := qb.Select("*").From("join_requests").
		Where(
			qb.Eq("kind", string(kind)),
			qb.Eq("target_public_id", targetID),
			qb.Eq("status", string(joinrequest.StatusPending)),
		).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending requests query: %w", err)
	}

	var rows []joinRequestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}

	out := make([]joinrequest.JoinRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, joinRequestFromRow(row))
	}

	return out, nil
}

func joinRequestFromRow(row joinRequestTableModel) joinrequest.JoinRequest {
	return joinrequest.JoinRequest{
		ID:          row.PublicID,
		Kind:        joinrequest.Kind(row.Kind),
		RequesterID: row.RequesterPublicID,
		TargetID:    row.TargetPublicID,
		Status:      joinrequest.Status(row.Status),
		CreatedAt:   row.CreatedAt,
	}
}
