package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ostvang/leaguedesk/internal/domain/assignment"
	qb "github.com/ostvang/leaguedesk/internal/platform/querybuilder"
)

type AssignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) GetByID(ctx context.Context, assignmentID string) (assignment.Assignment, bool, error) {
	query, args, err := qb.Select("*").From("assignments").
		Where(qb.Eq("public_id", assignmentID)).
		ToSQL()
	if err != nil {
		return assignment.Assignment{}, false, fmt.Errorf("build get assignment query: %w", err)
	}

	var row assignmentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return assignment.Assignment{}, false, nil
		}
		return assignment.Assignment{}, false, fmt.Errorf("get assignment: %w", err)
	}

	return assignmentFromRow(row), true, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, a assignment.Assignment) error {
	insertModel := assignmentInsertModel{
		PublicID:      a.ID,
		MatchPublicID: a.MatchID,
		TeamPublicID:  optionalString(a.TeamID),
		UserPublicID:  a.UserID,
		Duty:          a.Duty,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
	}

	query, args, err := qb.InsertModel("assignments", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create assignment query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}

	return nil
}

// UpdateStatus moves the assignment out of PENDING. The status guard
// in the WHERE clause makes the flip first-writer-wins under
// concurrency.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, assignmentID string, status assignment.Status) error {
	query, args, err := qb.Update("assignments").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", assignmentID),
			qb.Eq("status", string(assignment.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update assignment status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read update assignment status result: %w", err)
	}
	if affected == 0 {
		return assignment.ErrNotPending
	}

	return nil
}

func (r *AssignmentRepository) ListPendingByUser(ctx context.Context, userID string) ([]assignment.Assignment, error) {
	query, args, err := qb.Select("*").From("assignments").
		Where(
			qb.Eq("user_public_id", userID),
			qb.Eq("status", string(assignment.StatusPending)),
		).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending assignments query: %w", err)
	}

	var rows []assignmentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pending assignments: %w", err)
	}

	out := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, assignmentFromRow(row))
	}

	return out, nil
}

func assignmentFromRow(row assignmentTableModel) assignment.Assignment {
	return assignment.Assignment{
		ID:        row.PublicID,
		MatchID:   row.MatchPublicID,
		TeamID:    nullStringValue(row.TeamPublicID),
		UserID:    row.UserPublicID,
		Duty:      row.Duty,
		Status:    assignment.Status(row.Status),
		CreatedAt: row.CreatedAt,
	}
}
