package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ostvang/leaguedesk/internal/domain/notification"
	qb "github.com/ostvang/leaguedesk/internal/platform/querybuilder"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	payload, err := encodePayload(n.Payload)
	if err != nil {
		return fmt.Errorf("encode notification payload: %w", err)
	}

	insertModel := notificationInsertModel{
		PublicID:     n.ID,
		UserPublicID: n.UserID,
		TeamPublicID: optionalString(n.TeamID),
		Type:         string(n.Type),
		Payload:      payload,
		Read:         n.Read,
		CreatedAt:    n.CreatedAt,
	}

	query, args, err := qb.InsertModel("notifications", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create notification query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	return r.list(ctx, qb.Eq("user_public_id", userID))
}

func (r *NotificationRepository) ListUnreadByUser(ctx context.Context, userID string, types []notification.Type) ([]notification.Notification, error) {
	conditions := []qb.Condition{
		qb.Eq("user_public_id", userID),
		qb.Eq("read", false),
	}
	if len(types) > 0 {
		values := make([]any, 0, len(types))
		for _, t := range types {
			values = append(values, string(t))
		}
		conditions = append(conditions, qb.In("type", values))
	}

	return r.list(ctx, conditions...)
}

func (r *NotificationRepository) list(ctx context.Context, conditions ...qb.Condition) ([]notification.Notification, error) {
	query, args, err := qb.Select("*").From("notifications").
		Where(conditions...).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list notifications query: %w", err)
	}

	var rows []notificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := notificationFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, nil
}

// MarkRead flips one of the user's notifications to read. Returns
// false when the row does not exist or belongs to another user.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	query, args, err := qb.Update("notifications").
		Set("read", true).
		Where(
			qb.Eq("public_id", notificationID),
			qb.Eq("user_public_id", userID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark read query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read mark read result: %w", err)
	}

	return affected > 0, nil
}

// MarkAllRead flips the user's unread notifications that match the
// filter. ReferKey/ReferValue match against a top-level payload field.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, f notification.Filter) (int, error) {
	conditions := []qb.Condition{
		qb.Eq("user_public_id", userID),
		qb.Eq("read", false),
	}
	if len(f.Types) > 0 {
		values := make([]any, 0, len(f.Types))
		for _, t := range f.Types {
			values = append(values, string(t))
		}
		conditions = append(conditions, qb.In("type", values))
	}
	if f.TeamID != "" {
		conditions = append(conditions, qb.Eq("team_public_id", f.TeamID))
	}
	if f.ReferKey != "" {
		conditions = append(conditions, qb.Expr("payload ->> ? = ?", f.ReferKey, f.ReferValue))
	}

	query, args, err := qb.Update("notifications").
		Set("read", true).
		Where(conditions...).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build mark all read query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read mark all read result: %w", err)
	}

	return int(affected), nil
}

func (r *NotificationRepository) DeleteAllByUser(ctx context.Context, userID string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_public_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read delete notifications result: %w", err)
	}

	return int(affected), nil
}

func notificationFromRow(row notificationTableModel) (notification.Notification, error) {
	payload, err := decodePayload(row.Payload)
	if err != nil {
		return notification.Notification{}, fmt.Errorf("decode notification payload: %w", err)
	}

	return notification.Notification{
		ID:        row.PublicID,
		UserID:    row.UserPublicID,
		TeamID:    nullStringValue(row.TeamPublicID),
		Type:      notification.Type(row.Type),
		Payload:   payload,
		Read:      row.Read,
		CreatedAt: row.CreatedAt,
	}, nil
}
