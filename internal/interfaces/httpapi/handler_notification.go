package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ostvang/leaguedesk/internal/domain/notification"
	"github.com/ostvang/leaguedesk/internal/usecase"
)

type markAllReadRequest struct {
	Types      []string `json:"types"`
	TeamID     string   `json:"team_id"`
	ReferKey   string   `json:"refer_key"`
	ReferValue string   `json:"refer_value"`
}

type notificationDTO struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	TeamID    string         `json:"team_id,omitempty"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Read      bool           `json:"read"`
	CreatedAt string         `json:"created_at"`
}

type bulkCountDTO struct {
	Count int `json:"count"`
}

// ListNotifications runs the obsolescence sweep before returning, so
// the caller never sees an unread prompt about a fact that no longer
// holds.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNotifications")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	items, err := h.notificationService.List(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list notifications failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]notificationDTO, 0, len(items))
	for _, n := range items {
		out = append(out, notificationToDTO(n))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkNotificationRead")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	notificationID := r.PathValue("notificationID")
	if err := h.notificationService.MarkRead(ctx, principal.UserID, notificationID); err != nil {
		h.logger.WarnContext(ctx, "mark notification read failed", "notification_id", notificationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkAllNotificationsRead")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req markAllReadRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && err != io.EOF {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	filter := notification.Filter{
		TeamID:     req.TeamID,
		ReferKey:   req.ReferKey,
		ReferValue: req.ReferValue,
	}
	for _, t := range req.Types {
		filter.Types = append(filter.Types, notification.Type(t))
	}

	count, err := h.notificationService.MarkAllRead(ctx, principal.UserID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "mark all notifications read failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bulkCountDTO{Count: count})
}

func (h *Handler) DeleteAllNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteAllNotifications")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	count, err := h.notificationService.DeleteAll(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "delete all notifications failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bulkCountDTO{Count: count})
}

func notificationToDTO(n notification.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		UserID:    n.UserID,
		TeamID:    n.TeamID,
		Type:      string(n.Type),
		Payload:   n.Payload,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
}
