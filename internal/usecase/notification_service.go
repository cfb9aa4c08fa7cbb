package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ostvang/leaguedesk/internal/domain/assignment"
	"github.com/ostvang/leaguedesk/internal/domain/joinrequest"
	"github.com/ostvang/leaguedesk/internal/domain/match"
	"github.com/ostvang/leaguedesk/internal/domain/notification"
	idgen "github.com/ostvang/leaguedesk/internal/platform/id"
)

// retirableTypes are the notification types whose referent fact the
// sweep knows how to re-check.
var retirableTypes = []notification.Type{
	notification.TypeAssignmentPending,
	notification.TypeJoinRequested,
	notification.TypeScoreSubmitted,
}

type EmitInput struct {
	UserID  string
	Type    notification.Type
	TeamID  string
	Payload map[string]any
}

type NotificationService struct {
	notifRepo      notification.Repository
	assignmentRepo assignment.Repository
	joinRepo       joinrequest.Repository
	matchRepo      match.Repository
	dispatcher     *BroadcastDispatcher
	idGen          idgen.Generator
	logger         *slog.Logger
	now            func() time.Time
}

func NewNotificationService(
	notifRepo notification.Repository,
	assignmentRepo assignment.Repository,
	joinRepo joinrequest.Repository,
	matchRepo match.Repository,
	dispatcher *BroadcastDispatcher,
	idGen idgen.Generator,
	logger *slog.Logger,
) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}

	return &NotificationService{
		notifRepo:      notifRepo,
		assignmentRepo: assignmentRepo,
		joinRepo:       joinRepo,
		matchRepo:      matchRepo,
		dispatcher:     dispatcher,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

// Emit appends an unread notification and schedules a best-effort
// realtime push. Push failures never reach the caller.
func (s *NotificationService) Emit(ctx context.Context, input EmitInput) (notification.Notification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.Emit")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return notification.Notification{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if input.Type == "" {
		return notification.Notification{}, fmt.Errorf("%w: notification type is required", ErrInvalidInput)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return notification.Notification{}, fmt.Errorf("generate notification id: %w", err)
	}

	n := notification.Notification{
		ID:        id,
		UserID:    input.UserID,
		TeamID:    strings.TrimSpace(input.TeamID),
		Type:      input.Type,
		Payload:   input.Payload,
		Read:      false,
		CreatedAt: s.now().UTC(),
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return notification.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(notification.Event{
			Channel: channelFor(n.TeamID),
			Name:    string(n.Type),
			Payload: n.Payload,
		})
	}

	return n, nil
}

// RetireObsolete marks read the user's unread notifications whose
// referent fact no longer holds. It is an idempotent reconciling
// sweep: it flips read flags, never deletes, and corrects what it can
// even when a single referent lookup fails.
func (s *NotificationService) RetireObsolete(ctx context.Context, userID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.RetireObsolete")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	unread, err := s.notifRepo.ListUnreadByUser(ctx, userID, retirableTypes)
	if err != nil {
		return 0, fmt.Errorf("list unread notifications: %w", err)
	}

	retired := 0
	for _, n := range unread {
		obsolete, err := s.isObsolete(ctx, n)
		if err != nil {
			s.logger.WarnContext(ctx, "retire sweep referent check failed",
				"notification_id", n.ID, "type", n.Type, "error", err)
			continue
		}
		if !obsolete {
			continue
		}

		flipped, err := s.notifRepo.MarkRead(ctx, userID, n.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "retire sweep mark read failed",
				"notification_id", n.ID, "error", err)
			continue
		}
		if flipped {
			retired++
		}
	}

	return retired, nil
}

func (s *NotificationService) isObsolete(ctx context.Context, n notification.Notification) (bool, error) {
	switch n.Type {
	case notification.TypeAssignmentPending:
		assignmentID := payloadString(n.Payload, "assignment_id")
		if assignmentID == "" {
			return false, nil
		}
		a, exists, err := s.assignmentRepo.GetByID(ctx, assignmentID)
		if err != nil {
			return false, fmt.Errorf("get assignment: %w", err)
		}
		return !exists || a.Status != assignment.StatusPending, nil

	case notification.TypeJoinRequested:
		requestID := payloadString(n.Payload, "request_id")
		if requestID == "" {
			return false, nil
		}
		r, exists, err := s.joinRepo.GetByID(ctx, requestID)
		if err != nil {
			return false, fmt.Errorf("get join request: %w", err)
		}
		return !exists || r.Status != joinrequest.StatusPending, nil

	case notification.TypeScoreSubmitted:
		matchID := payloadString(n.Payload, "match_id")
		if matchID == "" {
			return false, nil
		}
		m, exists, err := s.matchRepo.GetByID(ctx, matchID)
		if err != nil {
			return false, fmt.Errorf("get match: %w", err)
		}
		return !exists || m.Status == match.StatusCompleted, nil

	default:
		return false, nil
	}
}

// List returns the user's notifications, newest first. The retirement
// sweep runs before the read; a sweep failure degrades to the unswept
// list rather than failing the read.
func (s *NotificationService) List(ctx context.Context, userID string) ([]notification.Notification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.List")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	if _, err := s.RetireObsolete(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "retire sweep before list failed", "user_id", userID, "error", err)
	}

	items, err := s.notifRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return items, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.MarkRead")
	defer span.End()

	userID = strings.TrimSpace(userID)
	notificationID = strings.TrimSpace(notificationID)
	if userID == "" || notificationID == "" {
		return fmt.Errorf("%w: user_id and notification_id are required", ErrInvalidInput)
	}

	flipped, err := s.notifRepo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !flipped {
		return fmt.Errorf("%w: notification=%s", ErrNotFound, notificationID)
	}

	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string, f notification.Filter) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.MarkAllRead")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	count, err := s.notifRepo.MarkAllRead(ctx, userID, f)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return count, nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.DeleteAll")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	count, err := s.notifRepo.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}

	return count, nil
}

func channelFor(teamID string) string {
	if teamID == "" {
		return "global"
	}
	return "team-" + teamID
}

func payloadString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	value, ok := payload[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
