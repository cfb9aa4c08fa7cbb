package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ostvang/leaguedesk/internal/domain/assignment"
	"github.com/ostvang/leaguedesk/internal/domain/audit"
	"github.com/ostvang/leaguedesk/internal/domain/match"
	"github.com/ostvang/leaguedesk/internal/domain/notification"
	idgen "github.com/ostvang/leaguedesk/internal/platform/id"
)

type CreateAssignmentInput struct {
	CallerID string
	MatchID  string
	TeamID   string
	UserID   string
	Duty     string
}

// AssignmentService hands match duties to members. Confirming an
// assignment retires the assignee's pending-assignment notifications
// with a targeted bulk read instead of a full sweep.
type AssignmentService struct {
	assignmentRepo assignment.Repository
	matchRepo      match.Repository
	auditRepo      audit.Repository
	notifier       *NotificationService
	idGen          idgen.Generator
	logger         *slog.Logger
	now            func() time.Time
}

func NewAssignmentService(
	assignmentRepo assignment.Repository,
	matchRepo match.Repository,
	auditRepo audit.Repository,
	notifier *NotificationService,
	idGen idgen.Generator,
	logger *slog.Logger,
) *AssignmentService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		matchRepo:      matchRepo,
		auditRepo:      auditRepo,
		notifier:       notifier,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *AssignmentService) Create(ctx context.Context, input CreateAssignmentInput) (assignment.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.Create")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.UserID = strings.TrimSpace(input.UserID)
	input.Duty = strings.TrimSpace(input.Duty)

	if input.MatchID == "" || input.UserID == "" {
		return assignment.Assignment{}, fmt.Errorf("%w: match_id and user_id are required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return assignment.Assignment{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}
	if m.Status == match.StatusCompleted {
		return assignment.Assignment{}, fmt.Errorf("%w: match is already completed", ErrInvalidInput)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("generate assignment id: %w", err)
	}

	a := assignment.Assignment{
		ID:        id,
		MatchID:   input.MatchID,
		TeamID:    strings.TrimSpace(input.TeamID),
		UserID:    input.UserID,
		Duty:      input.Duty,
		Status:    assignment.StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.assignmentRepo.Create(ctx, a); err != nil {
		return assignment.Assignment{}, fmt.Errorf("create assignment: %w", err)
	}

	if s.notifier != nil {
		if _, err := s.notifier.Emit(ctx, EmitInput{
			UserID: a.UserID,
			Type:   notification.TypeAssignmentPending,
			TeamID: a.TeamID,
			Payload: map[string]any{
				"assignment_id": a.ID,
				"match_id":      a.MatchID,
				"duty":          a.Duty,
			},
		}); err != nil {
			s.logger.WarnContext(ctx, "emit assignment notification failed", "assignment_id", a.ID, "error", err)
		}
	}

	return a, nil
}

// Confirm accepts a pending assignment. Only the assignee confirms;
// the matching unread ASSIGNMENT_PENDING notifications become read in
// the same call so nothing stale lingers in the inbox.
func (s *AssignmentService) Confirm(ctx context.Context, callerID, assignmentID string) (assignment.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.Confirm")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	assignmentID = strings.TrimSpace(assignmentID)

	if callerID == "" {
		return assignment.Assignment{}, fmt.Errorf("%w: caller id is required", ErrUnauthorized)
	}
	if assignmentID == "" {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment_id is required", ErrInvalidInput)
	}

	a, exists, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("get assignment: %w", err)
	}
	if !exists {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment=%s", ErrNotFound, assignmentID)
	}
	if a.UserID != callerID {
		return assignment.Assignment{}, fmt.Errorf("%w: only the assignee can confirm", ErrForbidden)
	}
	if a.Status != assignment.StatusPending {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment is already %s", ErrInvalidInput, a.Status)
	}

	if err := s.assignmentRepo.UpdateStatus(ctx, assignmentID, assignment.StatusConfirmed); err != nil {
		if errors.Is(err, assignment.ErrNotPending) {
			return assignment.Assignment{}, fmt.Errorf("%w: assignment was decided concurrently", ErrConflict)
		}
		return assignment.Assignment{}, fmt.Errorf("update assignment status: %w", err)
	}
	a.Status = assignment.StatusConfirmed

	s.appendAudit(ctx, audit.Entry{
		ActorID: callerID,
		TeamID:  a.TeamID,
		Action:  audit.ActionAssignmentConfirmed,
		Payload: map[string]any{
			"assignment_id": a.ID,
			"match_id":      a.MatchID,
		},
	})

	if s.notifier != nil {
		// Targeted retirement: cheaper than the full sweep and scoped
		// to exactly the fact that changed.
		if _, err := s.notifier.MarkAllRead(ctx, callerID, notification.Filter{
			Types:      []notification.Type{notification.TypeAssignmentPending},
			ReferKey:   "assignment_id",
			ReferValue: a.ID,
		}); err != nil {
			s.logger.WarnContext(ctx, "retire assignment notifications failed", "assignment_id", a.ID, "error", err)
		}

		if _, err := s.notifier.Emit(ctx, EmitInput{
			UserID: a.UserID,
			Type:   notification.TypeAssignmentConfirmed,
			TeamID: a.TeamID,
			Payload: map[string]any{
				"assignment_id": a.ID,
				"match_id":      a.MatchID,
			},
		}); err != nil {
			s.logger.WarnContext(ctx, "emit confirmation notification failed", "assignment_id", a.ID, "error", err)
		}
	}

	return a, nil
}

func (s *AssignmentService) appendAudit(ctx context.Context, e audit.Entry) {
	id, err := s.idGen.NewID()
	if err != nil {
		s.logger.ErrorContext(ctx, "generate audit id failed", "action", e.Action, "error", err)
		return
	}
	e.ID = id
	e.CreatedAt = s.now().UTC()

	if err := s.auditRepo.Append(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "append audit entry failed", "action", e.Action, "error", err)
	}
}
