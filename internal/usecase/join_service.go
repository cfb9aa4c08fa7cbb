package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ostvang/leaguedesk/internal/domain/audit"
	"github.com/ostvang/leaguedesk/internal/domain/joinrequest"
	"github.com/ostvang/leaguedesk/internal/domain/league"
	"github.com/ostvang/leaguedesk/internal/domain/notification"
	"github.com/ostvang/leaguedesk/internal/domain/team"
	"github.com/ostvang/leaguedesk/internal/domain/user"
	idgen "github.com/ostvang/leaguedesk/internal/platform/id"
	"golang.org/x/crypto/bcrypt"
)

type CreateRequestInput struct {
	Kind joinrequest.Kind
	// ActorID is the authenticated caller. For user->team requests it
	// must equal RequesterID; for team->league requests the actor must
	// administer the requesting team.
	ActorID     string
	RequesterID string
	TargetID    string
	// JoinPassword applies to user->team requests against teams with a
	// join password set.
	JoinPassword string
}

type DecideInput struct {
	ApproverID string
	RequestID  string
	Approve    bool
}

// JoinService mediates join requests: team->league and user->team.
// A request becomes membership or rejection exactly once.
type JoinService struct {
	joinRepo   joinrequest.Repository
	teamRepo   team.Repository
	leagueRepo league.Repository
	userRepo   user.Repository
	auditRepo  audit.Repository
	notifier   *NotificationService
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewJoinService(
	joinRepo joinrequest.Repository,
	teamRepo team.Repository,
	leagueRepo league.Repository,
	userRepo user.Repository,
	auditRepo audit.Repository,
	notifier *NotificationService,
	idGen idgen.Generator,
	logger *slog.Logger,
) *JoinService {
	if logger == nil {
		logger = slog.Default()
	}

	return &JoinService{
		joinRepo:   joinRepo,
		teamRepo:   teamRepo,
		leagueRepo: leagueRepo,
		userRepo:   userRepo,
		auditRepo:  auditRepo,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateRequest opens a PENDING join request and notifies whoever has
// authority over the target. A second PENDING request for the same
// pair, or a relationship that already exists, is a conflict.
func (s *JoinService) CreateRequest(ctx context.Context, input CreateRequestInput) (joinrequest.JoinRequest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JoinService.CreateRequest")
	defer span.End()

	input.ActorID = strings.TrimSpace(input.ActorID)
	input.RequesterID = strings.TrimSpace(input.RequesterID)
	input.TargetID = strings.TrimSpace(input.TargetID)

	if input.ActorID == "" {
		return joinrequest.JoinRequest{}, fmt.Errorf("%w: actor id is required", ErrUnauthorized)
	}
	if input.RequesterID == "" || input.TargetID == "" {
		return joinrequest.JoinRequest{}, fmt.Errorf("%w: requester and target are required", ErrInvalidInput)
	}

	var authorityUserIDs []string

	switch input.Kind {
	case joinrequest.KindTeamToLeague:
		ids, err := s.checkTeamToLeague(ctx, input.ActorID, input.RequesterID, input.TargetID)
		if err != nil {
			return joinrequest.JoinRequest{}, err
		}
		authorityUserIDs = ids

	case joinrequest.KindUserToTeam:
		if input.RequesterID != input.ActorID {
			return joinrequest.JoinRequest{}, fmt.Errorf("%w: users request team membership for themselves", ErrForbidden)
		}
		ids, err := s.checkUserToTeam(ctx, input.RequesterID, input.TargetID, input.JoinPassword)
		if err != nil {
			return joinrequest.JoinRequest{}, err
		}
		authorityUserIDs = ids

	default:
		return joinrequest.JoinRequest{}, fmt.Errorf("%w: unknown join request kind %q", ErrInvalidInput, input.Kind)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return joinrequest.JoinRequest{}, fmt.Errorf("generate join request id: %w", err)
	}

	request := joinrequest.JoinRequest{
		ID:          id,
		Kind:        input.Kind,
		RequesterID: input.RequesterID,
		TargetID:    input.TargetID,
		Status:      joinrequest.StatusPending,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.joinRepo.Create(ctx, request); err != nil {
		if errors.Is(err, joinrequest.ErrDuplicatePending) {
			return joinrequest.JoinRequest{}, fmt.Errorf("%w: pending request already exists for this pair", ErrConflict)
		}
		return joinrequest.JoinRequest{}, fmt.Errorf("create join request: %w", err)
	}

	s.appendAudit(ctx, audit.Entry{
		ActorID: input.RequesterID,
		Action:  audit.ActionJoinRequested,
		Payload: map[string]any{
			"request_id": request.ID,
			"kind":       string(request.Kind),
			"target_id":  request.TargetID,
		},
	})

	for _, userID := range authorityUserIDs {
		s.emit(ctx, EmitInput{
			UserID: userID,
			Type:   notification.TypeJoinRequested,
			Payload: map[string]any{
				"request_id":   request.ID,
				"kind":         string(request.Kind),
				"requester_id": request.RequesterID,
				"target_id":    request.TargetID,
			},
		})
	}

	return request, nil
}

func (s *JoinService) checkTeamToLeague(ctx context.Context, actorID, teamID, leagueID string) ([]string, error) {
	t, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	if m, exists, err := s.teamRepo.GetMembership(ctx, teamID, actorID); err != nil {
		return nil, fmt.Errorf("get actor membership: %w", err)
	} else if !exists || !m.IsAdmin {
		return nil, fmt.Errorf("%w: only a team admin requests league membership", ErrForbidden)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	if t.Sport != l.Sport {
		return nil, fmt.Errorf("%w: team sport %q does not match league sport %q", ErrInvalidInput, t.Sport, l.Sport)
	}

	member, err := s.leagueRepo.HasTeam(ctx, leagueID, teamID)
	if err != nil {
		return nil, fmt.Errorf("check league membership: %w", err)
	}
	if member {
		return nil, fmt.Errorf("%w: team already belongs to the league", ErrConflict)
	}

	return []string{l.ManagerID}, nil
}

func (s *JoinService) checkUserToTeam(ctx context.Context, userID, teamID, joinPassword string) ([]string, error) {
	if _, exists, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	t, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	if _, exists, err := s.teamRepo.GetMembership(ctx, teamID, userID); err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	} else if exists {
		return nil, fmt.Errorf("%w: user already belongs to the team", ErrConflict)
	}

	if t.JoinPasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(t.JoinPasswordHash), []byte(joinPassword)); err != nil {
			return nil, fmt.Errorf("%w: join password mismatch", ErrForbidden)
		}
	}

	admins, err := s.teamRepo.ListAdmins(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team admins: %w", err)
	}

	ids := make([]string, 0, len(admins))
	for _, m := range admins {
		ids = append(ids, m.UserID)
	}

	return ids, nil
}

// Decide settles a PENDING request. Approval first creates the
// membership or league link (both idempotent writes), then flips the
// status; the flip is the exactly-once gate, succeeding only while the
// request is still PENDING, so two concurrent decisions cannot both
// apply and a failed approval leaves the request PENDING and
// retriable. Sport compatibility is re-checked because state may have
// moved since the request was created.
func (s *JoinService) Decide(ctx context.Context, input DecideInput) (joinrequest.JoinRequest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JoinService.Decide")
	defer span.End()

	input.ApproverID = strings.TrimSpace(input.ApproverID)
	input.RequestID = strings.TrimSpace(input.RequestID)

	if input.ApproverID == "" {
		return joinrequest.JoinRequest{}, fmt.Errorf("%w: approver id is required", ErrUnauthorized)
	}
	if input.RequestID == "" {
		return joinrequest.JoinRequest{}, fmt.Errorf("%w: request_id is required", ErrInvalidInput)
	}

	request, exists, err := s.joinRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		return joinrequest.JoinRequest{}, fmt.Errorf("get join request: %w", err)
	}
	if !exists {
		return joinrequest.JoinRequest{}, fmt.Errorf("%w: request=%s", ErrNotFound, input.RequestID)
	}
	if request.Status != joinrequest.StatusPending {
		return joinrequest.JoinRequest{}, fmt.Errorf("%w: request is already %s", ErrInvalidInput, request.Status)
	}

	if err := s.checkAuthority(ctx, request, input.ApproverID); err != nil {
		return joinrequest.JoinRequest{}, err
	}

	if input.Approve && request.Kind == joinrequest.KindTeamToLeague {
		// Sports may have diverged since the request was created. The
		// existing-link conflict is deliberately not re-checked here: a
		// link left behind by an interrupted earlier approval must not
		// block the retry.
		if err := s.recheckSport(ctx, request.RequesterID, request.TargetID); err != nil {
			return joinrequest.JoinRequest{}, err
		}
	}

	status := joinrequest.StatusRejected
	if input.Approve {
		status = joinrequest.StatusApproved

		// The relationship is written before the status flip. Both
		// writes are idempotent, so if the flip below fails the request
		// stays PENDING and the approval can be retried.
		if err := s.applyApproval(ctx, request); err != nil {
			return joinrequest.JoinRequest{}, err
		}
	}

	if err := s.joinRepo.UpdateStatus(ctx, request.ID, status); err != nil {
		if errors.Is(err, joinrequest.ErrNotPending) {
			return joinrequest.JoinRequest{}, fmt.Errorf("%w: request was decided concurrently", ErrInvalidInput)
		}
		return joinrequest.JoinRequest{}, fmt.Errorf("update join request status: %w", err)
	}
	request.Status = status

	action := audit.ActionJoinRejected
	notifType := notification.TypeJoinRejected
	if input.Approve {
		action = audit.ActionJoinApproved
		notifType = notification.TypeJoinApproved
	}

	s.appendAudit(ctx, audit.Entry{
		ActorID: input.ApproverID,
		Action:  action,
		Payload: map[string]any{
			"request_id":   request.ID,
			"kind":         string(request.Kind),
			"requester_id": request.RequesterID,
			"target_id":    request.TargetID,
		},
	})

	s.notifyRequester(ctx, request, notifType)

	return request, nil
}

// PendingJoinRequest is a pending request with its requesting user
// resolved. Requester is zero for team->league requests, where the
// requesting side is a team.
type PendingJoinRequest struct {
	Request   joinrequest.JoinRequest
	Requester user.User
}

func (s *JoinService) ListPending(ctx context.Context, kind joinrequest.Kind, targetID string) ([]PendingJoinRequest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JoinService.ListPending")
	defer span.End()

	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return nil, fmt.Errorf("%w: target id is required", ErrInvalidInput)
	}

	requests, err := s.joinRepo.ListPendingByTarget(ctx, kind, targetID)
	if err != nil {
		return nil, fmt.Errorf("list pending join requests: %w", err)
	}

	var userIDs []string
	for _, request := range requests {
		if request.Kind == joinrequest.KindUserToTeam {
			userIDs = append(userIDs, request.RequesterID)
		}
	}

	usersByID := make(map[string]user.User, len(userIDs))
	if len(userIDs) > 0 {
		users, err := s.userRepo.ListByIDs(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("resolve requesters: %w", err)
		}
		for _, u := range users {
			usersByID[u.ID] = u
		}
	}

	out := make([]PendingJoinRequest, 0, len(requests))
	for _, request := range requests {
		out = append(out, PendingJoinRequest{
			Request:   request,
			Requester: usersByID[request.RequesterID],
		})
	}

	return out, nil
}

func (s *JoinService) recheckSport(ctx context.Context, teamID, leagueID string) error {
	t, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	if t.Sport != l.Sport {
		return fmt.Errorf("%w: team sport %q does not match league sport %q", ErrInvalidInput, t.Sport, l.Sport)
	}

	return nil
}

func (s *JoinService) checkAuthority(ctx context.Context, request joinrequest.JoinRequest, approverID string) error {
	switch request.Kind {
	case joinrequest.KindTeamToLeague:
		l, exists, err := s.leagueRepo.GetByID(ctx, request.TargetID)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, request.TargetID)
		}
		if l.ManagerID != approverID {
			return fmt.Errorf("%w: only the league manager decides league joins", ErrForbidden)
		}

	case joinrequest.KindUserToTeam:
		m, exists, err := s.teamRepo.GetMembership(ctx, request.TargetID, approverID)
		if err != nil {
			return fmt.Errorf("get approver membership: %w", err)
		}
		if !exists || !m.IsAdmin {
			return fmt.Errorf("%w: only a team admin decides team joins", ErrForbidden)
		}

	default:
		return fmt.Errorf("%w: unknown join request kind %q", ErrInvalidInput, request.Kind)
	}

	return nil
}

func (s *JoinService) applyApproval(ctx context.Context, request joinrequest.JoinRequest) error {
	switch request.Kind {
	case joinrequest.KindTeamToLeague:
		if err := s.leagueRepo.AddTeam(ctx, league.LeagueTeam{
			LeagueID: request.TargetID,
			TeamID:   request.RequesterID,
		}); err != nil {
			return fmt.Errorf("add team to league: %w", err)
		}

	case joinrequest.KindUserToTeam:
		if err := s.teamRepo.UpsertMembership(ctx, team.Membership{
			UserID: request.RequesterID,
			TeamID: request.TargetID,
			Role:   team.RoleMember,
		}); err != nil {
			return fmt.Errorf("create membership: %w", err)
		}
	}

	return nil
}

func (s *JoinService) notifyRequester(ctx context.Context, request joinrequest.JoinRequest, notifType notification.Type) {
	payload := map[string]any{
		"request_id": request.ID,
		"kind":       string(request.Kind),
		"target_id":  request.TargetID,
		"status":     string(request.Status),
	}

	switch request.Kind {
	case joinrequest.KindUserToTeam:
		s.emit(ctx, EmitInput{UserID: request.RequesterID, Type: notifType, Payload: payload})

	case joinrequest.KindTeamToLeague:
		// The requesting side of a team->league join is the team; its
		// admins get the outcome.
		admins, err := s.teamRepo.ListAdmins(ctx, request.RequesterID)
		if err != nil {
			s.logger.WarnContext(ctx, "list requester team admins failed", "team_id", request.RequesterID, "error", err)
			return
		}
		for _, m := range admins {
			s.emit(ctx, EmitInput{UserID: m.UserID, Type: notifType, TeamID: request.RequesterID, Payload: payload})
		}
	}
}

func (s *JoinService) appendAudit(ctx context.Context, e audit.Entry) {
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

func (s *JoinService) emit(ctx context.Context, input EmitInput) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Emit(ctx, input); err != nil {
		s.logger.WarnContext(ctx, "emit notification failed", "type", input.Type, "error", err)
	}
}
