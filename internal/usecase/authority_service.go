package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ostvang/leaguedesk/internal/domain/audit"
	"github.com/ostvang/leaguedesk/internal/domain/league"
	"github.com/ostvang/leaguedesk/internal/domain/notification"
	"github.com/ostvang/leaguedesk/internal/domain/team"
	idgen "github.com/ostvang/leaguedesk/internal/platform/id"
	"github.com/sourcegraph/conc/pool"
)

const reconcileWorkers = 8

// systemActorID marks audit entries written by reconciling sweeps
// rather than a caller.
const systemActorID = "system"

type PromoteInput struct {
	CallerID     string
	TeamID       string
	TargetUserID string
	Role         team.Role
}

type TransferManagerInput struct {
	CallerID     string
	LeagueID     string
	NewManagerID string
}

// AuthorityService maintains the admin/role relation between users and
// teams and the single manager relation between a user and a league.
type AuthorityService struct {
	teamRepo   team.Repository
	leagueRepo league.Repository
	auditRepo  audit.Repository
	notifier   *NotificationService
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewAuthorityService(
	teamRepo team.Repository,
	leagueRepo league.Repository,
	auditRepo audit.Repository,
	notifier *NotificationService,
	idGen idgen.Generator,
	logger *slog.Logger,
) *AuthorityService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthorityService{
		teamRepo:   teamRepo,
		leagueRepo: leagueRepo,
		auditRepo:  auditRepo,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// Promote changes a member's role. The caller must be a team admin.
// Leadership roles always carry admin rights; CAPTAIN is held by at
// most one member per team, enforced by the repository write itself so
// concurrent promotions cannot both succeed.
func (s *AuthorityService) Promote(ctx context.Context, input PromoteInput) (team.Membership, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthorityService.Promote")
	defer span.End()

	input.CallerID = strings.TrimSpace(input.CallerID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.TargetUserID = strings.TrimSpace(input.TargetUserID)

	if input.CallerID == "" {
		return team.Membership{}, fmt.Errorf("%w: caller id is required", ErrUnauthorized)
	}
	if input.TeamID == "" || input.TargetUserID == "" {
		return team.Membership{}, fmt.Errorf("%w: team_id and target user_id are required", ErrInvalidInput)
	}
	if !input.Role.Valid() {
		return team.Membership{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}

	if _, exists, err := s.teamRepo.GetByID(ctx, input.TeamID); err != nil {
		return team.Membership{}, fmt.Errorf("get team: %w", err)
	} else if !exists {
		return team.Membership{}, fmt.Errorf("%w: team=%s", ErrNotFound, input.TeamID)
	}

	caller, exists, err := s.teamRepo.GetMembership(ctx, input.TeamID, input.CallerID)
	if err != nil {
		return team.Membership{}, fmt.Errorf("get caller membership: %w", err)
	}
	if !exists || !caller.IsAdmin {
		return team.Membership{}, fmt.Errorf("%w: caller is not a team admin", ErrForbidden)
	}

	target, exists, err := s.teamRepo.GetMembership(ctx, input.TeamID, input.TargetUserID)
	if err != nil {
		return team.Membership{}, fmt.Errorf("get target membership: %w", err)
	}
	if !exists {
		return team.Membership{}, fmt.Errorf("%w: user=%s is not a member of team=%s", ErrNotFound, input.TargetUserID, input.TeamID)
	}

	updated := target
	updated.Role = input.Role
	if input.Role.IsLeadership() {
		updated.IsAdmin = true
	}

	if err := s.teamRepo.UpsertMembership(ctx, updated); err != nil {
		if errors.Is(err, team.ErrCaptainTaken) {
			return team.Membership{}, fmt.Errorf("%w: team=%s already has a captain", ErrConflict, input.TeamID)
		}
		return team.Membership{}, fmt.Errorf("update membership: %w", err)
	}

	s.appendAudit(ctx, audit.Entry{
		ActorID: input.CallerID,
		TeamID:  input.TeamID,
		Action:  audit.ActionRolePromoted,
		Payload: map[string]any{
			"user_id":  input.TargetUserID,
			"role":     string(updated.Role),
			"is_admin": updated.IsAdmin,
		},
	})

	s.emit(ctx, EmitInput{
		UserID: input.TargetUserID,
		Type:   notification.TypeRoleChanged,
		TeamID: input.TeamID,
		Payload: map[string]any{
			"team_id": input.TeamID,
			"role":    string(updated.Role),
		},
	})

	return updated, nil
}

// ReconcileConsistency repairs memberships holding a leadership role
// without admin rights. It grants rights, never removes them, so it is
// safe to run concurrently with Promote. Re-running after a clean scan
// is a no-op; one audit entry is appended per corrected row and a bad
// row never fails the batch.
func (s *AuthorityService) ReconcileConsistency(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthorityService.ReconcileConsistency")
	defer span.End()

	inconsistent, err := s.teamRepo.ListInconsistent(ctx)
	if err != nil {
		return 0, fmt.Errorf("list inconsistent memberships: %w", err)
	}
	if len(inconsistent) == 0 {
		return 0, nil
	}

	var corrected atomic.Int32

	workers := pool.New().WithMaxGoroutines(reconcileWorkers)
	for _, m := range inconsistent {
		m := m
		workers.Go(func() {
			fixed := m
			fixed.IsAdmin = true

			if err := s.teamRepo.UpsertMembership(ctx, fixed); err != nil {
				s.logger.WarnContext(ctx, "consistency fix failed",
					"team_id", m.TeamID, "user_id", m.UserID, "error", err)
				return
			}
			corrected.Add(1)

			s.appendAudit(ctx, audit.Entry{
				ActorID: systemActorID,
				TeamID:  m.TeamID,
				Action:  audit.ActionRoleConsistencyFix,
				Payload: map[string]any{
					"user_id": m.UserID,
					"role":    string(m.Role),
				},
			})
		})
	}
	workers.Wait()

	count := int(corrected.Load())
	if count > 0 {
		s.logger.InfoContext(ctx, "membership consistency reconciled", "corrected", count)
	}

	return count, nil
}

// TransferLeagueManager hands the league to a new manager. The caller
// must be the current manager and the new manager must administer a
// participating team. The manager column is swapped in one
// compare-and-swap write; there is never a window with zero or two
// managers.
func (s *AuthorityService) TransferLeagueManager(ctx context.Context, input TransferManagerInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthorityService.TransferLeagueManager")
	defer span.End()

	input.CallerID = strings.TrimSpace(input.CallerID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.NewManagerID = strings.TrimSpace(input.NewManagerID)

	if input.CallerID == "" {
		return league.League{}, fmt.Errorf("%w: caller id is required", ErrUnauthorized)
	}
	if input.LeagueID == "" || input.NewManagerID == "" {
		return league.League{}, fmt.Errorf("%w: league_id and new manager user_id are required", ErrInvalidInput)
	}

	current, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}
	if current.ManagerID != input.CallerID {
		return league.League{}, fmt.Errorf("%w: caller is not the league manager", ErrForbidden)
	}

	isAdmin, err := s.managesParticipatingTeam(ctx, input.LeagueID, input.NewManagerID)
	if err != nil {
		return league.League{}, err
	}
	if !isAdmin {
		return league.League{}, fmt.Errorf("%w: new manager must administer a participating team", ErrInvalidInput)
	}

	if err := s.leagueRepo.UpdateManager(ctx, input.LeagueID, input.CallerID, input.NewManagerID); err != nil {
		if errors.Is(err, league.ErrManagerChanged) {
			return league.League{}, fmt.Errorf("%w: league manager changed concurrently", ErrConflict)
		}
		return league.League{}, fmt.Errorf("update league manager: %w", err)
	}

	s.appendAudit(ctx, audit.Entry{
		ActorID:  input.CallerID,
		LeagueID: input.LeagueID,
		Action:   audit.ActionManagerTransferred,
		Payload: map[string]any{
			"from_user_id": input.CallerID,
			"to_user_id":   input.NewManagerID,
		},
	})

	payload := map[string]any{
		"league_id":    input.LeagueID,
		"from_user_id": input.CallerID,
		"to_user_id":   input.NewManagerID,
	}
	s.emit(ctx, EmitInput{UserID: input.NewManagerID, Type: notification.TypeManagerTransferred, Payload: payload})
	s.emit(ctx, EmitInput{UserID: input.CallerID, Type: notification.TypeManagerTransferred, Payload: payload})

	current.ManagerID = input.NewManagerID

	return current, nil
}

func (s *AuthorityService) managesParticipatingTeam(ctx context.Context, leagueID, userID string) (bool, error) {
	teams, err := s.leagueRepo.ListTeams(ctx, leagueID)
	if err != nil {
		return false, fmt.Errorf("list league teams: %w", err)
	}

	for _, lt := range teams {
		m, exists, err := s.teamRepo.GetMembership(ctx, lt.TeamID, userID)
		if err != nil {
			return false, fmt.Errorf("get membership: %w", err)
		}
		if exists && m.IsAdmin {
			return true, nil
		}
	}

	return false, nil
}

// appendAudit records what happened. The write is part of the
// operation's contract; a failure is logged loudly but the mutation it
// describes has already been committed, so it is not rolled back.
func (s *AuthorityService) appendAudit(ctx context.Context, e audit.Entry) {
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

func (s *AuthorityService) emit(ctx context.Context, input EmitInput) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Emit(ctx, input); err != nil {
		s.logger.WarnContext(ctx, "emit notification failed", "type", input.Type, "error", err)
	}
}
