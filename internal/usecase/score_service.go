package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ostvang/leaguedesk/internal/domain/audit"
	"github.com/ostvang/leaguedesk/internal/domain/league"
	"github.com/ostvang/leaguedesk/internal/domain/match"
	"github.com/ostvang/leaguedesk/internal/domain/notification"
	"github.com/ostvang/leaguedesk/internal/domain/team"
	idgen "github.com/ostvang/leaguedesk/internal/platform/id"
)

// Submission outcomes reported back to the caller.
const (
	SubmitOutcomePending  = "PENDING"
	SubmitOutcomeReplaced = "REPLACED"
	SubmitOutcomeAgreed   = "AGREED"
	SubmitOutcomeDisputed = "DISPUTED"
)

type SubmitScoreInput struct {
	// ActorID is the authenticated user reporting on the team's
	// behalf; they must hold a membership in TeamID.
	ActorID string
	TeamID  string
	MatchID string
	Home    int
	Away    int
}

type SubmitScoreResult struct {
	Outcome    string
	Match      match.SeasonMatch
	Submission match.ScoreSubmission
}

// DashboardEntry is one pending submission with its submitting team
// resolved.
type DashboardEntry struct {
	Match         match.SeasonMatch
	Submission    match.ScoreSubmission
	SubmitterTeam team.Team
}

type Dashboard struct {
	Pending    []DashboardEntry
	Unrecorded []match.SeasonMatch
}

// ScoreService turns one-sided score reports into canonical match
// results. A match completes only after both sides have acted; the
// service is the sole writer of canonical scores.
type ScoreService struct {
	matchRepo  match.Repository
	teamRepo   team.Repository
	leagueRepo league.Repository
	auditRepo  audit.Repository
	notifier   *NotificationService
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewScoreService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	leagueRepo league.Repository,
	auditRepo audit.Repository,
	notifier *NotificationService,
	idGen idgen.Generator,
	logger *slog.Logger,
) *ScoreService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ScoreService{
		matchRepo:  matchRepo,
		teamRepo:   teamRepo,
		leagueRepo: leagueRepo,
		auditRepo:  auditRepo,
		notifier:   notifier,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit records one side's score report. The first report opens a
// PENDING submission; a later report from the same side replaces it.
// The counter-party's report settles the match: equal scores complete
// it with the canonical result, unequal scores mark both submissions
// DISPUTED for human resolution. Scores compare on the literal numeric
// pair.
func (s *ScoreService) Submit(ctx context.Context, input SubmitScoreInput) (SubmitScoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.Submit")
	defer span.End()

	input.ActorID = strings.TrimSpace(input.ActorID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.MatchID = strings.TrimSpace(input.MatchID)

	if input.ActorID == "" {
		return SubmitScoreResult{}, fmt.Errorf("%w: actor id is required", ErrUnauthorized)
	}
	if input.TeamID == "" || input.MatchID == "" {
		return SubmitScoreResult{}, fmt.Errorf("%w: team_id and match_id are required", ErrInvalidInput)
	}
	if input.Home < 0 || input.Away < 0 {
		return SubmitScoreResult{}, fmt.Errorf("%w: scores must be non-negative", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return SubmitScoreResult{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return SubmitScoreResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}
	if !m.HasTeam(input.TeamID) {
		return SubmitScoreResult{}, fmt.Errorf("%w: team=%s does not play in match=%s", ErrForbidden, input.TeamID, input.MatchID)
	}
	if _, member, err := s.teamRepo.GetMembership(ctx, input.TeamID, input.ActorID); err != nil {
		return SubmitScoreResult{}, fmt.Errorf("get reporter membership: %w", err)
	} else if !member {
		return SubmitScoreResult{}, fmt.Errorf("%w: only members of team=%s report its scores", ErrForbidden, input.TeamID)
	}
	if m.Status == match.StatusCompleted {
		return SubmitScoreResult{}, fmt.Errorf("%w: match result is already recorded", ErrInvalidInput)
	}

	existing, hasPending, err := s.matchRepo.GetPendingSubmission(ctx, input.MatchID)
	if err != nil {
		return SubmitScoreResult{}, fmt.Errorf("get pending submission: %w", err)
	}

	submission := match.ScoreSubmission{
		MatchID:     input.MatchID,
		TeamID:      input.TeamID,
		Home:        input.Home,
		Away:        input.Away,
		Status:      match.SubmissionPending,
		SubmittedAt: s.now().UTC(),
	}

	switch {
	case !hasPending:
		return s.openSubmission(ctx, m, submission, SubmitOutcomePending)

	case existing.TeamID == input.TeamID:
		// Latest report from a side supersedes its previous one.
		return s.openSubmission(ctx, m, submission, SubmitOutcomeReplaced)

	case existing.SameScore(submission):
		return s.settleAgreed(ctx, m, existing, submission)

	default:
		return s.settleDisputed(ctx, m, existing, submission)
	}
}

func (s *ScoreService) openSubmission(ctx context.Context, m match.SeasonMatch, submission match.ScoreSubmission, outcome string) (SubmitScoreResult, error) {
	id, err := s.idGen.NewID()
	if err != nil {
		return SubmitScoreResult{}, fmt.Errorf("generate submission id: %w", err)
	}
	submission.ID = id

	if err := s.matchRepo.UpsertSubmission(ctx, submission); err != nil {
		return SubmitScoreResult{}, fmt.Errorf("save score submission: %w", err)
	}

	s.appendAudit(ctx, audit.Entry{
		ActorID:  submission.TeamID,
		TeamID:   submission.TeamID,
		LeagueID: m.LeagueID,
		Action:   audit.ActionScoreSubmitted,
		Payload: map[string]any{
			"match_id": m.ID,
			"home":     submission.Home,
			"away":     submission.Away,
		},
	})

	if outcome == SubmitOutcomePending {
		s.notifyTeamAdmins(ctx, m.Opponent(submission.TeamID), notification.TypeScoreSubmitted, map[string]any{
			"match_id": m.ID,
			"team_id":  submission.TeamID,
			"home":     submission.Home,
			"away":     submission.Away,
		})
	}

	return SubmitScoreResult{Outcome: outcome, Match: m, Submission: submission}, nil
}

func (s *ScoreService) settleAgreed(ctx context.Context, m match.SeasonMatch, existing, submission match.ScoreSubmission) (SubmitScoreResult, error) {
	id, err := s.idGen.NewID()
	if err != nil {
		return SubmitScoreResult{}, fmt.Errorf("generate submission id: %w", err)
	}
	submission.ID = id
	submission.Status = match.SubmissionAgreed

	// One repository write settles everything: the canonical score, the
	// COMPLETED status and both AGREED submissions commit or fail
	// together.
	completed, err := s.matchRepo.SettleAgreed(ctx, m.ID, submission, existing.ID)
	if err != nil {
		return SubmitScoreResult{}, fmt.Errorf("settle agreed score: %w", err)
	}
	if !completed {
		return SubmitScoreResult{}, fmt.Errorf("%w: match was completed concurrently", ErrConflict)
	}

	home, away := submission.Home, submission.Away
	m.Status = match.StatusCompleted
	m.HomeScore = &home
	m.AwayScore = &away

	s.appendAudit(ctx, audit.Entry{
		ActorID:  submission.TeamID,
		LeagueID: m.LeagueID,
		Action:   audit.ActionScoreAgreed,
		Payload: map[string]any{
			"match_id": m.ID,
			"home":     home,
			"away":     away,
		},
	})

	payload := map[string]any{"match_id": m.ID, "home": home, "away": away}
	s.notifyTeamAdmins(ctx, m.HomeTeamID, notification.TypeScoreAgreed, payload)
	s.notifyTeamAdmins(ctx, m.AwayTeamID, notification.TypeScoreAgreed, payload)

	return SubmitScoreResult{Outcome: SubmitOutcomeAgreed, Match: m, Submission: submission}, nil
}

func (s *ScoreService) settleDisputed(ctx context.Context, m match.SeasonMatch, existing, submission match.ScoreSubmission) (SubmitScoreResult, error) {
	id, err := s.idGen.NewID()
	if err != nil {
		return SubmitScoreResult{}, fmt.Errorf("generate submission id: %w", err)
	}
	submission.ID = id
	submission.Status = match.SubmissionDisputed

	if err := s.matchRepo.UpsertSubmission(ctx, submission); err != nil {
		return SubmitScoreResult{}, fmt.Errorf("save disputed submission: %w", err)
	}
	if err := s.matchRepo.UpdateSubmissionStatus(ctx, existing.ID, match.SubmissionDisputed); err != nil {
		return SubmitScoreResult{}, fmt.Errorf("mark counterpart submission disputed: %w", err)
	}

	s.appendAudit(ctx, audit.Entry{
		ActorID:  submission.TeamID,
		LeagueID: m.LeagueID,
		Action:   audit.ActionScoreDisputed,
		Payload: map[string]any{
			"match_id":       m.ID,
			"reported_home":  submission.Home,
			"reported_away":  submission.Away,
			"counter_home":   existing.Home,
			"counter_away":   existing.Away,
			"counter_team":   existing.TeamID,
			"reporting_team": submission.TeamID,
		},
	})

	// Resolution of a disputed result is a human workflow; both sides
	// get told.
	payload := map[string]any{"match_id": m.ID}
	s.notifyTeamAdmins(ctx, m.HomeTeamID, notification.TypeScoreDisputed, payload)
	s.notifyTeamAdmins(ctx, m.AwayTeamID, notification.TypeScoreDisputed, payload)

	return SubmitScoreResult{Outcome: SubmitOutcomeDisputed, Match: m, Submission: submission}, nil
}

// Dashboard projects the league's reconciliation state: submissions
// waiting on the counter-party (newest first) and past matches nobody
// has reported (most recently scheduled first).
func (s *ScoreService) Dashboard(ctx context.Context, leagueID string) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.Dashboard")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return Dashboard{}, fmt.Errorf("%w: league_id is required", ErrInvalidInput)
	}

	if _, exists, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return Dashboard{}, fmt.Errorf("get league: %w", err)
	} else if !exists {
		return Dashboard{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	pending, err := s.matchRepo.ListPendingSubmissions(ctx, leagueID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list pending submissions: %w", err)
	}

	entries := make([]DashboardEntry, 0, len(pending))
	for _, p := range pending {
		entry := DashboardEntry{Match: p.Match, Submission: p.Submission}
		if t, exists, err := s.teamRepo.GetByID(ctx, p.Submission.TeamID); err != nil {
			s.logger.WarnContext(ctx, "resolve submitter team failed", "team_id", p.Submission.TeamID, "error", err)
		} else if exists {
			entry.SubmitterTeam = t
		}
		entries = append(entries, entry)
	}

	unrecorded, err := s.matchRepo.ListUnrecorded(ctx, leagueID, s.now().UTC())
	if err != nil {
		return Dashboard{}, fmt.Errorf("list unrecorded matches: %w", err)
	}

	return Dashboard{Pending: entries, Unrecorded: unrecorded}, nil
}

func (s *ScoreService) notifyTeamAdmins(ctx context.Context, teamID string, notifType notification.Type, payload map[string]any) {
	if s.notifier == nil || teamID == "" {
		return
	}

	admins, err := s.teamRepo.ListAdmins(ctx, teamID)
	if err != nil {
		s.logger.WarnContext(ctx, "list team admins failed", "team_id", teamID, "error", err)
		return
	}

	for _, m := range admins {
		if _, err := s.notifier.Emit(ctx, EmitInput{
			UserID:  m.UserID,
			Type:    notifType,
			TeamID:  teamID,
			Payload: payload,
		}); err != nil {
			s.logger.WarnContext(ctx, "emit notification failed", "type", notifType, "error", err)
		}
	}
}

func (s *ScoreService) appendAudit(ctx context.Context, e audit.Entry) {
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
