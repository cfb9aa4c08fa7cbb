package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ostvang/leaguedesk/internal/domain/joinrequest"
	"github.com/ostvang/leaguedesk/internal/domain/league"
	"github.com/ostvang/leaguedesk/internal/domain/notification"
	"github.com/ostvang/leaguedesk/internal/domain/team"
	"github.com/ostvang/leaguedesk/internal/infrastructure/repository/memory"
	"golang.org/x/crypto/bcrypt"
)

func newJoinFixture(t *testing.T) (*JoinService, *memory.JoinRequestRepository, *memory.TeamRepository, *memory.LeagueRepository, *memory.NotificationRepository) {
	t.Helper()

	joinRepo := memory.NewJoinRequestRepository()
	teamRepo := memory.NewTeamRepository(memory.SeedTeams(), memory.SeedMemberships())
	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues(), nil)
	notifier, notifRepo := newTestNotifier(t)

	svc := NewJoinService(
		joinRepo,
		teamRepo,
		leagueRepo,
		memory.NewUserRepository(memory.SeedUsers()),
		memory.NewAuditRepository(),
		notifier,
		&seqIDGenerator{prefix: "join"},
		discardLogger(),
	)

	return svc, joinRepo, teamRepo, leagueRepo, notifRepo
}

func TestJoinService_CreateRequest_TeamToLeague(t *testing.T) {
	t.Parallel()

	svc, _, _, _, notifRepo := newJoinFixture(t)
	ctx := context.Background()

	request, err := svc.CreateRequest(ctx, CreateRequestInput{
		Kind:        joinrequest.KindTeamToLeague,
		RequesterID: memory.TeamIDNordbyFC,
		ActorID:     memory.UserIDMarit,
		TargetID:    memory.LeagueIDSundayFootball,
	})
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	if request.Status != joinrequest.StatusPending {
		t.Fatalf("expected PENDING, got %s", request.Status)
	}

	// The league manager gets told.
	notifs, err := notifRepo.ListByUser(ctx, memory.UserIDMarit)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifs) != 1 || notifs[0].Type != notification.TypeJoinRequested {
		t.Fatalf("expected one JOIN_REQUESTED notification for the manager, got %+v", notifs)
	}
}

func TestJoinService_CreateRequest_DuplicatePendingConflicts(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newJoinFixture(t)
	ctx := context.Background()

	input := CreateRequestInput{
		Kind:        joinrequest.KindTeamToLeague,
		RequesterID: memory.TeamIDNordbyFC,
		ActorID:     memory.UserIDMarit,
		TargetID:    memory.LeagueIDSundayFootball,
	}

	first, err := svc.CreateRequest(ctx, input)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	if _, err := svc.CreateRequest(ctx, input); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate pending, got %v", err)
	}

	// Once the first request is settled the pair is open again.
	if _, err := svc.Decide(ctx, DecideInput{
		ApproverID: memory.UserIDMarit,
		RequestID:  first.ID,
		Approve:    false,
	}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	if _, err := svc.CreateRequest(ctx, input); err != nil {
		t.Fatalf("request after terminal decision failed: %v", err)
	}
}

func TestJoinService_CreateRequest_SportMismatchInvalid(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newJoinFixture(t)

	// Fjell SK plays handball; the league is football.
	_, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		Kind:        joinrequest.KindTeamToLeague,
		RequesterID: memory.TeamIDFjellSK,
		ActorID:     memory.UserIDOla,
		TargetID:    memory.LeagueIDSundayFootball,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestJoinService_CreateRequest_AlreadyInLeagueConflicts(t *testing.T) {
	t.Parallel()

	svc, _, _, leagueRepo, _ := newJoinFixture(t)
	ctx := context.Background()

	if err := leagueRepo.AddTeam(ctx, league.LeagueTeam{
		LeagueID: memory.LeagueIDSundayFootball,
		TeamID:   memory.TeamIDNordbyFC,
	}); err != nil {
		t.Fatalf("seed league team: %v", err)
	}

	_, err := svc.CreateRequest(ctx, CreateRequestInput{
		Kind:        joinrequest.KindTeamToLeague,
		RequesterID: memory.TeamIDNordbyFC,
		ActorID:     memory.UserIDMarit,
		TargetID:    memory.LeagueIDSundayFootball,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestJoinService_Decide_ApproveCreatesLeagueTeamExactlyOnce(t *testing.T) {
	t.Parallel()

	svc, _, _, leagueRepo, _ := newJoinFixture(t)
	ctx := context.Background()

	request, err := svc.CreateRequest(ctx, CreateRequestInput{
		Kind:        joinrequest.KindTeamToLeague,
		RequesterID: memory.TeamIDEikaUnited,
		ActorID:     memory.UserIDJonas,
		TargetID:    memory.LeagueIDSundayFootball,
	})
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}

	decided, err := svc.Decide(ctx, DecideInput{
		ApproverID: memory.UserIDMarit,
		RequestID:  request.ID,
		Approve:    true,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if decided.Status != joinrequest.StatusApproved {
		t.Fatalf("expected APPROVED, got %s", decided.Status)
	}

	member, err := leagueRepo.HasTeam(ctx, memory.LeagueIDSundayFootball, memory.TeamIDEikaUnited)
	if err != nil {
		t.Fatalf("check league team: %v", err)
	}
	if !member {
		t.Fatalf("expected team to join the league on approval")
	}

	// Terminal requests are never decided twice.
	if _, err := svc.Decide(ctx, DecideInput{
		ApproverID: memory.UserIDMarit,
		RequestID:  request.ID,
		Approve:    true,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for second decision, got %v", err)
	}
}

func TestJoinService_Decide_ApproveRetriesAfterLeftoverLink(t *testing.T) {
	t.Parallel()

	svc, _, _, leagueRepo, _ := newJoinFixture(t)
	ctx := context.Background()

	request, err := svc.CreateRequest(ctx, CreateRequestInput{
		Kind:        joinrequest.KindTeamToLeague,
		RequesterID: memory.TeamIDEikaUnited,
		ActorID:     memory.UserIDJonas,
		TargetID:    memory.LeagueIDSundayFootball,
	})
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}

	// An earlier approval attempt wrote the league link but never
	// flipped the request. The retry must still go through.
	if err := leagueRepo.AddTeam(ctx, league.LeagueTeam{
		LeagueID: memory.LeagueIDSundayFootball,
		TeamID:   memory.TeamIDEikaUnited,
	}); err != nil {
		t.Fatalf("seed league team: %v", err)
	}

	decided, err := svc.Decide(ctx, DecideInput{
		ApproverID: memory.UserIDMarit,
		RequestID:  request.ID,
		Approve:    true,
	})
	if err != nil {
		t.Fatalf("approve retry failed: %v", err)
	}
	if decided.Status != joinrequest.StatusApproved {
		t.Fatalf("expected APPROVED, got %s", decided.Status)
	}
}

// flakyStatusJoinRepo fails the status flip on demand.
type flakyStatusJoinRepo struct {
	*memory.JoinRequestRepository
	failFlip bool
}

func (r *flakyStatusJoinRepo) UpdateStatus(ctx context.Context, requestID string, status joinrequest.Status) error {
	if r.failFlip {
		return errors.New("connection reset")
	}
	return r.JoinRequestRepository.UpdateStatus(ctx, requestID, status)
}

func TestJoinService_Decide_FailedFlipLeavesRequestPending(t *testing.T) {
	t.Parallel()

	joinRepo := &flakyStatusJoinRepo{JoinRequestRepository: memory.NewJoinRequestRepository()}
	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues(), nil)
	notifier, _ := newTestNotifier(t)
	svc := NewJoinService(
		joinRepo,
		memory.NewTeamRepository(memory.SeedTeams(), memory.SeedMemberships()),
		leagueRepo,
		memory.NewUserRepository(memory.SeedUsers()),
		memory.NewAuditRepository(),
		notifier,
		&seqIDGenerator{prefix: "join"},
		discardLogger(),
	)
	ctx := context.Background()

	request, err := svc.CreateRequest(ctx, CreateRequestInput{
		Kind:        joinrequest.KindTeamToLeague,
		RequesterID: memory.TeamIDEikaUnited,
		ActorID:     memory.UserIDJonas,
		TargetID:    memory.LeagueIDSundayFootball,
	})
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}

	joinRepo.failFlip = true
	if _, err := svc.Decide(ctx, DecideInput{
		ApproverID: memory.UserIDMarit,
		RequestID:  request.ID,
		Approve:    true,
	}); err == nil {
		t.Fatalf("expected the failed flip to surface")
	}

	// The interrupted approval left the request PENDING, not a terminal
	// APPROVED without the relationship.
	stored, exists, err := joinRepo.GetByID(ctx, request.ID)
	if err != nil || !exists {
		t.Fatalf("get request: exists=%t err=%v", exists, err)
	}
	if stored.Status != joinrequest.StatusPending {
		t.Fatalf("expected request to stay PENDING, got %s", stored.Status)
	}

	joinRepo.failFlip = false
	decided, err := svc.Decide(ctx, DecideInput{
		ApproverID: memory.UserIDMarit,
		RequestID:  request.ID,
		Approve:    true,
	})
	if err != nil {
		t.Fatalf("approve retry failed: %v", err)
	}
	if decided.Status != joinrequest.StatusApproved {
		t.Fatalf("expected APPROVED after retry, got %s", decided.Status)
	}

	member, err := leagueRepo.HasTeam(ctx, memory.LeagueIDSundayFootball, memory.TeamIDEikaUnited)
	if err != nil || !member {
		t.Fatalf("expected team in league after retry: member=%t err=%v", member, err)
	}
}

func TestJoinService_CreateRequest_NonAdminActorForbidden(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newJoinFixture(t)
	ctx := context.Background()

	// Ingrid is a plain member of Nordby FC, not an admin.
	if _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Kind:        joinrequest.KindTeamToLeague,
		RequesterID: memory.TeamIDNordbyFC,
		ActorID:     memory.UserIDIngrid,
		TargetID:    memory.LeagueIDSundayFootball,
	}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin actor, got %v", err)
	}

	// Nobody requests team membership on another user's behalf.
	if _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Kind:        joinrequest.KindUserToTeam,
		RequesterID: memory.UserIDOla,
		ActorID:     memory.UserIDJonas,
		TargetID:    memory.TeamIDEikaUnited,
	}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for mismatched requester, got %v", err)
	}
}

func TestJoinService_Decide_NonManagerForbidden(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newJoinFixture(t)
	ctx := context.Background()

	request, err := svc.CreateRequest(ctx, CreateRequestInput{
		Kind:        joinrequest.KindTeamToLeague,
		RequesterID: memory.TeamIDEikaUnited,
		ActorID:     memory.UserIDJonas,
		TargetID:    memory.LeagueIDSundayFootball,
	})
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}

	_, err = svc.Decide(ctx, DecideInput{
		ApproverID: memory.UserIDJonas,
		RequestID:  request.ID,
		Approve:    true,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestJoinService_UserToTeam_JoinPassword(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("rosenborg"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	teams := memory.SeedTeams()
	for i := range teams {
		if teams[i].ID == memory.TeamIDEikaUnited {
			teams[i].JoinPasswordHash = string(hash)
		}
	}

	teamRepo := memory.NewTeamRepository(teams, memory.SeedMemberships())
	notifier, _ := newTestNotifier(t)
	svc := NewJoinService(
		memory.NewJoinRequestRepository(),
		teamRepo,
		memory.NewLeagueRepository(memory.SeedLeagues(), nil),
		memory.NewUserRepository(memory.SeedUsers()),
		memory.NewAuditRepository(),
		notifier,
		&seqIDGenerator{prefix: "join"},
		discardLogger(),
	)

	ctx := context.Background()

	_, err = svc.CreateRequest(ctx, CreateRequestInput{
		Kind:         joinrequest.KindUserToTeam,
		RequesterID:  memory.UserIDOla,
		ActorID:      memory.UserIDOla,
		TargetID:     memory.TeamIDEikaUnited,
		JoinPassword: "wrong",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for wrong password, got %v", err)
	}

	request, err := svc.CreateRequest(ctx, CreateRequestInput{
		Kind:         joinrequest.KindUserToTeam,
		RequesterID:  memory.UserIDOla,
		ActorID:      memory.UserIDOla,
		TargetID:     memory.TeamIDEikaUnited,
		JoinPassword: "rosenborg",
	})
	if err != nil {
		t.Fatalf("create request with correct password failed: %v", err)
	}

	if _, err := svc.Decide(ctx, DecideInput{
		ApproverID: memory.UserIDJonas,
		RequestID:  request.ID,
		Approve:    true,
	}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	m, exists, err := teamRepo.GetMembership(ctx, memory.TeamIDEikaUnited, memory.UserIDOla)
	if err != nil || !exists {
		t.Fatalf("expected membership after approval: exists=%t err=%v", exists, err)
	}
	if m.Role != team.RoleMember || m.IsAdmin {
		t.Fatalf("expected plain MEMBER membership, got %+v", m)
	}
}

func TestJoinService_UserToTeam_UnknownUserNotFound(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newJoinFixture(t)

	_, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		Kind:        joinrequest.KindUserToTeam,
		RequesterID: "user-ghost",
		ActorID:     "user-ghost",
		TargetID:    memory.TeamIDEikaUnited,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestJoinService_ListPending(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newJoinFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Kind:        joinrequest.KindTeamToLeague,
		RequesterID: memory.TeamIDNordbyFC,
		ActorID:     memory.UserIDMarit,
		TargetID:    memory.LeagueIDSundayFootball,
	}); err != nil {
		t.Fatalf("create request failed: %v", err)
	}

	pending, err := svc.ListPending(ctx, joinrequest.KindTeamToLeague, memory.LeagueIDSundayFootball)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending request, got %d", len(pending))
	}
	if pending[0].Request.RequesterID != memory.TeamIDNordbyFC {
		t.Fatalf("unexpected pending request: %+v", pending[0].Request)
	}
	// The requesting side is a team, so there is no user to resolve.
	if pending[0].Requester.ID != "" {
		t.Fatalf("expected no requester user for team request, got %+v", pending[0].Requester)
	}
}

func TestJoinService_ListPending_ResolvesRequesters(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newJoinFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Kind:        joinrequest.KindUserToTeam,
		RequesterID: memory.UserIDOla,
		ActorID:     memory.UserIDOla,
		TargetID:    memory.TeamIDEikaUnited,
	}); err != nil {
		t.Fatalf("create request failed: %v", err)
	}

	pending, err := svc.ListPending(ctx, joinrequest.KindUserToTeam, memory.TeamIDEikaUnited)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending request, got %d", len(pending))
	}
	if pending[0].Requester.Name != "Ola Strand" || pending[0].Requester.Email != "ola@fjell.example" {
		t.Fatalf("expected requester resolved, got %+v", pending[0].Requester)
	}
}
