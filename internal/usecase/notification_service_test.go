package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ostvang/leaguedesk/internal/domain/assignment"
	"github.com/ostvang/leaguedesk/internal/domain/joinrequest"
	"github.com/ostvang/leaguedesk/internal/domain/match"
	"github.com/ostvang/leaguedesk/internal/domain/notification"
	"github.com/ostvang/leaguedesk/internal/infrastructure/repository/memory"
)

type notifFixture struct {
	svc            *NotificationService
	notifRepo      *memory.NotificationRepository
	assignmentRepo *memory.AssignmentRepository
	joinRepo       *memory.JoinRequestRepository
	matchRepo      *memory.MatchRepository
}

func newNotifFixture(t *testing.T) notifFixture {
	t.Helper()

	f := notifFixture{
		notifRepo:      memory.NewNotificationRepository(),
		assignmentRepo: memory.NewAssignmentRepository(),
		joinRepo:       memory.NewJoinRequestRepository(),
		matchRepo:      memory.NewMatchRepository(memory.SeedMatches()),
	}
	f.svc = NewNotificationService(
		f.notifRepo,
		f.assignmentRepo,
		f.joinRepo,
		f.matchRepo,
		nil,
		&seqIDGenerator{prefix: "notif"},
		discardLogger(),
	)

	return f
}

func TestNotificationService_RetireObsolete(t *testing.T) {
	t.Parallel()

	f := newNotifFixture(t)
	ctx := context.Background()

	if err := f.assignmentRepo.Create(ctx, assignment.Assignment{
		ID: "assign-live", UserID: memory.UserIDIngrid, Status: assignment.StatusPending,
	}); err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
	if err := f.joinRepo.Create(ctx, joinrequest.JoinRequest{
		ID: "join-done", Kind: joinrequest.KindUserToTeam,
		RequesterID: memory.UserIDOla, TargetID: memory.TeamIDNordbyFC,
		Status: joinrequest.StatusApproved,
	}); err != nil {
		t.Fatalf("seed join request: %v", err)
	}

	emit := func(typ notification.Type, payload map[string]any) notification.Notification {
		n, err := f.svc.Emit(ctx, EmitInput{UserID: memory.UserIDIngrid, Type: typ, Payload: payload})
		if err != nil {
			t.Fatalf("emit %s: %v", typ, err)
		}
		return n
	}

	live := emit(notification.TypeAssignmentPending, map[string]any{"assignment_id": "assign-live"})
	gone := emit(notification.TypeAssignmentPending, map[string]any{"assignment_id": "assign-missing"})
	decided := emit(notification.TypeJoinRequested, map[string]any{"request_id": "join-done"})
	openScore := emit(notification.TypeScoreSubmitted, map[string]any{"match_id": "match-nordby-eika-r1"})
	roleChange := emit(notification.TypeRoleChanged, nil)

	retired, err := f.svc.RetireObsolete(ctx, memory.UserIDIngrid)
	if err != nil {
		t.Fatalf("retire sweep failed: %v", err)
	}
	// Missing assignment and decided join request retire; the live
	// assignment, the open match and the non-retirable type stay.
	if retired != 2 {
		t.Fatalf("expected 2 retired, got %d", retired)
	}

	readByID := make(map[string]bool)
	items, err := f.notifRepo.ListByUser(ctx, memory.UserIDIngrid)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	for _, n := range items {
		readByID[n.ID] = n.Read
	}
	if !readByID[gone.ID] || !readByID[decided.ID] {
		t.Fatalf("stale notifications not retired: %v", readByID)
	}
	if readByID[live.ID] || readByID[openScore.ID] || readByID[roleChange.ID] {
		t.Fatalf("valid notifications were retired: %v", readByID)
	}

	// The sweep is idempotent.
	retired, err = f.svc.RetireObsolete(ctx, memory.UserIDIngrid)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if retired != 0 {
		t.Fatalf("expected second sweep to retire nothing, got %d", retired)
	}
}

func TestNotificationService_RetireObsolete_CompletedMatch(t *testing.T) {
	t.Parallel()

	f := newNotifFixture(t)
	ctx := context.Background()

	n, err := f.svc.Emit(ctx, EmitInput{
		UserID:  memory.UserIDJonas,
		Type:    notification.TypeScoreSubmitted,
		Payload: map[string]any{"match_id": "match-nordby-eika-r1"},
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	agreed := match.ScoreSubmission{
		ID:      "subm-nordby-r1",
		MatchID: "match-nordby-eika-r1",
		TeamID:  memory.TeamIDNordbyFC,
		Home:    2,
		Away:    0,
		Status:  match.SubmissionAgreed,
	}
	if _, err := f.matchRepo.SettleAgreed(ctx, "match-nordby-eika-r1", agreed, "subm-eika-r1"); err != nil {
		t.Fatalf("settle match: %v", err)
	}

	// Listing sweeps first, so the stale prompt comes back read.
	items, err := f.svc.List(ctx, memory.UserIDJonas)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != n.ID || !items[0].Read {
		t.Fatalf("expected the score prompt retired on list, got %+v", items)
	}
}

func TestNotificationService_MarkAllRead_FilterScope(t *testing.T) {
	t.Parallel()

	f := newNotifFixture(t)
	ctx := context.Background()

	emit := func(userID string, typ notification.Type, payload map[string]any) {
		if _, err := f.svc.Emit(ctx, EmitInput{UserID: userID, Type: typ, Payload: payload}); err != nil {
			t.Fatalf("emit: %v", err)
		}
	}

	emit(memory.UserIDIngrid, notification.TypeAssignmentPending, map[string]any{"assignment_id": "assign-1"})
	emit(memory.UserIDIngrid, notification.TypeAssignmentPending, map[string]any{"assignment_id": "assign-2"})
	emit(memory.UserIDIngrid, notification.TypeRoleChanged, map[string]any{"assignment_id": "assign-1"})
	emit(memory.UserIDMarit, notification.TypeAssignmentPending, map[string]any{"assignment_id": "assign-1"})

	count, err := f.svc.MarkAllRead(ctx, memory.UserIDIngrid, notification.Filter{
		Types:      []notification.Type{notification.TypeAssignmentPending},
		ReferKey:   "assignment_id",
		ReferValue: "assign-1",
	})
	if err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one notification marked, got %d", count)
	}

	ingrid, err := f.notifRepo.ListByUser(ctx, memory.UserIDIngrid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, n := range ingrid {
		wantRead := n.Type == notification.TypeAssignmentPending && n.Payload["assignment_id"] == "assign-1"
		if n.Read != wantRead {
			t.Fatalf("filter scoped wrong row: %+v", n)
		}
	}

	marit, err := f.notifRepo.ListByUser(ctx, memory.UserIDMarit)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(marit) != 1 || marit[0].Read {
		t.Fatalf("other user's notifications must be untouched: %+v", marit)
	}
}

func TestNotificationService_MarkReadAndDeleteAll(t *testing.T) {
	t.Parallel()

	f := newNotifFixture(t)
	ctx := context.Background()

	n, err := f.svc.Emit(ctx, EmitInput{UserID: memory.UserIDOla, Type: notification.TypeRoleChanged})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	// Another user cannot flip it.
	if err := f.svc.MarkRead(ctx, memory.UserIDMarit, n.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign notification, got %v", err)
	}
	if err := f.svc.MarkRead(ctx, memory.UserIDOla, n.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	deleted, err := f.svc.DeleteAll(ctx, memory.UserIDOla)
	if err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected one deleted, got %d", deleted)
	}

	items, err := f.svc.List(ctx, memory.UserIDOla)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty inbox, got %d items", len(items))
	}
}
