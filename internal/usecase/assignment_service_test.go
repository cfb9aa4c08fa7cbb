package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ostvang/leaguedesk/internal/domain/assignment"
	"github.com/ostvang/leaguedesk/internal/domain/audit"
	"github.com/ostvang/leaguedesk/internal/domain/notification"
	"github.com/ostvang/leaguedesk/internal/infrastructure/repository/memory"
)

func newAssignmentFixture(t *testing.T) (*AssignmentService, *memory.AuditRepository, *memory.NotificationRepository) {
	t.Helper()

	assignmentRepo := memory.NewAssignmentRepository()
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	auditRepo := memory.NewAuditRepository()

	notifRepo := memory.NewNotificationRepository()
	notifier := NewNotificationService(
		notifRepo,
		assignmentRepo,
		memory.NewJoinRequestRepository(),
		matchRepo,
		nil,
		&seqIDGenerator{prefix: "notif"},
		discardLogger(),
	)

	svc := NewAssignmentService(
		assignmentRepo,
		matchRepo,
		auditRepo,
		notifier,
		&seqIDGenerator{prefix: "assign"},
		discardLogger(),
	)

	return svc, auditRepo, notifRepo
}

func TestAssignmentService_Create(t *testing.T) {
	t.Parallel()

	svc, _, notifRepo := newAssignmentFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateAssignmentInput{
		CallerID: memory.UserIDMarit,
		MatchID:  "match-nordby-eika-r1",
		TeamID:   memory.TeamIDNordbyFC,
		UserID:   memory.UserIDIngrid,
		Duty:     "linesman",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if a.Status != assignment.StatusPending {
		t.Fatalf("expected PENDING assignment, got %s", a.Status)
	}

	notifs, err := notifRepo.ListByUser(ctx, memory.UserIDIngrid)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifs) != 1 || notifs[0].Type != notification.TypeAssignmentPending {
		t.Fatalf("expected one ASSIGNMENT_PENDING notification, got %+v", notifs)
	}
	if notifs[0].Payload["assignment_id"] != a.ID || notifs[0].Payload["duty"] != "linesman" {
		t.Fatalf("unexpected notification payload: %+v", notifs[0].Payload)
	}

	_, err = svc.Create(ctx, CreateAssignmentInput{
		CallerID: memory.UserIDMarit,
		MatchID:  "no-such-match",
		UserID:   memory.UserIDIngrid,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignmentService_Confirm_RetiresPendingNotifications(t *testing.T) {
	t.Parallel()

	svc, auditRepo, notifRepo := newAssignmentFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateAssignmentInput{
		CallerID: memory.UserIDMarit,
		MatchID:  "match-nordby-eika-r1",
		TeamID:   memory.TeamIDNordbyFC,
		UserID:   memory.UserIDIngrid,
		Duty:     "kit wash",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A second assignee with their own pending duty on the same match.
	other, err := svc.Create(ctx, CreateAssignmentInput{
		CallerID: memory.UserIDMarit,
		MatchID:  "match-nordby-eika-r1",
		TeamID:   memory.TeamIDEikaUnited,
		UserID:   memory.UserIDJonas,
		Duty:     "kit wash",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Confirm(ctx, memory.UserIDJonas, a.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-assignee, got %v", err)
	}

	confirmed, err := svc.Confirm(ctx, memory.UserIDIngrid, a.ID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != assignment.StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", confirmed.Status)
	}

	ingrid, err := notifRepo.ListByUser(ctx, memory.UserIDIngrid)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	for _, n := range ingrid {
		switch n.Type {
		case notification.TypeAssignmentPending:
			if !n.Read {
				t.Fatalf("pending prompt must be read after confirm: %+v", n)
			}
		case notification.TypeAssignmentConfirmed:
			if n.Read {
				t.Fatalf("confirmation notice arrives unread: %+v", n)
			}
		}
	}

	jonas, err := notifRepo.ListByUser(ctx, memory.UserIDJonas)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(jonas) != 1 || jonas[0].Read {
		t.Fatalf("other assignee's prompt must stay unread: %+v", jonas)
	}
	if jonas[0].Payload["assignment_id"] != other.ID {
		t.Fatalf("unexpected payload on other assignee's prompt: %+v", jonas[0].Payload)
	}

	found := false
	for _, e := range auditRepo.All() {
		if e.Action == audit.ActionAssignmentConfirmed && e.ActorID == memory.UserIDIngrid {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an assignment-confirmed audit entry")
	}

	if _, err := svc.Confirm(ctx, memory.UserIDIngrid, a.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on double confirm, got %v", err)
	}
}

// staleReadAssignmentRepo reports every assignment as still PENDING,
// the state a racing confirmer sees just before losing the flip.
type staleReadAssignmentRepo struct {
	assignment.Repository
}

func (r staleReadAssignmentRepo) GetByID(ctx context.Context, assignmentID string) (assignment.Assignment, bool, error) {
	a, exists, err := r.Repository.GetByID(ctx, assignmentID)
	if exists {
		a.Status = assignment.StatusPending
	}
	return a, exists, err
}

func TestAssignmentService_Confirm_ConcurrentDecisionConflicts(t *testing.T) {
	t.Parallel()

	assignmentRepo := memory.NewAssignmentRepository()
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	notifier := NewNotificationService(
		memory.NewNotificationRepository(),
		assignmentRepo,
		memory.NewJoinRequestRepository(),
		matchRepo,
		nil,
		&seqIDGenerator{prefix: "notif"},
		discardLogger(),
	)
	svc := NewAssignmentService(
		staleReadAssignmentRepo{Repository: assignmentRepo},
		matchRepo,
		memory.NewAuditRepository(),
		notifier,
		&seqIDGenerator{prefix: "assign"},
		discardLogger(),
	)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateAssignmentInput{
		CallerID: memory.UserIDMarit,
		MatchID:  "match-nordby-eika-r1",
		TeamID:   memory.TeamIDNordbyFC,
		UserID:   memory.UserIDIngrid,
		Duty:     "linesman",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Confirm(ctx, memory.UserIDIngrid, a.ID); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}

	// The second confirmer read PENDING but the flip already happened.
	// Only one decision lands.
	if _, err := svc.Confirm(ctx, memory.UserIDIngrid, a.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on concurrent decision, got %v", err)
	}
}
