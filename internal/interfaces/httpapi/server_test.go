package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/ostvang/leaguedesk/internal/infrastructure/account/devtoken"
	"github.com/ostvang/leaguedesk/internal/infrastructure/repository/memory"
	idgen "github.com/ostvang/leaguedesk/internal/platform/id"
	"github.com/ostvang/leaguedesk/internal/usecase"
)

const testJobToken = "job-secret"

func newTestRouter(t *testing.T) (http.Handler, *devtoken.Verifier) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	idGen := idgen.NewRandomGenerator()

	teamRepo := memory.NewTeamRepository(memory.SeedTeams(), memory.SeedMemberships())
	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues(), memory.SeedLeagueTeams())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	joinRepo := memory.NewJoinRequestRepository()
	notifRepo := memory.NewNotificationRepository()
	assignmentRepo := memory.NewAssignmentRepository()
	auditRepo := memory.NewAuditRepository()

	notifier := usecase.NewNotificationService(notifRepo, assignmentRepo, joinRepo, matchRepo, nil, idGen, logger)
	handler := NewHandler(
		usecase.NewAuthorityService(teamRepo, leagueRepo, auditRepo, notifier, idGen, logger),
		usecase.NewJoinService(joinRepo, teamRepo, leagueRepo, memory.NewUserRepository(memory.SeedUsers()), auditRepo, notifier, idGen, logger),
		usecase.NewScoreService(matchRepo, teamRepo, leagueRepo, auditRepo, notifier, idGen, logger),
		notifier,
		usecase.NewAssignmentService(assignmentRepo, matchRepo, auditRepo, notifier, idGen, logger),
		logger,
	)

	verifier, err := devtoken.NewVerifier("router-test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	return NewRouter(handler, verifier, logger, RouterConfig{InternalJobToken: testJobToken}), verifier
}

func bearerFor(t *testing.T, verifier *devtoken.Verifier, userID string) string {
	t.Helper()

	token, err := verifier.Sign(userID, "", time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return "Bearer " + token
}

func TestRouter_PromoteMember(t *testing.T) {
	t.Parallel()

	router, verifier := newTestRouter(t)

	body := strings.NewReader(`{"user_id":"` + memory.UserIDIngrid + `","role":"COACH"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/teams/"+memory.TeamIDNordbyFC+"/promote", body)
	req.Header.Set("Authorization", bearerFor(t, verifier, memory.UserIDMarit))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data type: %T", envelope.Data)
	}
	if data["role"] != "COACH" {
		t.Fatalf("unexpected role: %v", data["role"])
	}
	if data["is_admin"] != true {
		t.Fatalf("leadership promotion must set is_admin, got %v", data["is_admin"])
	}
}

func TestRouter_PromoteMember_NonAdminForbidden(t *testing.T) {
	t.Parallel()

	router, verifier := newTestRouter(t)

	body := strings.NewReader(`{"user_id":"` + memory.UserIDIngrid + `","role":"COACH"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/teams/"+memory.TeamIDNordbyFC+"/promote", body)
	req.Header.Set("Authorization", bearerFor(t, verifier, memory.UserIDIngrid))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_MissingBearerToken(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_SubmitScoreLifecycle(t *testing.T) {
	t.Parallel()

	router, verifier := newTestRouter(t)
	matchPath := "/v1/matches/match-nordby-eika-r1/scores"

	first := httptest.NewRequest(http.MethodPost, matchPath, strings.NewReader(`{"team_id":"`+memory.TeamIDNordbyFC+`","home":2,"away":1}`))
	first.Header.Set("Authorization", bearerFor(t, verifier, memory.UserIDMarit))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, first)

	if rec.Code != http.StatusOK {
		t.Fatalf("first submit: unexpected status %d body=%s", rec.Code, rec.Body.String())
	}

	second := httptest.NewRequest(http.MethodPost, matchPath, strings.NewReader(`{"team_id":"`+memory.TeamIDEikaUnited+`","home":2,"away":1}`))
	second.Header.Set("Authorization", bearerFor(t, verifier, memory.UserIDJonas))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, second)

	if rec.Code != http.StatusOK {
		t.Fatalf("second submit: unexpected status %d body=%s", rec.Code, rec.Body.String())
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data type: %T", envelope.Data)
	}
	if data["outcome"] != usecase.SubmitOutcomeAgreed {
		t.Fatalf("expected AGREED outcome, got %v", data["outcome"])
	}
}

func TestRouter_InternalJobTokenGate(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/internal/jobs/reconcile-consistency", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/internal/jobs/reconcile-consistency", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}
