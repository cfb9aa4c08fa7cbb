package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ostvang/leaguedesk/internal/domain/joinrequest"
	"github.com/ostvang/leaguedesk/internal/usecase"
)

type createJoinRequestBody struct {
	Kind         string `json:"kind" validate:"required,oneof=TEAM_TO_LEAGUE USER_TO_TEAM"`
	RequesterID  string `json:"requester_id"`
	TargetID     string `json:"target_id" validate:"required"`
	JoinPassword string `json:"join_password"`
}

type decideJoinRequestBody struct {
	Approve bool `json:"approve"`
}

type joinRequestDTO struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	RequesterID string `json:"requester_id"`
	TargetID    string `json:"target_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type pendingJoinRequestDTO struct {
	joinRequestDTO
	RequesterName  string `json:"requester_name,omitempty"`
	RequesterEmail string `json:"requester_email,omitempty"`
}

// CreateJoinRequest opens a request. For USER_TO_TEAM the requester is
// the caller; for TEAM_TO_LEAGUE the body names the requesting team.
func (h *Handler) CreateJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateJoinRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createJoinRequestBody
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	kind := joinrequest.Kind(req.Kind)
	requesterID := strings.TrimSpace(req.RequesterID)
	if kind == joinrequest.KindUserToTeam {
		requesterID = principal.UserID
	}
	if requesterID == "" {
		writeError(ctx, w, fmt.Errorf("%w: requester_id is required", usecase.ErrInvalidInput))
		return
	}

	created, err := h.joinService.CreateRequest(ctx, usecase.CreateRequestInput{
		Kind:         kind,
		ActorID:      principal.UserID,
		RequesterID:  requesterID,
		TargetID:     req.TargetID,
		JoinPassword: req.JoinPassword,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create join request failed", "kind", req.Kind, "target_id", req.TargetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, joinRequestToDTO(created))
}

func (h *Handler) DecideJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DecideJoinRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	requestID := r.PathValue("requestID")
	var req decideJoinRequestBody
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	decided, err := h.joinService.Decide(ctx, usecase.DecideInput{
		ApproverID: principal.UserID,
		RequestID:  requestID,
		Approve:    req.Approve,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "decide join request failed", "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, joinRequestToDTO(decided))
}

func (h *Handler) ListPendingJoinRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingJoinRequests")
	defer span.End()

	kind := joinrequest.Kind(strings.TrimSpace(r.URL.Query().Get("kind")))
	targetID := strings.TrimSpace(r.URL.Query().Get("target_id"))
	if targetID == "" {
		writeError(ctx, w, fmt.Errorf("%w: target_id query parameter is required", usecase.ErrInvalidInput))
		return
	}

	pending, err := h.joinService.ListPending(ctx, kind, targetID)
	if err != nil {
		h.logger.WarnContext(ctx, "list pending join requests failed", "target_id", targetID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pendingJoinRequestDTO, 0, len(pending))
	for _, entry := range pending {
		items = append(items, pendingJoinRequestDTO{
			joinRequestDTO: joinRequestToDTO(entry.Request),
			RequesterName:  entry.Requester.Name,
			RequesterEmail: entry.Requester.Email,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func joinRequestToDTO(r joinrequest.JoinRequest) joinRequestDTO {
	return joinRequestDTO{
		ID:          r.ID,
		Kind:        string(r.Kind),
		RequesterID: r.RequesterID,
		TargetID:    r.TargetID,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
