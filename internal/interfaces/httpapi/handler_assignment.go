package httpapi

import (
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ostvang/leaguedesk/internal/domain/assignment"
	"github.com/ostvang/leaguedesk/internal/usecase"
)

type createAssignmentRequest struct {
	MatchID string `json:"match_id" validate:"required"`
	TeamID  string `json:"team_id"`
	UserID  string `json:"user_id" validate:"required"`
	Duty    string `json:"duty" validate:"required,max=60"`
}

type assignmentDTO struct {
	ID        string `json:"id"`
	MatchID   string `json:"match_id"`
	TeamID    string `json:"team_id,omitempty"`
	UserID    string `json:"user_id"`
	Duty      string `json:"duty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateAssignment")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createAssignmentRequest
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

	created, err := h.assignmentService.Create(ctx, usecase.CreateAssignmentInput{
		CallerID: principal.UserID,
		MatchID:  req.MatchID,
		TeamID:   req.TeamID,
		UserID:   req.UserID,
		Duty:     req.Duty,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create assignment failed", "match_id", req.MatchID, "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, assignmentToDTO(created))
}

func (h *Handler) ConfirmAssignment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmAssignment")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	assignmentID := r.PathValue("assignmentID")
	confirmed, err := h.assignmentService.Confirm(ctx, principal.UserID, assignmentID)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm assignment failed", "assignment_id", assignmentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, assignmentToDTO(confirmed))
}

func assignmentToDTO(a assignment.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:        a.ID,
		MatchID:   a.MatchID,
		TeamID:    a.TeamID,
		UserID:    a.UserID,
		Duty:      a.Duty,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
