package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/ostvang/leaguedesk/internal/domain/league"
	"github.com/ostvang/leaguedesk/internal/domain/team"
	"github.com/ostvang/leaguedesk/internal/usecase"
)

type promoteRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

type transferManagerRequest struct {
	NewManagerID string `json:"new_manager_id" validate:"required"`
}

type membershipDTO struct {
	UserID  string `json:"user_id"`
	TeamID  string `json:"team_id"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

type leagueDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Sport     string `json:"sport"`
	ManagerID string `json:"manager_id"`
}

func (h *Handler) PromoteMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PromoteMember")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	var req promoteRequest
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

	membership, err := h.authorityService.Promote(ctx, usecase.PromoteInput{
		CallerID:     principal.UserID,
		TeamID:       teamID,
		TargetUserID: req.UserID,
		Role:         team.Role(req.Role),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "promote member failed", "team_id", teamID, "target_user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, membershipToDTO(membership))
}

func (h *Handler) TransferLeagueManager(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TransferLeagueManager")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := r.PathValue("leagueID")
	var req transferManagerRequest
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

	updated, err := h.authorityService.TransferLeagueManager(ctx, usecase.TransferManagerInput{
		CallerID:     principal.UserID,
		LeagueID:     leagueID,
		NewManagerID: req.NewManagerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "transfer manager failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(updated))
}

func membershipToDTO(m team.Membership) membershipDTO {
	return membershipDTO{
		UserID:  m.UserID,
		TeamID:  m.TeamID,
		Role:    string(m.Role),
		IsAdmin: m.IsAdmin,
	}
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO{
		ID:        l.ID,
		Name:      l.Name,
		Sport:     l.Sport,
		ManagerID: l.ManagerID,
	}
}
