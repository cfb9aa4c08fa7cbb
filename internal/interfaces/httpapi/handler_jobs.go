package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/ostvang/leaguedesk/internal/usecase"
)

type retireObsoleteJobRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type jobResultDTO struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// RunReconcileConsistencyJob repairs memberships whose leadership role
// lost its admin flag. Idempotent; safe to run on a schedule.
func (h *Handler) RunReconcileConsistencyJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReconcileConsistencyJob")
	defer span.End()

	fixed, err := h.authorityService.ReconcileConsistency(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reconcile consistency job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, jobResultDTO{Status: "completed", Count: fixed})
}

func (h *Handler) RunRetireObsoleteJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRetireObsoleteJob")
	defer span.End()

	var req retireObsoleteJobRequest
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

	retired, err := h.notificationService.RetireObsolete(ctx, req.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "retire obsolete job failed", "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, jobResultDTO{Status: "completed", Count: retired})
}
