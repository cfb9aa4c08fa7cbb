package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ostvang/leaguedesk/internal/usecase"
)

type Handler struct {
	authorityService    *usecase.AuthorityService
	joinService         *usecase.JoinService
	scoreService        *usecase.ScoreService
	notificationService *usecase.NotificationService
	assignmentService   *usecase.AssignmentService
	logger              *slog.Logger
	validator           *validator.Validate
}

func NewHandler(
	authorityService *usecase.AuthorityService,
	joinService *usecase.JoinService,
	scoreService *usecase.ScoreService,
	notificationService *usecase.NotificationService,
	assignmentService *usecase.AssignmentService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		authorityService:    authorityService,
		joinService:         joinService,
		scoreService:        scoreService,
		notificationService: notificationService,
		assignmentService:   assignmentService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
