package httpapi

import (
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ostvang/leaguedesk/internal/domain/match"
	"github.com/ostvang/leaguedesk/internal/domain/team"
	"github.com/ostvang/leaguedesk/internal/usecase"
)

type submitScoreRequest struct {
	TeamID string `json:"team_id" validate:"required"`
	Home   int    `json:"home" validate:"gte=0"`
	Away   int    `json:"away" validate:"gte=0"`
}

type matchDTO struct {
	ID          string `json:"id"`
	LeagueID    string `json:"league_id"`
	HomeTeamID  string `json:"home_team_id"`
	AwayTeamID  string `json:"away_team_id"`
	ScheduledAt string `json:"scheduled_at"`
	Status      string `json:"status"`
	HomeScore   *int   `json:"home_score,omitempty"`
	AwayScore   *int   `json:"away_score,omitempty"`
}

type scoreSubmissionDTO struct {
	ID          string `json:"id"`
	MatchID     string `json:"match_id"`
	TeamID      string `json:"team_id"`
	Home        int    `json:"home"`
	Away        int    `json:"away"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

type submitScoreResultDTO struct {
	Outcome    string             `json:"outcome"`
	Match      matchDTO           `json:"match"`
	Submission scoreSubmissionDTO `json:"submission"`
}

type teamSummaryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Sport string `json:"sport"`
}

type dashboardEntryDTO struct {
	Match         matchDTO           `json:"match"`
	Submission    scoreSubmissionDTO `json:"submission"`
	SubmitterTeam teamSummaryDTO     `json:"submitter_team"`
}

type scoreDashboardDTO struct {
	Pending    []dashboardEntryDTO `json:"pending"`
	Unrecorded []matchDTO          `json:"unrecorded"`
}

func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitScore")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	matchID := r.PathValue("matchID")
	var req submitScoreRequest
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

	result, err := h.scoreService.Submit(ctx, usecase.SubmitScoreInput{
		ActorID: principal.UserID,
		TeamID:  req.TeamID,
		MatchID: matchID,
		Home:    req.Home,
		Away:    req.Away,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit score failed", "match_id", matchID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submitScoreResultDTO{
		Outcome:    result.Outcome,
		Match:      matchToDTO(result.Match),
		Submission: submissionToDTO(result.Submission),
	})
}

func (h *Handler) GetScoreDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreDashboard")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	dashboard, err := h.scoreService.Dashboard(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "score dashboard failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	pending := make([]dashboardEntryDTO, 0, len(dashboard.Pending))
	for _, entry := range dashboard.Pending {
		pending = append(pending, dashboardEntryDTO{
			Match:         matchToDTO(entry.Match),
			Submission:    submissionToDTO(entry.Submission),
			SubmitterTeam: teamToSummaryDTO(entry.SubmitterTeam),
		})
	}

	unrecorded := make([]matchDTO, 0, len(dashboard.Unrecorded))
	for _, m := range dashboard.Unrecorded {
		unrecorded = append(unrecorded, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, scoreDashboardDTO{
		Pending:    pending,
		Unrecorded: unrecorded,
	})
}

func matchToDTO(m match.SeasonMatch) matchDTO {
	return matchDTO{
		ID:          m.ID,
		LeagueID:    m.LeagueID,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		ScheduledAt: m.ScheduledAt.UTC().Format(time.RFC3339),
		Status:      m.Status,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
	}
}

func submissionToDTO(s match.ScoreSubmission) scoreSubmissionDTO {
	return scoreSubmissionDTO{
		ID:          s.ID,
		MatchID:     s.MatchID,
		TeamID:      s.TeamID,
		Home:        s.Home,
		Away:        s.Away,
		Status:      string(s.Status),
		SubmittedAt: s.SubmittedAt.UTC().Format(time.RFC3339),
	}
}

func teamToSummaryDTO(t team.Team) teamSummaryDTO {
	return teamSummaryDTO{
		ID:    t.ID,
		Name:  t.Name,
		Sport: t.Sport,
	}
}
