package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ostvang/leaguedesk/internal/domain/match"
)

type MatchRepository struct {
	mu          sync.RWMutex
	matches     map[string]match.SeasonMatch
	submissions map[string]match.ScoreSubmission
}

func NewMatchRepository(matches []match.SeasonMatch) *MatchRepository {
	r := &MatchRepository{
		matches:     make(map[string]match.SeasonMatch, len(matches)),
		submissions: make(map[string]match.ScoreSubmission),
	}
	for _, m := range matches {
		r.matches[m.ID] = m
	}

	return r
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.SeasonMatch, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[matchID]
	if !ok {
		return match.SeasonMatch{}, false, nil
	}

	return cloneMatch(m), true, nil
}

// SettleAgreed completes the match, stores the agreeing submission and
// flips the counterpart under one write lock. Returns false once the
// match already left the open state, so a concurrent settle cannot
// apply twice and a failed settle leaves no half-written state behind.
func (r *MatchRepository) SettleAgreed(_ context.Context, matchID string, agreed match.ScoreSubmission, counterpartID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.matches[matchID]
	if !ok || m.Status == match.StatusCompleted || m.Status == match.StatusCancelled {
		return false, nil
	}

	home, away := agreed.Home, agreed.Away
	m.Status = match.StatusCompleted
	m.HomeScore = &home
	m.AwayScore = &away
	r.matches[matchID] = m

	for key, existing := range r.submissions {
		if existing.MatchID == agreed.MatchID && existing.TeamID == agreed.TeamID {
			delete(r.submissions, key)
			break
		}
	}
	r.submissions[agreed.ID] = agreed

	if counterpart, ok := r.submissions[counterpartID]; ok {
		counterpart.Status = match.SubmissionAgreed
		r.submissions[counterpartID] = counterpart
	}

	return true, nil
}

func (r *MatchRepository) ListUnrecorded(_ context.Context, leagueID string, cutoff time.Time) ([]match.SeasonMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	submitted := make(map[string]bool, len(r.submissions))
	for _, s := range r.submissions {
		submitted[s.MatchID] = true
	}

	var out []match.SeasonMatch
	for _, m := range r.matches {
		if m.LeagueID != leagueID || m.Status != match.StatusScheduled {
			continue
		}
		if !m.ScheduledAt.Before(cutoff) {
			continue
		}
		if m.HomeScore != nil || m.AwayScore != nil || submitted[m.ID] {
			continue
		}
		out = append(out, cloneMatch(m))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})

	return out, nil
}

func (r *MatchRepository) GetPendingSubmission(_ context.Context, matchID string) (match.ScoreSubmission, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.submissions {
		if s.MatchID == matchID && s.Status == match.SubmissionPending {
			return s, true, nil
		}
	}

	return match.ScoreSubmission{}, false, nil
}

// UpsertSubmission keeps one row per (match, team): a later report
// from the same side replaces the earlier one.
func (r *MatchRepository) UpsertSubmission(_ context.Context, s match.ScoreSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, existing := range r.submissions {
		if existing.MatchID == s.MatchID && existing.TeamID == s.TeamID {
			delete(r.submissions, key)
			break
		}
	}
	r.submissions[s.ID] = s
	return nil
}

func (r *MatchRepository) UpdateSubmissionStatus(_ context.Context, submissionID string, status match.SubmissionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.submissions[submissionID]
	if !ok {
		return nil
	}

	s.Status = status
	r.submissions[submissionID] = s
	return nil
}

func (r *MatchRepository) ListPendingSubmissions(_ context.Context, leagueID string) ([]match.PendingSubmission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.PendingSubmission
	for _, s := range r.submissions {
		if s.Status != match.SubmissionPending {
			continue
		}
		m, ok := r.matches[s.MatchID]
		if !ok || m.LeagueID != leagueID || m.Status == match.StatusCompleted {
			continue
		}
		out = append(out, match.PendingSubmission{Submission: s, Match: cloneMatch(m)})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Submission.SubmittedAt.After(out[j].Submission.SubmittedAt)
	})

	return out, nil
}

func cloneMatch(m match.SeasonMatch) match.SeasonMatch {
	copied := m
	if m.HomeScore != nil {
		v := *m.HomeScore
		copied.HomeScore = &v
	}
	if m.AwayScore != nil {
		v := *m.AwayScore
		copied.AwayScore = &v
	}
	return copied
}
