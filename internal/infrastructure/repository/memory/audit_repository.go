package memory

import (
	"context"
	"sync"

	"github.com/ostvang/leaguedesk/internal/domain/audit"
)

// AuditRepository is append-only; entries are never mutated after
// insert.
type AuditRepository struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Append(_ context.Context, e audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	return nil
}

func (r *AuditRepository) ListByTeam(_ context.Context, teamID string) ([]audit.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []audit.Entry
	for _, e := range r.entries {
		if e.TeamID == teamID {
			out = append(out, e)
		}
	}

	return out, nil
}

func (r *AuditRepository) ListByLeague(_ context.Context, leagueID string) ([]audit.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []audit.Entry
	for _, e := range r.entries {
		if e.LeagueID == leagueID {
			out = append(out, e)
		}
	}

	return out, nil
}

// All returns every entry in insertion order.
func (r *AuditRepository) All() []audit.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]audit.Entry(nil), r.entries...)
}
