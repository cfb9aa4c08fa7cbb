package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ostvang/leaguedesk/internal/domain/joinrequest"
)

type JoinRequestRepository struct {
	mu    sync.RWMutex
	items map[string]joinrequest.JoinRequest
}

func NewJoinRequestRepository() *JoinRequestRepository {
	return &JoinRequestRepository{items: make(map[string]joinrequest.JoinRequest)}
}

func (r *JoinRequestRepository) GetByID(_ context.Context, requestID string) (joinrequest.JoinRequest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.items[requestID]
	if !ok {
		return joinrequest.JoinRequest{}, false, nil
	}

	return req, true, nil
}

// Create enforces the single-PENDING-per-pair rule under the write
// lock, mirroring the SQL backend's partial unique index.
func (r *JoinRequestRepository) Create(_ context.Context, req joinrequest.JoinRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Status == joinrequest.StatusPending &&
			existing.RequesterID == req.RequesterID &&
			existing.TargetID == req.TargetID {
			return joinrequest.ErrDuplicatePending
		}
	}

	r.items[req.ID] = req
	return nil
}

func (r *JoinRequestRepository) UpdateStatus(_ context.Context, requestID string, status joinrequest.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.items[requestID]
	if !ok || req.Status != joinrequest.StatusPending {
		return joinrequest.ErrNotPending
	}

	req.Status = status
	r.items[requestID] = req
	return nil
}

func (r *JoinRequestRepository) ListPendingByTarget(_ context.Context, kind joinrequest.Kind, targetID string) ([]joinrequest.JoinRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []joinrequest.JoinRequest
	for _, req := range r.items {
		if req.Kind == kind && req.TargetID == targetID && req.Status == joinrequest.StatusPending {
			out = append(out, req)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
