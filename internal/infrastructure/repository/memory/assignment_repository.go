package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ostvang/leaguedesk/internal/domain/assignment"
)

type AssignmentRepository struct {
	mu    sync.RWMutex
	items map[string]assignment.Assignment
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{items: make(map[string]assignment.Assignment)}
}

func (r *AssignmentRepository) GetByID(_ context.Context, assignmentID string) (assignment.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[assignmentID]
	if !ok {
		return assignment.Assignment{}, false, nil
	}

	return a, true, nil
}

func (r *AssignmentRepository) Create(_ context.Context, a assignment.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[a.ID]; exists {
		return fmt.Errorf("assignment %s already exists", a.ID)
	}
	r.items[a.ID] = a
	return nil
}

// UpdateStatus applies the flip only while the assignment is still
// PENDING, mirroring the SQL backend's status predicate.
func (r *AssignmentRepository) UpdateStatus(_ context.Context, assignmentID string, status assignment.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[assignmentID]
	if !ok || a.Status != assignment.StatusPending {
		return assignment.ErrNotPending
	}

	a.Status = status
	r.items[assignmentID] = a
	return nil
}

func (r *AssignmentRepository) ListPendingByUser(_ context.Context, userID string) ([]assignment.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []assignment.Assignment
	for _, a := range r.items {
		if a.UserID == userID && a.Status == assignment.StatusPending {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
