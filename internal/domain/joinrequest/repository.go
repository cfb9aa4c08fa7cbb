package joinrequest

import (
	"context"
	"errors"
)

// ErrDuplicatePending is returned by Create when a PENDING request
// already exists for the same (requester, target) pair.
var ErrDuplicatePending = errors.New("pending join request already exists")

// ErrNotPending is returned by UpdateStatus when the request left
// PENDING concurrently. Decisions are applied exactly once.
var ErrNotPending = errors.New("join request is not pending")

// Repository describes join request persistence needs.
type Repository interface {
	GetByID(ctx context.Context, requestID string) (JoinRequest, bool, error)
	// Create enforces the single-PENDING-per-pair rule atomically.
	Create(ctx context.Context, r JoinRequest) error
	// UpdateStatus moves a PENDING request to a terminal status.
	UpdateStatus(ctx context.Context, requestID string, status Status) error
	ListPendingByTarget(ctx context.Context, kind Kind, targetID string) ([]JoinRequest, error)
}
