package assignment

import (
	"context"
	"errors"
)

// ErrNotPending is returned by UpdateStatus when the assignment left
// PENDING concurrently. Decisions are applied exactly once.
var ErrNotPending = errors.New("assignment is not pending")

// Repository describes assignment persistence needs.
type Repository interface {
	GetByID(ctx context.Context, assignmentID string) (Assignment, bool, error)
	Create(ctx context.Context, a Assignment) error
	// UpdateStatus moves a PENDING assignment to a terminal status.
	UpdateStatus(ctx context.Context, assignmentID string, status Status) error
	ListPendingByUser(ctx context.Context, userID string) ([]Assignment, error)
}
