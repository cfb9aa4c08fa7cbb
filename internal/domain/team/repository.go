package team

import (
	"context"
	"errors"
)

// ErrCaptainTaken is returned by UpsertMembership when another user
// already holds CAPTAIN on the team. Backends surface their uniqueness
// constraint through this sentinel so races fail safely.
var ErrCaptainTaken = errors.New("team captain already assigned")

// Repository describes team and membership persistence needs.
//
// UpsertMembership must apply the captain-uniqueness check and the
// write as one atomic step (lock or constraint), never as a separate
// read followed by a write.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetMembership(ctx context.Context, teamID, userID string) (Membership, bool, error)
	ListMemberships(ctx context.Context, teamID string) ([]Membership, error)
	ListAdmins(ctx context.Context, teamID string) ([]Membership, error)
	// ListInconsistent returns memberships holding a leadership role
	// without admin rights.
	ListInconsistent(ctx context.Context) ([]Membership, error)
	UpsertMembership(ctx context.Context, m Membership) error
}
