package joinrequest

import (
	"fmt"
	"time"
)

// Kind distinguishes the two join flows.
type Kind string

const (
	KindTeamToLeague Kind = "TEAM_TO_LEAGUE"
	KindUserToTeam   Kind = "USER_TO_TEAM"
)

// Status is the request lifecycle state. APPROVED and REJECTED are
// terminal; a request is never reopened.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// JoinRequest asks for a team to join a league or a user to join a
// team. At most one PENDING request exists per (requester, target).
type JoinRequest struct {
	ID          string
	Kind        Kind
	RequesterID string
	TargetID    string
	Status      Status
	CreatedAt   time.Time
}

func (r JoinRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("join request id is required")
	}
	if r.Kind != KindTeamToLeague && r.Kind != KindUserToTeam {
		return fmt.Errorf("join request kind %q is unknown", r.Kind)
	}
	if r.RequesterID == "" {
		return fmt.Errorf("join request requester id is required")
	}
	if r.TargetID == "" {
		return fmt.Errorf("join request target id is required")
	}

	return nil
}
