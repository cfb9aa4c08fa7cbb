package audit

import (
	"fmt"
	"time"
)

// Actions recorded by the services. The audit log is the system's
// source of truth for what happened.
const (
	ActionRolePromoted        = "ROLE_PROMOTED"
	ActionRoleConsistencyFix  = "ROLE_CONSISTENCY_FIX"
	ActionManagerTransferred  = "MANAGER_TRANSFERRED"
	ActionJoinRequested       = "JOIN_REQUESTED"
	ActionJoinApproved        = "JOIN_APPROVED"
	ActionJoinRejected        = "JOIN_REJECTED"
	ActionScoreSubmitted      = "SCORE_SUBMITTED"
	ActionScoreAgreed         = "SCORE_AGREED"
	ActionScoreDisputed       = "SCORE_DISPUTED"
	ActionAssignmentConfirmed = "ASSIGNMENT_CONFIRMED"
)

// Entry is one append-only audit record. Entries are never updated or
// deleted.
type Entry struct {
	ID        string
	ActorID   string
	TeamID    string
	LeagueID  string
	Action    string
	Payload   map[string]any
	CreatedAt time.Time
}

func (e Entry) Validate() error {
	if e.ActorID == "" {
		return fmt.Errorf("audit actor id is required")
	}
	if e.Action == "" {
		return fmt.Errorf("audit action is required")
	}

	return nil
}
