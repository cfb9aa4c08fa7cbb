package notification

import "time"

// Type tags what a notification is about. The retirement sweep keys
// off the type to decide whether the referent fact still holds.
type Type string

const (
	TypeRoleChanged         Type = "ROLE_CHANGED"
	TypeManagerTransferred  Type = "MANAGER_TRANSFERRED"
	TypeJoinRequested       Type = "JOIN_REQUESTED"
	TypeJoinApproved        Type = "JOIN_APPROVED"
	TypeJoinRejected        Type = "JOIN_REJECTED"
	TypeScoreSubmitted      Type = "SCORE_SUBMITTED"
	TypeScoreDisputed       Type = "SCORE_DISPUTED"
	TypeScoreAgreed         Type = "SCORE_AGREED"
	TypeAssignmentPending   Type = "ASSIGNMENT_PENDING"
	TypeAssignmentConfirmed Type = "ASSIGNMENT_CONFIRMED"
)

// Notification is one user-facing message. Obsolete notifications are
// marked read, never deleted.
type Notification struct {
	ID        string
	UserID    string
	TeamID    string
	Type      Type
	Payload   map[string]any
	Read      bool
	CreatedAt time.Time
}

// Event is what gets pushed to realtime subscribers alongside the
// persisted row. Channel derivation is team-scoped when TeamID is set,
// global otherwise.
type Event struct {
	Channel string
	Name    string
	Payload map[string]any
}
