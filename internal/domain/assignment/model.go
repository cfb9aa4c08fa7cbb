package assignment

import (
	"fmt"
	"time"
)

// Status is the assignment lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusDeclined  Status = "DECLINED"
)

// Assignment asks a user to take a duty (refereeing, scorekeeping) at
// a match. Confirming it retires the user's pending-assignment
// notifications.
type Assignment struct {
	ID        string
	MatchID   string
	TeamID    string
	UserID    string
	Duty      string
	Status    Status
	CreatedAt time.Time
}

func (a Assignment) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("assignment id is required")
	}
	if a.MatchID == "" {
		return fmt.Errorf("assignment match id is required")
	}
	if a.UserID == "" {
		return fmt.Errorf("assignment user id is required")
	}

	return nil
}
