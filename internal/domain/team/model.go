package team

import "fmt"

// Role is a member's function within a team. Leadership roles imply
// admin rights on the membership row.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleCoach       Role = "COACH"
	RoleCoordinator Role = "COORDINATOR"
	RoleCaptain     Role = "CAPTAIN"
	RoleCoCaptain   Role = "CO_CAPTAIN"
	RoleMember      Role = "MEMBER"
)

var leadershipRoles = map[Role]bool{
	RoleAdmin:       true,
	RoleCoach:       true,
	RoleCoordinator: true,
	RoleCaptain:     true,
	RoleCoCaptain:   true,
}

// IsLeadership reports whether the role must carry admin rights.
func (r Role) IsLeadership() bool {
	return leadershipRoles[r]
}

// LeadershipRoles returns the roles that imply admin rights, in a
// stable order.
func LeadershipRoles() []Role {
	return []Role{RoleAdmin, RoleCoach, RoleCoordinator, RoleCaptain, RoleCoCaptain}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoach, RoleCoordinator, RoleCaptain, RoleCoCaptain, RoleMember:
		return true
	default:
		return false
	}
}

// Team is a named group of players scoped to a single sport.
type Team struct {
	ID               string
	Name             string
	Sport            string
	JoinPasswordHash string
	InviteCode       string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Sport == "" {
		return fmt.Errorf("team sport is required")
	}

	return nil
}

// Membership links a user to a team. At most one row exists per
// (user, team) pair; at most one membership per team holds CAPTAIN.
type Membership struct {
	UserID  string
	TeamID  string
	Role    Role
	IsAdmin bool
}

// Consistent reports whether the role/admin pair satisfies the
// leadership-implies-admin rule.
func (m Membership) Consistent() bool {
	return !m.Role.IsLeadership() || m.IsAdmin
}
