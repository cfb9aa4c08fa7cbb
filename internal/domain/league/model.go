package league

import "fmt"

// League is a competition grouping teams of one sport. Exactly one
// user manages it at any time.
type League struct {
	ID        string
	Name      string
	Sport     string
	ManagerID string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Sport == "" {
		return fmt.Errorf("league sport is required")
	}
	if l.ManagerID == "" {
		return fmt.Errorf("league manager id is required")
	}

	return nil
}

// LeagueTeam links a participating team to a league. Rows are created
// only through an approved join request.
type LeagueTeam struct {
	LeagueID string
	TeamID   string
}
