package memory

import (
	"time"

	"github.com/ostvang/leaguedesk/internal/domain/league"
	"github.com/ostvang/leaguedesk/internal/domain/match"
	"github.com/ostvang/leaguedesk/internal/domain/team"
	"github.com/ostvang/leaguedesk/internal/domain/user"
)

// Fixture identifiers shared by the app's demo wiring and the service
// tests.
const (
	LeagueIDSundayFootball = "oslo-sunday-football"

	TeamIDNordbyFC   = "nordby-fc"
	TeamIDEikaUnited = "eika-united"
	TeamIDFjellSK    = "fjell-sk"

	UserIDMarit  = "user-marit"
	UserIDJonas  = "user-jonas"
	UserIDIngrid = "user-ingrid"
	UserIDOla    = "user-ola"
)

func SeedUsers() []user.User {
	return []user.User{
		{ID: UserIDMarit, Email: "marit@nordby.example", Name: "Marit Solheim"},
		{ID: UserIDJonas, Email: "jonas@eika.example", Name: "Jonas Berg"},
		{ID: UserIDIngrid, Email: "ingrid@nordby.example", Name: "Ingrid Dahl"},
		{ID: UserIDOla, Email: "ola@fjell.example", Name: "Ola Strand"},
	}
}

func SeedLeagues() []league.League {
	return []league.League{
		{ID: LeagueIDSundayFootball, Name: "Oslo Sunday Football", Sport: "football", ManagerID: UserIDMarit},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDNordbyFC, Name: "Nordby FC", Sport: "football", InviteCode: "NRD-2026"},
		{ID: TeamIDEikaUnited, Name: "Eika United", Sport: "football", InviteCode: "EIK-2026"},
		{ID: TeamIDFjellSK, Name: "Fjell SK", Sport: "handball", InviteCode: "FJL-2026"},
	}
}

func SeedMemberships() []team.Membership {
	return []team.Membership{
		{UserID: UserIDMarit, TeamID: TeamIDNordbyFC, Role: team.RoleAdmin, IsAdmin: true},
		{UserID: UserIDIngrid, TeamID: TeamIDNordbyFC, Role: team.RoleMember},
		{UserID: UserIDJonas, TeamID: TeamIDEikaUnited, Role: team.RoleAdmin, IsAdmin: true},
		{UserID: UserIDOla, TeamID: TeamIDFjellSK, Role: team.RoleAdmin, IsAdmin: true},
	}
}

func SeedLeagueTeams() []league.LeagueTeam {
	return []league.LeagueTeam{
		{LeagueID: LeagueIDSundayFootball, TeamID: TeamIDNordbyFC},
		{LeagueID: LeagueIDSundayFootball, TeamID: TeamIDEikaUnited},
	}
}

func SeedMatches() []match.SeasonMatch {
	kickoff := time.Date(2026, 8, 23, 13, 0, 0, 0, time.UTC)

	return []match.SeasonMatch{
		{
			ID:          "match-nordby-eika-r1",
			LeagueID:    LeagueIDSundayFootball,
			HomeTeamID:  TeamIDNordbyFC,
			AwayTeamID:  TeamIDEikaUnited,
			ScheduledAt: kickoff,
			Status:      match.StatusScheduled,
		},
		{
			ID:          "match-eika-nordby-r2",
			LeagueID:    LeagueIDSundayFootball,
			HomeTeamID:  TeamIDEikaUnited,
			AwayTeamID:  TeamIDNordbyFC,
			ScheduledAt: kickoff.AddDate(0, 0, 14),
			Status:      match.StatusScheduled,
		},
	}
}
