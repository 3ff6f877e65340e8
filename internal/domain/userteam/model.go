package userteam

import (
	"fmt"
	"time"
)

// Link connects a companion user to their FPL identifiers. TeamID and
// LeagueID are nullable: a user may sign up before connecting a team.
type Link struct {
	UserID    string
	Email     string
	TeamID    *int64
	LeagueID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l Link) Validate() error {
	if l.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if l.TeamID != nil && *l.TeamID <= 0 {
		return fmt.Errorf("fpl team id must be greater than zero")
	}
	if l.LeagueID != nil && *l.LeagueID <= 0 {
		return fmt.Errorf("fpl league id must be greater than zero")
	}

	return nil
}

// HasTeam reports whether the user connected an FPL team yet.
func (l Link) HasTeam() bool {
	return l.TeamID != nil && *l.TeamID > 0
}

// HasLeague reports whether the user selected a rival league.
func (l Link) HasLeague() bool {
	return l.LeagueID != nil && *l.LeagueID > 0
}
