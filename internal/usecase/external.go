package usecase

import (
	"context"

	"github.com/fplmate/fpl-companion/internal/domain/roster"
)

// ExternalGameweek is one FPL event row from the bootstrap payload.
type ExternalGameweek struct {
	ID              int
	Name            string
	DeadlineISO     string
	DeadlineEpochMs int64
	IsCurrent       bool
	IsNext          bool
	Finished        bool
}

// ExternalBootstrap is the mapped bootstrap-static payload: the full
// player universe plus the gameweek calendar.
type ExternalBootstrap struct {
	Universe  []roster.UniversePlayer
	Gameweeks []ExternalGameweek
}

// NextGameweek returns the first event flagged is_next, falling back to
// the first unfinished one.
func (b ExternalBootstrap) NextGameweek() (ExternalGameweek, bool) {
	for _, gw := range b.Gameweeks {
		if gw.IsNext {
			return gw, true
		}
	}
	for _, gw := range b.Gameweeks {
		if !gw.Finished {
			return gw, true
		}
	}
	return ExternalGameweek{}, false
}

// GameweekByID looks up one event row by its integer id.
func (b ExternalBootstrap) GameweekByID(id int) (ExternalGameweek, bool) {
	for _, gw := range b.Gameweeks {
		if gw.ID == id {
			return gw, true
		}
	}
	return ExternalGameweek{}, false
}

// ExternalManager is an FPL entry summary.
type ExternalManager struct {
	TeamID            int64
	TeamName          string
	ManagerName       string
	OverallPoints     int
	OverallRank       int
	GameweekPoints    int
	TeamValueTenths   int
	BankTenths        int
	TotalTransfers    int
	CurrentGameweekID int
}

// ExternalPicks is a manager's squad for one gameweek.
type ExternalPicks struct {
	TeamID     int64
	GameweekID int
	Picks      []roster.Pick
	// ActiveChip is the chip played this gameweek, empty when none.
	ActiveChip string
}

// ExternalLeagueRow is one row of a classic mini-league table.
type ExternalLeagueRow struct {
	TeamID         int64
	TeamName       string
	ManagerName    string
	Rank           int
	LastRank       int
	TotalPoints    int
	GameweekPoints int
}

// ExternalLeague is a classic league standings page.
type ExternalLeague struct {
	LeagueID int64
	Name     string
	Rows     []ExternalLeagueRow
}

// FPLProvider is the outbound port to the official FPL REST API.
type FPLProvider interface {
	FetchBootstrap(ctx context.Context) (ExternalBootstrap, error)
	FetchManager(ctx context.Context, teamID int64) (ExternalManager, error)
	FetchPicks(ctx context.Context, teamID int64, gameweekID int) (ExternalPicks, error)
	FetchClassicLeague(ctx context.Context, leagueID int64) (ExternalLeague, error)
}
