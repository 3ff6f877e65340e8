package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fplmate/fpl-companion/internal/domain/playerrisk"
	"github.com/fplmate/fpl-companion/internal/domain/userteam"
	"github.com/fplmate/fpl-companion/internal/infrastructure/repository/memory"
)

func newDashboardService(t *testing.T, provider *stubProvider, links []userteam.Link) *DashboardService {
	t.Helper()

	fplData := NewFPLDataService(provider, time.Minute, silentLogger())
	svc := NewDashboardService(fplData, memory.NewUserTeamRepository(links), silentLogger())
	svc.now = func() time.Time { return fixtureNow }
	return svc
}

func fixtureLeague() ExternalLeague {
	return ExternalLeague{
		LeagueID: 314,
		Name:     "Overall",
		Rows: []ExternalLeagueRow{
			{TeamID: 99, TeamName: "Top Dogs", ManagerName: "A. Rival", Rank: 1, TotalPoints: 700},
			{TeamID: 158389, TeamName: "Bench Boosters", ManagerName: "Jo Doe", Rank: 2, TotalPoints: 612},
		},
	}
}

func TestDashboardGet_AssemblesAggregate(t *testing.T) {
	provider := &stubProvider{
		bootstrap: fixtureBootstrap(),
		manager:   fixtureManager(158389),
		picks:     fixturePicks(158389, 10),
		league:    fixtureLeague(),
	}
	links := []userteam.Link{
		{UserID: "u-1", Email: "one@example.com", TeamID: int64Ptr(158389), LeagueID: int64Ptr(314)},
	}
	svc := newDashboardService(t, provider, links)

	out, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)

	assert.Equal(t, 11, out.GameweekID)
	assert.Equal(t, "Gameweek 11", out.GameweekName)
	assert.Equal(t, fixtureDeadline.UnixMilli(), out.DeadlineEpochMs)
	assert.InDelta(t, fixtureDeadline.Sub(fixtureNow).Hours(), out.HoursToDeadline, 1e-9)
	assert.InDelta(t, 101.4, out.TeamValue, 1e-9)
	assert.InDelta(t, 2.3, out.Bank, 1e-9)

	require.Len(t, out.Roster, 3)
	assert.Equal(t, playerrisk.BadgeOK, out.Roster[0].Risk.Badge)

	require.NotNil(t, out.League)
	assert.Equal(t, "Overall", out.League.Name)
	assert.Equal(t, 2, out.League.UserRank)
	assert.Len(t, out.League.Rows, 2)

	// Averages are over the 10 finished gameweeks from the manager entry.
	require.NotNil(t, out.League.RivalAbove)
	assert.Equal(t, "A. Rival", out.League.RivalAbove.Name)
	assert.Equal(t, 700, out.League.RivalAbove.Points)
	assert.InDelta(t, 70.0, out.League.RivalAbove.AvgPointsPerWeek, 1e-9)
	assert.InDelta(t, 61.2, out.League.UserAvgPointsPerWeek, 1e-9)
	assert.Equal(t, 88, out.League.PointsGap)
	assert.InDelta(t, -8.8, out.League.PointsPerWeekGap, 1e-9)
}

func TestDashboardGet_LeagueLeaderIsOwnRival(t *testing.T) {
	provider := &stubProvider{
		bootstrap: fixtureBootstrap(),
		manager:   fixtureManager(99),
		picks:     fixturePicks(99, 10),
		league:    fixtureLeague(),
	}
	links := []userteam.Link{
		{UserID: "u-1", Email: "one@example.com", TeamID: int64Ptr(99), LeagueID: int64Ptr(314)},
	}
	svc := newDashboardService(t, provider, links)

	out, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)

	require.NotNil(t, out.League)
	assert.Equal(t, 1, out.League.UserRank)
	require.NotNil(t, out.League.RivalAbove)
	assert.Equal(t, "League Leader", out.League.RivalAbove.Name)
	assert.Equal(t, 700, out.League.RivalAbove.Points)
	assert.InDelta(t, 70.0, out.League.RivalAbove.AvgPointsPerWeek, 1e-9)
	assert.InDelta(t, 70.0, out.League.UserAvgPointsPerWeek, 1e-9)
	assert.Equal(t, 0, out.League.PointsGap)
	assert.InDelta(t, 0, out.League.PointsPerWeekGap, 1e-9)
}

func TestDashboardGet_UserMissingFromStandings(t *testing.T) {
	league := fixtureLeague()
	league.Rows = league.Rows[:1] // only the rank-1 rival remains

	provider := &stubProvider{
		bootstrap: fixtureBootstrap(),
		manager:   fixtureManager(158389),
		picks:     fixturePicks(158389, 10),
		league:    league,
	}
	links := []userteam.Link{
		{UserID: "u-1", Email: "one@example.com", TeamID: int64Ptr(158389), LeagueID: int64Ptr(314)},
	}
	svc := newDashboardService(t, provider, links)

	out, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)

	require.NotNil(t, out.League)
	assert.Equal(t, 0, out.League.UserRank)
	assert.Nil(t, out.League.RivalAbove)
	assert.InDelta(t, 0, out.League.UserAvgPointsPerWeek, 1e-9)
	assert.Equal(t, 0, out.League.PointsGap)
	assert.InDelta(t, 0, out.League.PointsPerWeekGap, 1e-9)
}

func TestDashboardGet_LeagueFetchFailureIsNotFatal(t *testing.T) {
	provider := &stubProvider{
		bootstrap: fixtureBootstrap(),
		manager:   fixtureManager(158389),
		picks:     fixturePicks(158389, 10),
		leagueErr: errors.New("league endpoint unavailable"),
	}
	links := []userteam.Link{
		{UserID: "u-1", Email: "one@example.com", TeamID: int64Ptr(158389), LeagueID: int64Ptr(314)},
	}
	svc := newDashboardService(t, provider, links)

	out, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Nil(t, out.League)
	assert.Len(t, out.Roster, 3)
}

func TestDashboardGet_NoLeagueSelected(t *testing.T) {
	provider := &stubProvider{
		bootstrap: fixtureBootstrap(),
		manager:   fixtureManager(158389),
		picks:     fixturePicks(158389, 10),
	}
	links := []userteam.Link{
		{UserID: "u-1", Email: "one@example.com", TeamID: int64Ptr(158389)},
	}
	svc := newDashboardService(t, provider, links)

	out, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Nil(t, out.League)
	assert.Equal(t, 0, provider.leagueCalls)
}

func TestDashboardGet_RequiresLinkedTeam(t *testing.T) {
	provider := &stubProvider{bootstrap: fixtureBootstrap()}
	svc := newDashboardService(t, provider, nil)

	_, err := svc.Get(context.Background(), "u-unknown")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Get(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidInput)
}
