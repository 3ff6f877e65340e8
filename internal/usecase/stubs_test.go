package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fplmate/fpl-companion/internal/domain/roster"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

// stubProvider serves canned FPL API payloads and counts fetches so tests
// can assert on cache behavior.
type stubProvider struct {
	mu sync.Mutex

	bootstrap ExternalBootstrap
	manager   ExternalManager
	picks     ExternalPicks
	league    ExternalLeague

	bootstrapErr error
	managerErr   error
	picksErr     error
	leagueErr    error

	bootstrapCalls int
	managerCalls   int
	picksCalls     int
	leagueCalls    int
}

func (s *stubProvider) FetchBootstrap(_ context.Context) (ExternalBootstrap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bootstrapCalls++
	if s.bootstrapErr != nil {
		return ExternalBootstrap{}, s.bootstrapErr
	}
	return s.bootstrap, nil
}

func (s *stubProvider) FetchManager(_ context.Context, _ int64) (ExternalManager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.managerCalls++
	if s.managerErr != nil {
		return ExternalManager{}, s.managerErr
	}
	return s.manager, nil
}

func (s *stubProvider) FetchPicks(_ context.Context, _ int64, _ int) (ExternalPicks, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.picksCalls++
	if s.picksErr != nil {
		return ExternalPicks{}, s.picksErr
	}
	return s.picks, nil
}

func (s *stubProvider) FetchClassicLeague(_ context.Context, _ int64) (ExternalLeague, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leagueCalls++
	if s.leagueErr != nil {
		return ExternalLeague{}, s.leagueErr
	}
	return s.league, nil
}

// recordingSender captures every outbound email. failFor makes sends to
// one address fail, for partial-failure scenarios.
type recordingSender struct {
	mu      sync.Mutex
	sent    []EmailMessage
	failFor string
	err     error
}

func (s *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor != "" && msg.To == s.failFor {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) messages() []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EmailMessage, len(s.sent))
	copy(out, s.sent)
	return out
}

// Fixture universe: a squad of three owned players where the goalkeeper is
// the clear weakest, plus one stronger goalkeeper as the obvious upgrade.
func fixtureUniverse() []roster.UniversePlayer {
	return []roster.UniversePlayer{
		{ID: 1, Name: "Kelleher", Team: "LIV", Position: roster.PositionGoalkeeper, Price: 4.5, Form: 3.0, PointsPerGame: 3.0, ExpectedPoints: 3.0, Status: "a"},
		{ID: 2, Name: "Saka", Team: "ARS", Position: roster.PositionMidfielder, Price: 8.5, Form: 6.0, PointsPerGame: 5.5, ExpectedPoints: 6.0, Status: "a"},
		{ID: 3, Name: "Haaland", Team: "MCI", Position: roster.PositionForward, Price: 14.0, Form: 8.0, PointsPerGame: 7.5, ExpectedPoints: 8.0, Status: "a"},
		{ID: 4, Name: "Raya", Team: "ARS", Position: roster.PositionGoalkeeper, Price: 5.5, Form: 5.5, PointsPerGame: 4.8, ExpectedPoints: 5.0, Status: "a"},
		{ID: 5, Name: "Palmer", Team: "CHE", Position: roster.PositionMidfielder, Price: 10.5, Form: 7.0, PointsPerGame: 6.5, ExpectedPoints: 7.0, Status: "a"},
	}
}

func fixturePicks(teamID int64, gameweekID int) ExternalPicks {
	return ExternalPicks{
		TeamID:     teamID,
		GameweekID: gameweekID,
		Picks: []roster.Pick{
			{PlayerID: 1, Multiplier: 1},
			{PlayerID: 2, Multiplier: 1},
			{PlayerID: 3, IsCaptain: true, Multiplier: 2},
		},
	}
}

// fixtureDeadline is the next gameweek deadline used across service tests.
var fixtureDeadline = time.Date(2025, 11, 8, 11, 0, 0, 0, time.UTC)

func fixtureBootstrap() ExternalBootstrap {
	return ExternalBootstrap{
		Universe: fixtureUniverse(),
		Gameweeks: []ExternalGameweek{
			{ID: 10, Name: "Gameweek 10", Finished: true},
			{
				ID:              11,
				Name:            "Gameweek 11",
				DeadlineISO:     fixtureDeadline.Format(time.RFC3339),
				DeadlineEpochMs: fixtureDeadline.UnixMilli(),
				IsNext:          true,
			},
		},
	}
}

func fixtureManager(teamID int64) ExternalManager {
	return ExternalManager{
		TeamID:            teamID,
		TeamName:          "Bench Boosters",
		ManagerName:       "Jo Doe",
		OverallPoints:     612,
		OverallRank:       104233,
		GameweekPoints:    58,
		TeamValueTenths:   1014,
		BankTenths:        23,
		TotalTransfers:    14,
		CurrentGameweekID: 10,
	}
}
