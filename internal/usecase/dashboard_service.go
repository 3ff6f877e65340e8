package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fplmate/fpl-companion/internal/domain/playerrisk"
	"github.com/fplmate/fpl-companion/internal/domain/roster"
	"github.com/fplmate/fpl-companion/internal/domain/userteam"
)

// DashboardPlayer is one roster row with its availability badge attached.
type DashboardPlayer struct {
	Player roster.RosterPlayer `json:"player"`
	Risk   playerrisk.Info     `json:"risk"`
}

// LeagueRival is the manager directly above the user in the standings,
// the one a differential transfer is meant to overtake.
type LeagueRival struct {
	Name             string  `json:"name"`
	Points           int     `json:"points"`
	AvgPointsPerWeek float64 `json:"avgPointsPerWeek"`
}

// DashboardLeague is the mini-league comparison block, present only when
// the user selected a rival league. PointsGap is rival minus user, so a
// positive gap is ground still to make up.
type DashboardLeague struct {
	LeagueID             int64               `json:"leagueId"`
	Name                 string              `json:"name"`
	UserRank             int                 `json:"userRank"`
	UserAvgPointsPerWeek float64             `json:"userAvgPointsPerWeek"`
	RivalAbove           *LeagueRival        `json:"rivalAbove,omitempty"`
	PointsGap            int                 `json:"pointsGap"`
	PointsPerWeekGap     float64             `json:"ppwGap"`
	Rows                 []ExternalLeagueRow `json:"rows"`
}

// Dashboard is the aggregate view for the app's home screen.
type Dashboard struct {
	Manager          ExternalManager   `json:"manager"`
	GameweekID       int               `json:"gameweekId"`
	GameweekName     string            `json:"gameweekName"`
	DeadlineISO      string            `json:"deadlineISO"`
	DeadlineEpochMs  int64             `json:"deadlineEpochMs"`
	HoursToDeadline  float64           `json:"hoursToDeadline"`
	TeamValue        float64           `json:"teamValue"`
	Bank             float64           `json:"bank"`
	Roster           []DashboardPlayer `json:"roster"`
	League           *DashboardLeague  `json:"league,omitempty"`
}

// DashboardService assembles the home-screen aggregate from the FPL API
// caches. It owns no state of its own; everything is recomputed per call
// on top of the short-lived data caches.
type DashboardService struct {
	fplData  *FPLDataService
	linkRepo userteam.Repository
	logger   *slog.Logger
	now      func() time.Time
}

func NewDashboardService(fplData *FPLDataService, linkRepo userteam.Repository, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}

	return &DashboardService{
		fplData:  fplData,
		linkRepo: linkRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *DashboardService) Get(ctx context.Context, userID string) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	if userID == "" {
		return Dashboard{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	link, found, err := s.linkRepo.GetByUserID(ctx, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("get user team link: %w", err)
	}
	if !found || !link.HasTeam() {
		return Dashboard{}, fmt.Errorf("%w: no FPL team connected for user %s", ErrInvalidInput, userID)
	}

	bootstrap, err := s.fplData.Bootstrap(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	next, ok := bootstrap.NextGameweek()
	if !ok {
		return Dashboard{}, fmt.Errorf("%w: season has no upcoming gameweek", ErrNotFound)
	}

	manager, err := s.fplData.Manager(ctx, *link.TeamID)
	if err != nil {
		return Dashboard{}, err
	}

	players, err := s.fplData.Roster(ctx, *link.TeamID, 0)
	if err != nil {
		return Dashboard{}, err
	}

	out := Dashboard{
		Manager:         manager,
		GameweekID:      next.ID,
		GameweekName:    next.Name,
		DeadlineISO:     next.DeadlineISO,
		DeadlineEpochMs: next.DeadlineEpochMs,
		TeamValue:       float64(manager.TeamValueTenths) / 10,
		Bank:            float64(manager.BankTenths) / 10,
		Roster:          make([]DashboardPlayer, 0, len(players)),
	}
	if next.DeadlineEpochMs > 0 {
		out.HoursToDeadline = time.UnixMilli(next.DeadlineEpochMs).Sub(s.now()).Hours()
	}

	for _, p := range players {
		out.Roster = append(out.Roster, DashboardPlayer{
			Player: p,
			Risk:   playerrisk.Assess(p),
		})
	}

	if link.HasLeague() {
		league, err := s.fplData.League(ctx, *link.LeagueID)
		if err != nil {
			// League comparison is an enrichment; the dashboard still works
			// without it when the standings fetch fails.
			s.logger.WarnContext(ctx, "league standings unavailable for dashboard", "user_id", userID, "league_id", *link.LeagueID, "error", err)
		} else {
			out.League = buildLeagueComparison(league, *link.TeamID, manager.CurrentGameweekID)
		}
	}

	return out, nil
}

// avgPointsPerWeek spreads a season total over the gameweeks played so far.
func avgPointsPerWeek(totalPoints, gameweek int) float64 {
	if gameweek <= 0 {
		return 0
	}
	return float64(totalPoints) / float64(gameweek)
}

// buildLeagueComparison locates the user in the standings and pairs them with
// the manager one rank above. A user leading the league is compared against
// themselves under the "League Leader" label so every response carries a
// rival block; a user absent from the standings gets a block with zero gaps
// and no rival.
func buildLeagueComparison(league ExternalLeague, teamID int64, currentGW int) *DashboardLeague {
	block := &DashboardLeague{
		LeagueID: league.LeagueID,
		Name:     league.Name,
		Rows:     league.Rows,
	}

	var userRow *ExternalLeagueRow
	for i := range league.Rows {
		if league.Rows[i].TeamID == teamID {
			userRow = &league.Rows[i]
			break
		}
	}
	if userRow == nil {
		return block
	}

	block.UserRank = userRow.Rank
	block.UserAvgPointsPerWeek = avgPointsPerWeek(userRow.TotalPoints, currentGW)

	var rivalRow *ExternalLeagueRow
	for i := range league.Rows {
		if league.Rows[i].Rank == userRow.Rank-1 {
			rivalRow = &league.Rows[i]
			break
		}
	}
	if rivalRow == nil {
		// Rank 1, or a standings page with a hole above the user. Either way
		// there is nobody to chase.
		block.RivalAbove = &LeagueRival{
			Name:             "League Leader",
			Points:           userRow.TotalPoints,
			AvgPointsPerWeek: block.UserAvgPointsPerWeek,
		}
		return block
	}

	rivalName := rivalRow.ManagerName
	if rivalName == "" {
		rivalName = rivalRow.TeamName
	}
	block.RivalAbove = &LeagueRival{
		Name:             rivalName,
		Points:           rivalRow.TotalPoints,
		AvgPointsPerWeek: avgPointsPerWeek(rivalRow.TotalPoints, currentGW),
	}
	block.PointsGap = rivalRow.TotalPoints - userRow.TotalPoints
	block.PointsPerWeekGap = block.UserAvgPointsPerWeek - block.RivalAbove.AvgPointsPerWeek
	return block
}
