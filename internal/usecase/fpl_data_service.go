package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fplmate/fpl-companion/internal/domain/roster"
	"github.com/fplmate/fpl-companion/internal/platform/cache"
)

// FPLDataService fronts the FPL API with short-lived caches. The upstream
// data only moves on player price changes and live matches, so a few
// minutes of staleness is invisible to users while keeping the app well
// under the API's rate limits.
type FPLDataService struct {
	provider       FPLProvider
	bootstrapCache *cache.Store
	entryCache     *cache.Store
	logger         *slog.Logger
}

func NewFPLDataService(provider FPLProvider, ttl time.Duration, logger *slog.Logger) *FPLDataService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FPLDataService{
		provider:       provider,
		bootstrapCache: cache.NewStore(ttl),
		entryCache:     cache.NewStore(ttl),
		logger:         logger,
	}
}

func (s *FPLDataService) Bootstrap(ctx context.Context) (ExternalBootstrap, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FPLDataService.Bootstrap")
	defer span.End()

	value, err := s.bootstrapCache.GetOrLoad(ctx, "bootstrap", func(ctx context.Context) (any, error) {
		bootstrap, err := s.provider.FetchBootstrap(ctx)
		if err != nil {
			return nil, err
		}
		return bootstrap, nil
	})
	if err != nil {
		return ExternalBootstrap{}, fmt.Errorf("load bootstrap: %w", err)
	}

	bootstrap, ok := value.(ExternalBootstrap)
	if !ok {
		return ExternalBootstrap{}, fmt.Errorf("unexpected bootstrap cache entry type %T", value)
	}
	return bootstrap, nil
}

func (s *FPLDataService) Manager(ctx context.Context, teamID int64) (ExternalManager, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FPLDataService.Manager")
	defer span.End()

	key := fmt.Sprintf("manager:%d", teamID)
	value, err := s.entryCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		manager, err := s.provider.FetchManager(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return manager, nil
	})
	if err != nil {
		return ExternalManager{}, fmt.Errorf("load manager team_id=%d: %w", teamID, err)
	}

	manager, ok := value.(ExternalManager)
	if !ok {
		return ExternalManager{}, fmt.Errorf("unexpected manager cache entry type %T", value)
	}
	return manager, nil
}

func (s *FPLDataService) League(ctx context.Context, leagueID int64) (ExternalLeague, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FPLDataService.League")
	defer span.End()

	key := fmt.Sprintf("league:%d", leagueID)
	value, err := s.entryCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		league, err := s.provider.FetchClassicLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return league, nil
	})
	if err != nil {
		return ExternalLeague{}, fmt.Errorf("load league league_id=%d: %w", leagueID, err)
	}

	league, ok := value.(ExternalLeague)
	if !ok {
		return ExternalLeague{}, fmt.Errorf("unexpected league cache entry type %T", value)
	}
	return league, nil
}

// Roster loads a manager's squad for the given gameweek, joined against
// the player universe. Gameweek zero resolves to the manager's current
// event.
func (s *FPLDataService) Roster(ctx context.Context, teamID int64, gameweekID int) ([]roster.RosterPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FPLDataService.Roster")
	defer span.End()

	bootstrap, err := s.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	if gameweekID <= 0 {
		manager, err := s.Manager(ctx, teamID)
		if err != nil {
			return nil, err
		}
		gameweekID = manager.CurrentGameweekID
	}
	if gameweekID <= 0 {
		return nil, fmt.Errorf("%w: no completed gameweek for team %d yet", ErrNotFound, teamID)
	}

	key := fmt.Sprintf("picks:%d:%d", teamID, gameweekID)
	value, err := s.entryCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		picks, err := s.provider.FetchPicks(ctx, teamID, gameweekID)
		if err != nil {
			return nil, err
		}
		return picks, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load picks team_id=%d gameweek=%d: %w", teamID, gameweekID, err)
	}

	picks, ok := value.(ExternalPicks)
	if !ok {
		return nil, fmt.Errorf("unexpected picks cache entry type %T", value)
	}

	players, err := roster.Build(picks.Picks, bootstrap.Universe)
	if err != nil {
		return nil, fmt.Errorf("build roster team_id=%d gameweek=%d: %w", teamID, gameweekID, err)
	}
	return players, nil
}
