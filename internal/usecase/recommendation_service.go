package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fplmate/fpl-companion/internal/domain/recommend"
	"github.com/fplmate/fpl-companion/internal/domain/roster"
	"github.com/fplmate/fpl-companion/internal/domain/userteam"
	"github.com/fplmate/fpl-companion/internal/platform/contexthash"
)

const maxRecommendationTTL = 6 * time.Hour

// RecommendationService produces the cached transfer suggestion payload
// for a user's upcoming gameweek.
type RecommendationService struct {
	fplData   *FPLDataService
	linkRepo  userteam.Repository
	cacheRepo recommend.CacheRepository
	cfg       recommend.Config
	logger    *slog.Logger
	now       func() time.Time
}

func NewRecommendationService(
	fplData *FPLDataService,
	linkRepo userteam.Repository,
	cacheRepo recommend.CacheRepository,
	cfg recommend.Config,
	logger *slog.Logger,
) *RecommendationService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxRecommendations <= 0 {
		cfg = recommend.DefaultConfig()
	}

	return &RecommendationService{
		fplData:   fplData,
		linkRepo:  linkRepo,
		cacheRepo: cacheRepo,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Recommendations returns the ranked transfer payload for userID, serving
// from cache when the context hash still matches. The hash covers the
// weights version, the roster composition with prices, and an hour-coarse
// timestamp, so any of those changing produces a fresh computation.
func (s *RecommendationService) Recommendations(ctx context.Context, userID string) (recommend.Payload, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecommendationService.Recommendations")
	defer span.End()

	link, err := s.requireLinkedTeam(ctx, userID)
	if err != nil {
		return recommend.Payload{}, err
	}

	bootstrap, err := s.fplData.Bootstrap(ctx)
	if err != nil {
		return recommend.Payload{}, err
	}
	next, ok := bootstrap.NextGameweek()
	if !ok {
		return recommend.Payload{}, fmt.Errorf("%w: season has no upcoming gameweek", ErrNotFound)
	}

	players, err := s.fplData.Roster(ctx, *link.TeamID, 0)
	if err != nil {
		return recommend.Payload{}, err
	}

	key, err := s.buildCacheKey(userID, link, next.ID, players)
	if err != nil {
		return recommend.Payload{}, err
	}

	if cached, hit, err := s.cacheRepo.Get(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "recommendation cache read failed, recomputing", "user_id", userID, "error", err)
	} else if hit {
		return cached, nil
	}

	payload, err := recommend.Compute(s.cfg, players, bootstrap.Universe)
	if err != nil {
		return recommend.Payload{}, fmt.Errorf("compute recommendations: %w", err)
	}

	expiresAt := s.cacheExpiry(next)
	if err := s.cacheRepo.Put(ctx, key, payload, expiresAt); err != nil {
		// A failed cache write costs one recomputation, not the response.
		s.logger.WarnContext(ctx, "recommendation cache write failed", "user_id", userID, "error", err)
	}

	return payload, nil
}

func (s *RecommendationService) requireLinkedTeam(ctx context.Context, userID string) (userteam.Link, error) {
	if userID == "" {
		return userteam.Link{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	link, found, err := s.linkRepo.GetByUserID(ctx, userID)
	if err != nil {
		return userteam.Link{}, fmt.Errorf("get user team link: %w", err)
	}
	if !found || !link.HasTeam() {
		return userteam.Link{}, fmt.Errorf("%w: no FPL team connected for user %s", ErrInvalidInput, userID)
	}
	return link, nil
}

func (s *RecommendationService) buildCacheKey(userID string, link userteam.Link, gameweekID int, players []roster.RosterPlayer) (recommend.CacheKey, error) {
	type rosterEntry struct {
		ID    int64   `json:"id"`
		Price float64 `json:"price"`
	}
	entries := make([]rosterEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, rosterEntry{ID: p.ID, Price: p.Price})
	}

	hash, err := contexthash.Compute(map[string]any{
		"weightsVersion": recommend.WeightsVersion,
		"roster":         entries,
		"hourBucket":     s.now().UTC().Truncate(time.Hour).Unix(),
	})
	if err != nil {
		return recommend.CacheKey{}, fmt.Errorf("compute context hash: %w", err)
	}

	return recommend.CacheKey{
		UserID:      userID,
		LeagueID:    link.LeagueID,
		Gameweek:    gameweekID,
		ContextHash: hash,
	}, nil
}

// cacheExpiry bounds the payload lifetime by the gameweek deadline: a
// recommendation must never outlive the squad it was computed for.
func (s *RecommendationService) cacheExpiry(gw ExternalGameweek) time.Time {
	now := s.now().UTC()
	expiresAt := now.Add(maxRecommendationTTL)
	if gw.DeadlineEpochMs > 0 {
		deadline := time.UnixMilli(gw.DeadlineEpochMs).UTC()
		if deadline.After(now) && deadline.Before(expiresAt) {
			expiresAt = deadline
		}
	}
	return expiresAt
}
