package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fplmate/fpl-companion/internal/domain/recommend"
	"github.com/fplmate/fpl-companion/internal/domain/userteam"
	"github.com/fplmate/fpl-companion/internal/infrastructure/repository/memory"
)

// countingCacheRepo wraps the in-memory cache with read/write counters.
type countingCacheRepo struct {
	mu    sync.Mutex
	inner *memory.RecommendationCacheRepository
	gets  int
	hits  int
	puts  int

	lastExpiresAt time.Time
}

func newCountingCacheRepo() *countingCacheRepo {
	return &countingCacheRepo{inner: memory.NewRecommendationCacheRepository()}
}

func (c *countingCacheRepo) Get(ctx context.Context, key recommend.CacheKey) (recommend.Payload, bool, error) {
	payload, hit, err := c.inner.Get(ctx, key)
	c.mu.Lock()
	c.gets++
	if hit {
		c.hits++
	}
	c.mu.Unlock()
	return payload, hit, err
}

func (c *countingCacheRepo) Put(ctx context.Context, key recommend.CacheKey, payload recommend.Payload, expiresAt time.Time) error {
	c.mu.Lock()
	c.puts++
	c.lastExpiresAt = expiresAt
	c.mu.Unlock()
	return c.inner.Put(ctx, key, payload, expiresAt)
}

func newRecommendationService(t *testing.T, provider *stubProvider, links []userteam.Link, cacheRepo recommend.CacheRepository) *RecommendationService {
	t.Helper()

	fplData := NewFPLDataService(provider, time.Minute, silentLogger())
	linkRepo := memory.NewUserTeamRepository(links)
	svc := NewRecommendationService(fplData, linkRepo, cacheRepo, recommend.DefaultConfig(), silentLogger())
	svc.now = func() time.Time { return fixtureNow }
	return svc
}

func TestRecommendations_RanksGoalkeeperUpgrade(t *testing.T) {
	provider := &stubProvider{
		bootstrap: fixtureBootstrap(),
		manager:   fixtureManager(158389),
		picks:     fixturePicks(158389, 10),
	}
	links := []userteam.Link{
		{UserID: "u-1", Email: "one@example.com", TeamID: int64Ptr(158389)},
	}
	svc := newRecommendationService(t, provider, links, newCountingCacheRepo())

	payload, err := svc.Recommendations(context.Background(), "u-1")
	require.NoError(t, err)

	require.Len(t, payload.Items, 1)
	item := payload.Items[0]
	assert.Equal(t, "Raya", item.In.Name)
	assert.Equal(t, "Kelleher", item.Out.Name)
	assert.InDelta(t, 1.8, item.WeeklyPointsDelta, 1e-9)
	assert.InDelta(t, 1.0, item.NetSpend, 1e-9)
	assert.Contains(t, item.Rationale, "ppgΔ:1.80")
}

func TestRecommendations_ServesFromCacheOnRepeat(t *testing.T) {
	provider := &stubProvider{
		bootstrap: fixtureBootstrap(),
		manager:   fixtureManager(158389),
		picks:     fixturePicks(158389, 10),
	}
	links := []userteam.Link{
		{UserID: "u-1", Email: "one@example.com", TeamID: int64Ptr(158389)},
	}
	cacheRepo := newCountingCacheRepo()
	svc := newRecommendationService(t, provider, links, cacheRepo)

	first, err := svc.Recommendations(context.Background(), "u-1")
	require.NoError(t, err)
	second, err := svc.Recommendations(context.Background(), "u-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cacheRepo.puts)
	assert.Equal(t, 1, cacheRepo.hits)
}

func TestRecommendations_ExpiryBoundedByDeadline(t *testing.T) {
	provider := &stubProvider{
		bootstrap: fixtureBootstrap(),
		manager:   fixtureManager(158389),
		picks:     fixturePicks(158389, 10),
	}
	links := []userteam.Link{
		{UserID: "u-1", Email: "one@example.com", TeamID: int64Ptr(158389)},
	}
	cacheRepo := newCountingCacheRepo()
	svc := newRecommendationService(t, provider, links, cacheRepo)
	// Two hours before the deadline, well inside the six-hour default TTL.
	svc.now = func() time.Time { return fixtureDeadline.Add(-2 * time.Hour) }

	_, err := svc.Recommendations(context.Background(), "u-1")
	require.NoError(t, err)

	require.Equal(t, 1, cacheRepo.puts)
	assert.True(t, cacheRepo.lastExpiresAt.Equal(fixtureDeadline))
}

func TestRecommendations_RequiresLinkedTeam(t *testing.T) {
	provider := &stubProvider{bootstrap: fixtureBootstrap()}

	t.Run("missing user id", func(t *testing.T) {
		svc := newRecommendationService(t, provider, nil, newCountingCacheRepo())
		_, err := svc.Recommendations(context.Background(), "")
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("no link row", func(t *testing.T) {
		svc := newRecommendationService(t, provider, nil, newCountingCacheRepo())
		_, err := svc.Recommendations(context.Background(), "u-unknown")
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("link without team", func(t *testing.T) {
		links := []userteam.Link{{UserID: "u-1", Email: "one@example.com"}}
		svc := newRecommendationService(t, provider, links, newCountingCacheRepo())
		_, err := svc.Recommendations(context.Background(), "u-1")
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}
