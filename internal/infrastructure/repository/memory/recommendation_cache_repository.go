package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fplmate/fpl-companion/internal/domain/recommend"
)

type cachedPayload struct {
	payload   recommend.Payload
	expiresAt time.Time
}

// RecommendationCacheRepository keeps recommendation payloads with
// per-entry expiry. Expired rows are dropped lazily on read.
type RecommendationCacheRepository struct {
	mu    sync.RWMutex
	items map[string]cachedPayload
	now   func() time.Time
}

func NewRecommendationCacheRepository() *RecommendationCacheRepository {
	return &RecommendationCacheRepository{
		items: make(map[string]cachedPayload),
		now:   time.Now,
	}
}

func cacheKeyString(key recommend.CacheKey) string {
	leaguePart := "none"
	if key.LeagueID != nil {
		leaguePart = fmt.Sprintf("%d", *key.LeagueID)
	}
	return fmt.Sprintf("%s:%s:%d:%s", key.UserID, leaguePart, key.Gameweek, key.ContextHash)
}

func (r *RecommendationCacheRepository) Get(_ context.Context, key recommend.CacheKey) (recommend.Payload, bool, error) {
	id := cacheKeyString(key)

	r.mu.RLock()
	item, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return recommend.Payload{}, false, nil
	}

	if !item.expiresAt.After(r.now()) {
		r.mu.Lock()
		delete(r.items, id)
		r.mu.Unlock()
		return recommend.Payload{}, false, nil
	}

	return item.payload, true, nil
}

func (r *RecommendationCacheRepository) Put(_ context.Context, key recommend.CacheKey, payload recommend.Payload, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[cacheKeyString(key)] = cachedPayload{
		payload:   payload,
		expiresAt: expiresAt,
	}

	return nil
}
