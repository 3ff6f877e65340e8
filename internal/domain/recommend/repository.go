package recommend

import (
	"context"
	"time"
)

// CacheKey identifies one cached recommendation payload. ContextHash is a
// deterministic content hash of the factors that must invalidate the cache
// when they change (weights version, roster composition and prices, coarse
// timestamp).
type CacheKey struct {
	UserID      string
	LeagueID    *int64
	Gameweek    int
	ContextHash string
}

// CacheRepository describes recommendation cache persistence needs from
// use cases. Reads treat expired rows as absent.
type CacheRepository interface {
	Get(ctx context.Context, key CacheKey) (Payload, bool, error)
	Put(ctx context.Context, key CacheKey, payload Payload, expiresAt time.Time) error
}
