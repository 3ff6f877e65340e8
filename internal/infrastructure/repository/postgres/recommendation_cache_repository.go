package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/fplmate/fpl-companion/internal/domain/recommend"
	qb "github.com/fplmate/fpl-companion/internal/platform/querybuilder"
)

// RecommendationCacheRepository stores serialized recommendation payloads
// keyed by user, gameweek, and context hash. One row per user/gameweek;
// a new context hash overwrites the previous payload.
type RecommendationCacheRepository struct {
	db *sqlx.DB
}

func NewRecommendationCacheRepository(db *sqlx.DB) *RecommendationCacheRepository {
	return &RecommendationCacheRepository{db: db}
}

func (r *RecommendationCacheRepository) Get(ctx context.Context, key recommend.CacheKey) (recommend.Payload, bool, error) {
	conditions := []qb.Condition{
		qb.Eq("user_id", key.UserID),
		qb.Eq("gameweek", key.Gameweek),
		qb.Eq("context_hash", key.ContextHash),
		qb.Expr("expires_at > NOW()"),
	}
	if key.LeagueID != nil {
		conditions = append(conditions, qb.Eq("league_id", *key.LeagueID))
	} else {
		conditions = append(conditions, qb.IsNull("league_id"))
	}

	query, args, err := qb.Select("*").
		From("recommendation_cache").
		Where(conditions...).
		Limit(1).
		ToSQL()
	if err != nil {
		return recommend.Payload{}, false, fmt.Errorf("build get cached recommendation query: %w", err)
	}

	var row recommendationCacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return recommend.Payload{}, false, nil
		}
		return recommend.Payload{}, false, fmt.Errorf("get cached recommendation: %w", err)
	}

	var payload recommend.Payload
	if err := sonic.Unmarshal(row.Payload, &payload); err != nil {
		return recommend.Payload{}, false, fmt.Errorf("decode cached recommendation payload: %w", err)
	}

	return payload, true, nil
}

func (r *RecommendationCacheRepository) Put(ctx context.Context, key recommend.CacheKey, payload recommend.Payload, expiresAt time.Time) error {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode recommendation payload: %w", err)
	}

	insertModel := recommendationCacheInsertModel{
		UserID:      key.UserID,
		LeagueID:    key.LeagueID,
		Gameweek:    key.Gameweek,
		ContextHash: key.ContextHash,
		Payload:     raw,
		ExpiresAt:   expiresAt.UTC(),
	}

	query, args, err := qb.InsertModel("recommendation_cache", insertModel, `ON CONFLICT (user_id, gameweek)
DO UPDATE SET
    league_id = EXCLUDED.league_id,
    context_hash = EXCLUDED.context_hash,
    payload = EXCLUDED.payload,
    expires_at = EXCLUDED.expires_at,
    created_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert cached recommendation query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert cached recommendation: %w", wrapPreparedStatementErr(err))
	}

	return nil
}
