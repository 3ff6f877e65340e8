package postgres

import (
	"database/sql"
	"time"
)

type recommendationCacheTableModel struct {
	ID          int64         `db:"id"`
	UserID      string        `db:"user_id"`
	LeagueID    sql.NullInt64 `db:"league_id"`
	Gameweek    int           `db:"gameweek"`
	ContextHash string        `db:"context_hash"`
	Payload     []byte        `db:"payload"`
	ExpiresAt   time.Time     `db:"expires_at"`
	CreatedAt   time.Time     `db:"created_at"`
}

type recommendationCacheInsertModel struct {
	UserID      string    `db:"user_id"`
	LeagueID    *int64    `db:"league_id"`
	Gameweek    int       `db:"gameweek"`
	ContextHash string    `db:"context_hash"`
	Payload     []byte    `db:"payload"`
	ExpiresAt   time.Time `db:"expires_at"`
}
