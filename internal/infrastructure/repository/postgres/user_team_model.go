package postgres

import (
	"database/sql"
	"time"
)

type userTeamLinkTableModel struct {
	ID        int64         `db:"id"`
	UserID    string        `db:"user_id"`
	Email     string        `db:"email"`
	TeamID    sql.NullInt64 `db:"fpl_team_id"`
	LeagueID  sql.NullInt64 `db:"fpl_league_id"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type userTeamLinkInsertModel struct {
	UserID   string `db:"user_id"`
	Email    string `db:"email"`
	TeamID   *int64 `db:"fpl_team_id"`
	LeagueID *int64 `db:"fpl_league_id"`
}
