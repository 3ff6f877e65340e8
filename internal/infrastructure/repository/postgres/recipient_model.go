package postgres

import (
	"database/sql"
	"time"
)

type recipientTableModel struct {
	ID                 int64         `db:"id"`
	UserID             string        `db:"user_id"`
	Email              string        `db:"email"`
	TimeZone           string        `db:"time_zone"`
	WindowStart        string        `db:"window_start"`
	WindowEnd          string        `db:"window_end"`
	LastSentGameweekID sql.NullInt64 `db:"last_sent_gameweek_id"`
	Disabled           bool          `db:"disabled"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

type recipientInsertModel struct {
	UserID      string `db:"user_id"`
	Email       string `db:"email"`
	TimeZone    string `db:"time_zone"`
	WindowStart string `db:"window_start"`
	WindowEnd   string `db:"window_end"`
	Disabled    bool   `db:"disabled"`
}
