package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fplmate/fpl-companion/internal/domain/userteam"
	qb "github.com/fplmate/fpl-companion/internal/platform/querybuilder"
)

type UserTeamRepository struct {
	db *sqlx.DB
}

func NewUserTeamRepository(db *sqlx.DB) *UserTeamRepository {
	return &UserTeamRepository{db: db}
}

func (r *UserTeamRepository) GetByUserID(ctx context.Context, userID string) (userteam.Link, bool, error) {
	query, args, err := qb.Select("*").
		From("user_team_links").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return userteam.Link{}, false, fmt.Errorf("build get user team link query: %w", err)
	}

	var row userTeamLinkTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return userteam.Link{}, false, nil
		}
		return userteam.Link{}, false, fmt.Errorf("get user team link: %w", err)
	}

	return userTeamLinkFromRow(row), true, nil
}

func (r *UserTeamRepository) Upsert(ctx context.Context, link userteam.Link) error {
	insertModel := userTeamLinkInsertModel{
		UserID:   strings.TrimSpace(link.UserID),
		Email:    strings.TrimSpace(link.Email),
		TeamID:   link.TeamID,
		LeagueID: link.LeagueID,
	}

	query, args, err := qb.InsertModel("user_team_links", insertModel, `ON CONFLICT (user_id)
DO UPDATE SET
    email = EXCLUDED.email,
    fpl_team_id = EXCLUDED.fpl_team_id,
    fpl_league_id = EXCLUDED.fpl_league_id,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert user team link query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user team link: %w", wrapPreparedStatementErr(err))
	}

	return nil
}

func (r *UserTeamRepository) ListLinked(ctx context.Context) ([]userteam.Link, error) {
	query, args, err := qb.Select("*").
		From("user_team_links").
		Where(qb.Expr("fpl_team_id IS NOT NULL")).
		OrderBy("user_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list linked users query: %w", err)
	}

	var rows []userTeamLinkTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list linked users: %w", err)
	}

	out := make([]userteam.Link, 0, len(rows))
	for _, row := range rows {
		out = append(out, userTeamLinkFromRow(row))
	}

	return out, nil
}

func userTeamLinkFromRow(row userTeamLinkTableModel) userteam.Link {
	out := userteam.Link{
		UserID:    row.UserID,
		Email:     row.Email,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.TeamID.Valid {
		teamID := row.TeamID.Int64
		out.TeamID = &teamID
	}
	if row.LeagueID.Valid {
		leagueID := row.LeagueID.Int64
		out.LeagueID = &leagueID
	}
	return out
}
