package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fplmate/fpl-companion/internal/domain/alert"
	qb "github.com/fplmate/fpl-companion/internal/platform/querybuilder"
)

type RecipientRepository struct {
	db *sqlx.DB
}

func NewRecipientRepository(db *sqlx.DB) *RecipientRepository {
	return &RecipientRepository{db: db}
}

func (r *RecipientRepository) List(ctx context.Context) ([]alert.Recipient, error) {
	query, args, err := qb.Select("*").
		From("alert_recipients").
		OrderBy("user_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recipients query: %w", err)
	}

	var rows []recipientTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}

	out := make([]alert.Recipient, 0, len(rows))
	for _, row := range rows {
		out = append(out, recipientFromRow(row))
	}

	return out, nil
}

func (r *RecipientRepository) GetByUserID(ctx context.Context, userID string) (alert.Recipient, bool, error) {
	query, args, err := qb.Select("*").
		From("alert_recipients").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return alert.Recipient{}, false, fmt.Errorf("build get recipient query: %w", err)
	}

	var row recipientTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return alert.Recipient{}, false, nil
		}
		return alert.Recipient{}, false, fmt.Errorf("get recipient: %w", err)
	}

	return recipientFromRow(row), true, nil
}

func (r *RecipientRepository) Upsert(ctx context.Context, recipient alert.Recipient) error {
	insertModel := recipientInsertModel{
		UserID:      strings.TrimSpace(recipient.ID),
		Email:       strings.TrimSpace(recipient.Email),
		TimeZone:    strings.TrimSpace(recipient.TimeZone),
		WindowStart: strings.TrimSpace(recipient.WindowStart),
		WindowEnd:   strings.TrimSpace(recipient.WindowEnd),
		Disabled:    recipient.Disabled,
	}

	query, args, err := qb.InsertModel("alert_recipients", insertModel, `ON CONFLICT (user_id)
DO UPDATE SET
    email = EXCLUDED.email,
    time_zone = EXCLUDED.time_zone,
    window_start = EXCLUDED.window_start,
    window_end = EXCLUDED.window_end,
    disabled = EXCLUDED.disabled,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert recipient query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert recipient: %w", wrapPreparedStatementErr(err))
	}

	return nil
}

func (r *RecipientRepository) MarkNotified(ctx context.Context, recipientID string, gameweekID int) error {
	// Monotonic guard: a stale run must never move the marker backwards.
	query, args, err := qb.Update("alert_recipients").
		Set("last_sent_gameweek_id", gameweekID).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("user_id", recipientID),
			qb.Expr("(last_sent_gameweek_id IS NULL OR last_sent_gameweek_id < ?)", gameweekID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark notified query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark notified: %w", wrapPreparedStatementErr(err))
	}

	return nil
}

func recipientFromRow(row recipientTableModel) alert.Recipient {
	out := alert.Recipient{
		ID:          row.UserID,
		Email:       row.Email,
		TimeZone:    row.TimeZone,
		WindowStart: row.WindowStart,
		WindowEnd:   row.WindowEnd,
		Disabled:    row.Disabled,
	}
	if row.LastSentGameweekID.Valid {
		gw := int(row.LastSentGameweekID.Int64)
		out.LastSentGameweekID = &gw
	}
	return out
}
