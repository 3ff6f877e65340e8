package app

import (
	"context"
	"log/slog"

	"github.com/fplmate/fpl-companion/internal/usecase"
)

// noopEmailSender stands in for the email provider when delivery is
// disabled. It logs what would have been sent so dev runs stay inspectable.
type noopEmailSender struct {
	logger *slog.Logger
}

var _ usecase.EmailSender = noopEmailSender{}

func (s noopEmailSender) Send(ctx context.Context, msg usecase.EmailMessage) error {
	s.logger.InfoContext(ctx, "email send skipped (delivery disabled)",
		"to", msg.To,
		"subject", msg.Subject,
		"send_at", msg.SendAt,
		"idempotency_key", msg.IdempotencyKey,
	)
	return nil
}
