package alert

import "context"

// RecipientRepository describes recipient persistence needs from use cases.
type RecipientRepository interface {
	List(ctx context.Context) ([]Recipient, error)
	GetByUserID(ctx context.Context, userID string) (Recipient, bool, error)
	Upsert(ctx context.Context, recipient Recipient) error
	// MarkNotified records the idempotency marker after a dispatch so the
	// recipient is never double-notified for that gameweek.
	MarkNotified(ctx context.Context, recipientID string, gameweekID int) error
}
