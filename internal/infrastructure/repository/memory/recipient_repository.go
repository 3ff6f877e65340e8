package memory

import (
	"context"
	"sync"

	"github.com/fplmate/fpl-companion/internal/domain/alert"
)

type RecipientRepository struct {
	mu     sync.RWMutex
	items  map[string]alert.Recipient
	orders []string
}

func NewRecipientRepository(recipients []alert.Recipient) *RecipientRepository {
	items := make(map[string]alert.Recipient, len(recipients))
	orders := make([]string, 0, len(recipients))

	for _, r := range recipients {
		items[r.ID] = r
		orders = append(orders, r.ID)
	}

	return &RecipientRepository{
		items:  items,
		orders: orders,
	}
}

func (r *RecipientRepository) List(_ context.Context) ([]alert.Recipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]alert.Recipient, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *RecipientRepository) GetByUserID(_ context.Context, userID string) (alert.Recipient, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userID]
	if !ok {
		return alert.Recipient{}, false, nil
	}

	return item, true, nil
}

func (r *RecipientRepository) Upsert(_ context.Context, recipient alert.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[recipient.ID]; !exists {
		r.orders = append(r.orders, recipient.ID)
	}
	r.items[recipient.ID] = recipient

	return nil
}

func (r *RecipientRepository) MarkNotified(_ context.Context, recipientID string, gameweekID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[recipientID]
	if !ok {
		return nil
	}
	if item.LastSentGameweekID == nil || *item.LastSentGameweekID < gameweekID {
		gw := gameweekID
		item.LastSentGameweekID = &gw
		r.items[recipientID] = item
	}

	return nil
}
