package memory

import (
	"context"
	"sync"

	"github.com/fplmate/fpl-companion/internal/domain/userteam"
)

type UserTeamRepository struct {
	mu     sync.RWMutex
	items  map[string]userteam.Link
	orders []string
}

func NewUserTeamRepository(links []userteam.Link) *UserTeamRepository {
	items := make(map[string]userteam.Link, len(links))
	orders := make([]string, 0, len(links))

	for _, l := range links {
		items[l.UserID] = l
		orders = append(orders, l.UserID)
	}

	return &UserTeamRepository{
		items:  items,
		orders: orders,
	}
}

func (r *UserTeamRepository) GetByUserID(_ context.Context, userID string) (userteam.Link, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userID]
	if !ok {
		return userteam.Link{}, false, nil
	}

	return item, true, nil
}

func (r *UserTeamRepository) Upsert(_ context.Context, link userteam.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.items[link.UserID]; exists {
		link.CreatedAt = existing.CreatedAt
	} else {
		r.orders = append(r.orders, link.UserID)
		if link.CreatedAt.IsZero() {
			link.CreatedAt = link.UpdatedAt
		}
	}
	r.items[link.UserID] = link

	return nil
}

func (r *UserTeamRepository) ListLinked(_ context.Context) ([]userteam.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]userteam.Link, 0, len(r.orders))
	for _, id := range r.orders {
		if item, ok := r.items[id]; ok && item.HasTeam() {
			out = append(out, item)
		}
	}

	return out, nil
}
