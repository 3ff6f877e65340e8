package userteam

import "context"

// Repository describes user-team-link persistence needs from use cases.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Link, bool, error)
	Upsert(ctx context.Context, link Link) error
	// ListLinked returns every user with a connected FPL team, for the
	// alert readiness sweep.
	ListLinked(ctx context.Context) ([]Link, error)
}
