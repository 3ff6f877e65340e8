package memory

import (
	"time"

	"github.com/fplmate/fpl-companion/internal/domain/alert"
	"github.com/fplmate/fpl-companion/internal/domain/userteam"
)

// Development seeds for running the API without Postgres. IDs match
// between the two sets so the seeded user is both linked and alertable.

func SeedRecipients() []alert.Recipient {
	return []alert.Recipient{
		{
			ID:          "dev-user-1",
			Email:       "dev-user-1@example.com",
			TimeZone:    "Europe/London",
			WindowStart: "19:00",
			WindowEnd:   "21:00",
		},
		{
			ID:          "dev-user-2",
			Email:       "dev-user-2@example.com",
			TimeZone:    "America/New_York",
			WindowStart: "20:00",
			WindowEnd:   "22:00",
			Disabled:    true,
		},
	}
}

func SeedUserTeamLinks() []userteam.Link {
	teamID := int64(158389)
	leagueID := int64(314)
	now := time.Now().UTC()

	return []userteam.Link{
		{
			UserID:    "dev-user-1",
			Email:     "dev-user-1@example.com",
			TeamID:    &teamID,
			LeagueID:  &leagueID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			UserID:    "dev-user-2",
			Email:     "dev-user-2@example.com",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
