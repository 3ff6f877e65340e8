package recommend

import (
	"errors"

	"github.com/fplmate/fpl-companion/internal/domain/roster"
)

var ErrEmptyRoster = errors.New("roster is empty")

// SelectSwapOut deterministically picks the weakest incumbent: lowest
// season points-per-game, tie-break on lower expected points, then lower
// form. The swap-out's position constrains the candidate pool, since a
// removed player must be replaced by a same-position one.
func SelectSwapOut(players []roster.RosterPlayer) (roster.RosterPlayer, error) {
	if len(players) == 0 {
		return roster.RosterPlayer{}, ErrEmptyRoster
	}

	worst := players[0]
	for _, p := range players[1:] {
		switch {
		case p.PointsPerGame != worst.PointsPerGame:
			if p.PointsPerGame < worst.PointsPerGame {
				worst = p
			}
		case p.ExpectedPoints != worst.ExpectedPoints:
			if p.ExpectedPoints < worst.ExpectedPoints {
				worst = p
			}
		case p.Form < worst.Form:
			worst = p
		}
	}

	return worst, nil
}
