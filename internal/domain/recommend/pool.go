package recommend

import "github.com/fplmate/fpl-companion/internal/domain/roster"

// BuildCandidatePool filters the player universe down to transfer
// candidates: every non-owned player, restricted to targetPosition when it
// is non-empty. Output preserves universe order and is never an error;
// an empty pool is a valid result.
func BuildCandidatePool(owned []roster.RosterPlayer, universe []roster.UniversePlayer, targetPosition roster.Position) []Candidate {
	ownedIDs := make(map[int64]struct{}, len(owned))
	for _, p := range owned {
		ownedIDs[p.ID] = struct{}{}
	}

	out := make([]Candidate, 0, len(universe))
	for _, p := range universe {
		if _, ok := ownedIDs[p.ID]; ok {
			continue
		}
		if targetPosition != "" && p.Position != targetPosition {
			continue
		}
		out = append(out, Candidate{
			ID:             p.ID,
			Name:           p.Name,
			Team:           p.Team,
			Position:       p.Position,
			Price:          p.Price,
			Form:           p.Form,
			PointsPerGame:  p.PointsPerGame,
			ExpectedPoints: p.ExpectedPoints,
		})
	}

	return out
}
