package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/fplmate/fpl-companion/internal/domain/roster"
)

// Compute ranks transfer candidates for the given roster against the full
// player universe and returns at most cfg.MaxRecommendations items, best
// first. An empty payload means no improving swap exists right now.
//
// The expected-points-delta term of the generic evaluator is replaced with
// a baseline-relative weekly delta (candidate PPG minus swap-out PPG), so
// the dominant term compares season output against the specific player
// being replaced.
func Compute(cfg Config, players []roster.RosterPlayer, universe []roster.UniversePlayer) (Payload, error) {
	out, err := SelectSwapOut(players)
	if err != nil {
		return Payload{}, fmt.Errorf("select swap-out: %w", err)
	}

	pool := BuildCandidatePool(players, universe, out.Position)

	items := make([]Item, 0, len(pool))
	for _, candidate := range pool {
		_, scores := Evaluate(candidate, cfg.Weights)

		weeklyDelta := candidate.PointsPerGame - out.PointsPerGame
		if weeklyDelta <= 0 {
			continue
		}

		weeklyDeltaNorm := Normalize(weeklyDelta+5, 0, 10)
		nextFixtureDelta := candidate.ExpectedPoints - out.ExpectedPoints
		valuePerMillion := weeklyDelta / math.Max(0.1, candidate.Price)
		netSpend := candidate.Price - out.Price

		score := cfg.Weights.FormDelta*scores.FormDelta +
			cfg.Weights.FormTrend*scores.FormTrend +
			cfg.Weights.ExpectedPointsDelta*weeklyDeltaNorm +
			cfg.Weights.FixtureEase*scores.FixtureEase +
			cfg.Weights.ValueSignal*scores.ValueSignal

		if score < cfg.MinScore {
			continue
		}

		items = append(items, Item{
			In:                       candidate,
			Out:                      out,
			Score:                    score,
			Rationale:                buildRationale(scores.FormDelta, weeklyDelta, nextFixtureDelta, valuePerMillion),
			WeeklyPointsDelta:        weeklyDelta,
			NextFixtureExpectedDelta: nextFixtureDelta,
			ValuePerMillion:          valuePerMillion,
			NetSpend:                 netSpend,
		})
	}

	// Exact score ties resolve by ascending candidate id so the ordering
	// never depends on universe iteration order.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].In.ID < items[j].In.ID
	})

	if len(items) > cfg.MaxRecommendations {
		items = items[:cfg.MaxRecommendations]
	}

	return Payload{Items: items}, nil
}

func buildRationale(formDelta, weeklyDelta, nextFixtureDelta, valuePerMillion float64) string {
	return fmt.Sprintf("formΔ:%.2f ppgΔ:%.2f gwXPΔ:%.2f val:%.2f",
		formDelta, weeklyDelta, nextFixtureDelta, valuePerMillion)
}
