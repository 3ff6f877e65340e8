package recommend

import "math"

// Normalize rescales value from [min,max] to [0,1], clamping out-of-range
// inputs. Non-finite inputs normalize to 0.
func Normalize(value, min, max float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	clamped := math.Max(min, math.Min(max, value))
	return (clamped - min) / (max - min)
}

// SubScores are the five normalized metric components, kept alongside the
// composite score for rationale display.
type SubScores struct {
	FormDelta           float64 `json:"formDelta"`
	FormTrend           float64 `json:"formTrend"`
	ExpectedPointsDelta float64 `json:"expectedPointsDelta"`
	FixtureEase         float64 `json:"fixtureEase"`
	ValueSignal         float64 `json:"valueSignal"`
}

// formDelta rewards current form exceeding the season baseline.
// The raw delta lives in [-10,10] before normalization.
func formDelta(c Candidate) float64 {
	return Normalize((c.Form-c.PointsPerGame)+10, 0, 20)
}

// formTrend is a placeholder proxy: a real trend needs historical samples,
// so the current form level stands in for its slope.
func formTrend(c Candidate) float64 {
	return Normalize(c.Form, 0, 10)
}

func expectedPointsDelta(c Candidate) float64 {
	return Normalize((c.ExpectedPoints-c.PointsPerGame)+10, 0, 20)
}

// fixtureEase uses expected points as an ease proxy: there is no dedicated
// fixture-difficulty model backing this metric.
func fixtureEase(c Candidate) float64 {
	return Normalize(c.ExpectedPoints, 0, 10)
}

// valueSignal rewards points-per-currency-unit efficiency. The 0.1 price
// floor avoids division blow-up for zero or near-zero prices.
func valueSignal(c Candidate) float64 {
	return Normalize(c.ExpectedPoints/math.Max(0.1, c.Price), 0, 2)
}

// Evaluate computes the five sub-scores for a candidate and combines them
// with the given weights. Pure function; no failure modes for well-typed
// input.
func Evaluate(c Candidate, w Weights) (float64, SubScores) {
	scores := SubScores{
		FormDelta:           formDelta(c),
		FormTrend:           formTrend(c),
		ExpectedPointsDelta: expectedPointsDelta(c),
		FixtureEase:         fixtureEase(c),
		ValueSignal:         valueSignal(c),
	}

	weighted := w.FormDelta*scores.FormDelta +
		w.FormTrend*scores.FormTrend +
		w.ExpectedPointsDelta*scores.ExpectedPointsDelta +
		w.FixtureEase*scores.FixtureEase +
		w.ValueSignal*scores.ValueSignal

	return weighted, scores
}
