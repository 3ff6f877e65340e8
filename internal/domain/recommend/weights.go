package recommend

// WeightsVersion tags the scoring contract. It participates in the
// recommendation cache context hash so cached payloads are invalidated
// whenever the weighting changes.
const WeightsVersion = "v1.3"

// Weights are the fixed combination factors for the five sub-scores.
// They must sum to 1.0 so the composite score stays in [0,1].
type Weights struct {
	FormDelta           float64
	FormTrend           float64
	ExpectedPointsDelta float64
	FixtureEase         float64
	ValueSignal         float64
}

func DefaultWeights() Weights {
	return Weights{
		FormDelta:           0.25,
		FormTrend:           0.20,
		ExpectedPointsDelta: 0.35,
		FixtureEase:         0.15,
		ValueSignal:         0.05,
	}
}

// Config carries the ranker's tunables as an explicit immutable value,
// keeping the core referentially transparent.
type Config struct {
	Weights Weights
	// MinScore discards candidates scoring below the floor. The default of
	// zero lets ranking decide.
	MinScore float64
	// MaxRecommendations bounds the payload size.
	MaxRecommendations int
}

func DefaultConfig() Config {
	return Config{
		Weights:            DefaultWeights(),
		MinScore:           0.0,
		MaxRecommendations: 3,
	}
}
