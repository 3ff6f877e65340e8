package recommend

import "github.com/fplmate/fpl-companion/internal/domain/roster"

// Candidate is a non-owned player evaluated as a potential incoming
// transfer. Derived transiently from the player universe.
type Candidate struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Team              string          `json:"team"`
	Position          roster.Position `json:"position"`
	Price             float64         `json:"price"`
	Form              float64         `json:"form"`
	PointsPerGame     float64         `json:"pointsPerGame"`
	ExpectedPoints    float64         `json:"expectedPoints"`
	RivalOwnershipPct *float64        `json:"rivalOwnershipPct,omitempty"`
}

// Item is one ranked transfer suggestion. The payload is serialized for
// the presentation layer and the recommendation cache verbatim, hence the
// camelCase tags.
type Item struct {
	In                       Candidate           `json:"in"`
	Out                      roster.RosterPlayer `json:"out"`
	Score                    float64             `json:"score"`
	Rationale                string              `json:"rationale"`
	WeeklyPointsDelta        float64             `json:"weeklyPointsDelta"`
	NextFixtureExpectedDelta float64             `json:"nextFixtureExpectedDelta"`
	ValuePerMillion          float64             `json:"valuePerMillion"`
	NetSpend                 float64             `json:"netSpend"`
}

// Payload is the ordered recommendation set, best first, at most
// Config.MaxRecommendations entries. An empty Items slice is the expected
// steady state for a well-optimized squad.
type Payload struct {
	Items []Item `json:"items"`
}
