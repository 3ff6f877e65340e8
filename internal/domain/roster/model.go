package roster

import "fmt"

// Position represents the four FPL squad slots.
type Position string

const (
	PositionGoalkeeper Position = "GKP"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// PositionFromElementType maps the FPL element_type code (1..4).
// Unknown codes fall back to midfielder, matching upstream behavior.
func PositionFromElementType(elementType int) Position {
	switch elementType {
	case 1:
		return PositionGoalkeeper
	case 2:
		return PositionDefender
	case 3:
		return PositionMidfielder
	case 4:
		return PositionForward
	default:
		return PositionMidfielder
	}
}

// UniversePlayer is one entry of the full FPL player universe, already
// converted out of wire units (price in currency units, scalars parsed).
type UniversePlayer struct {
	ID                       int64    `json:"id"`
	Name                     string   `json:"name"`
	Team                     string   `json:"team"`
	Position                 Position `json:"position"`
	Price                    float64  `json:"price"`
	TotalPoints              int      `json:"totalPoints"`
	Form                     float64  `json:"form"`
	PointsPerGame            float64  `json:"pointsPerGame"`
	ExpectedPoints           float64  `json:"expectedPoints"`
	Status                   string   `json:"status"`
	News                     string   `json:"news"`
	ChanceOfPlayingNextRound *int     `json:"chanceOfPlayingNextRound"`
}

// RosterPlayer is a player currently on a user's squad. Immutable snapshot,
// superseded wholesale on the next fetch.
type RosterPlayer struct {
	ID                       int64    `json:"id"`
	Name                     string   `json:"name"`
	Team                     string   `json:"team"`
	Position                 Position `json:"position"`
	Price                    float64  `json:"price"`
	TotalPoints              int      `json:"totalPoints"`
	Form                     float64  `json:"form"`
	PointsPerGame            float64  `json:"pointsPerGame"`
	ExpectedPoints           float64  `json:"expectedPoints"`
	IsCaptain                bool     `json:"isCaptain"`
	IsViceCaptain            bool     `json:"isViceCaptain"`
	Multiplier               int      `json:"multiplier"`
	Status                   string   `json:"status"`
	News                     string   `json:"news"`
	ChanceOfPlayingNextRound *int     `json:"chanceOfPlayingNextRound"`
}

// Pick is one slot of a manager's gameweek picks, referencing a universe
// player by id.
type Pick struct {
	PlayerID      int64
	IsCaptain     bool
	IsViceCaptain bool
	Multiplier    int
}

// Build joins gameweek picks against the player universe. A pick referencing
// a player id absent from the universe is an input-contract violation: a
// silently substituted default would corrupt downstream scoring.
func Build(picks []Pick, universe []UniversePlayer) ([]RosterPlayer, error) {
	byID := make(map[int64]UniversePlayer, len(universe))
	for _, p := range universe {
		byID[p.ID] = p
	}

	out := make([]RosterPlayer, 0, len(picks))
	for _, pick := range picks {
		p, ok := byID[pick.PlayerID]
		if !ok {
			return nil, fmt.Errorf("player with id %d not found in universe", pick.PlayerID)
		}
		out = append(out, RosterPlayer{
			ID:                       p.ID,
			Name:                     p.Name,
			Team:                     p.Team,
			Position:                 p.Position,
			Price:                    p.Price,
			TotalPoints:              p.TotalPoints,
			Form:                     p.Form,
			PointsPerGame:            p.PointsPerGame,
			ExpectedPoints:           p.ExpectedPoints,
			IsCaptain:                pick.IsCaptain,
			IsViceCaptain:            pick.IsViceCaptain,
			Multiplier:               pick.Multiplier,
			Status:                   p.Status,
			News:                     p.News,
			ChanceOfPlayingNextRound: p.ChanceOfPlayingNextRound,
		})
	}

	return out, nil
}
