package fplapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/fplmate/fpl-companion/internal/domain/roster"
	"github.com/fplmate/fpl-companion/internal/usecase"
)

// Wire shapes of the official FPL API. Numeric stats arrive as strings
// ("form":"5.2"), prices in tenths of a million, and expected points split
// across ep_next/ep_this depending on deadline proximity.

type bootstrapEnvelope struct {
	Events   []eventRow   `json:"events"`
	Teams    []teamRow    `json:"teams"`
	Elements []elementRow `json:"elements"`
}

type eventRow struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DeadlineTime string `json:"deadline_time"`
	IsCurrent    bool   `json:"is_current"`
	IsNext       bool   `json:"is_next"`
	Finished     bool   `json:"finished"`
}

type teamRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type elementRow struct {
	ID                       int64  `json:"id"`
	WebName                  string `json:"web_name"`
	Team                     int64  `json:"team"`
	ElementType              int    `json:"element_type"`
	NowCost                  int    `json:"now_cost"`
	TotalPoints              int    `json:"total_points"`
	Form                     string `json:"form"`
	PointsPerGame            string `json:"points_per_game"`
	EPNext                   string `json:"ep_next"`
	EPThis                   string `json:"ep_this"`
	Status                   string `json:"status"`
	News                     string `json:"news"`
	ChanceOfPlayingNextRound *int   `json:"chance_of_playing_next_round"`
}

type entryEnvelope struct {
	Name                string `json:"name"`
	PlayerFirstName     string `json:"player_first_name"`
	PlayerLastName      string `json:"player_last_name"`
	SummaryOverallPoint int    `json:"summary_overall_points"`
	SummaryOverallRank  int    `json:"summary_overall_rank"`
	SummaryEventPoints  int    `json:"summary_event_points"`
	LastDeadlineValue   int    `json:"last_deadline_value"`
	LastDeadlineBank    int    `json:"last_deadline_bank"`
	CurrentEvent        int    `json:"current_event"`
	LastDeadlineTotal   int    `json:"last_deadline_total_transfers"`
}

type picksEnvelope struct {
	ActiveChip string    `json:"active_chip"`
	Picks      []pickRow `json:"picks"`
}

type pickRow struct {
	Element       int64 `json:"element"`
	IsCaptain     bool  `json:"is_captain"`
	IsViceCaptain bool  `json:"is_vice_captain"`
	Multiplier    int   `json:"multiplier"`
}

type classicLeagueEnvelope struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"league"`
	Standings struct {
		Results []standingRow `json:"results"`
	} `json:"standings"`
}

type standingRow struct {
	Entry      int64  `json:"entry"`
	EntryName  string `json:"entry_name"`
	PlayerName string `json:"player_name"`
	Rank       int    `json:"rank"`
	LastRank   int    `json:"last_rank"`
	Total      int    `json:"total"`
	EventTotal int    `json:"event_total"`
}

// parseStatFloat handles the API's string-typed numerics. Missing or
// unparseable values map to zero rather than failing the whole fetch.
func parseStatFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return parsed
}

func expectedPoints(item elementRow) float64 {
	for _, candidate := range []string{item.EPNext, item.EPThis} {
		if strings.TrimSpace(candidate) != "" {
			return parseStatFloat(candidate)
		}
	}
	return 0
}

func mapBootstrap(envelope bootstrapEnvelope) usecase.ExternalBootstrap {
	teamNames := make(map[int64]string, len(envelope.Teams))
	for _, team := range envelope.Teams {
		name := strings.TrimSpace(team.ShortName)
		if name == "" {
			name = strings.TrimSpace(team.Name)
		}
		teamNames[team.ID] = name
	}

	universe := make([]roster.UniversePlayer, 0, len(envelope.Elements))
	for _, item := range envelope.Elements {
		if item.ID <= 0 {
			continue
		}
		universe = append(universe, roster.UniversePlayer{
			ID:                       item.ID,
			Name:                     strings.TrimSpace(item.WebName),
			Team:                     teamNames[item.Team],
			Position:                 roster.PositionFromElementType(item.ElementType),
			Price:                    float64(item.NowCost) / 10,
			TotalPoints:              item.TotalPoints,
			Form:                     parseStatFloat(item.Form),
			PointsPerGame:            parseStatFloat(item.PointsPerGame),
			ExpectedPoints:           expectedPoints(item),
			Status:                   item.Status,
			News:                     item.News,
			ChanceOfPlayingNextRound: item.ChanceOfPlayingNextRound,
		})
	}

	gameweeks := make([]usecase.ExternalGameweek, 0, len(envelope.Events))
	for _, event := range envelope.Events {
		gw := usecase.ExternalGameweek{
			ID:          event.ID,
			Name:        event.Name,
			DeadlineISO: event.DeadlineTime,
			IsCurrent:   event.IsCurrent,
			IsNext:      event.IsNext,
			Finished:    event.Finished,
		}
		if parsed, err := time.Parse(time.RFC3339, event.DeadlineTime); err == nil {
			gw.DeadlineEpochMs = parsed.UnixMilli()
		}
		gameweeks = append(gameweeks, gw)
	}

	return usecase.ExternalBootstrap{Universe: universe, Gameweeks: gameweeks}
}

func mapManager(teamID int64, envelope entryEnvelope) usecase.ExternalManager {
	managerName := strings.TrimSpace(envelope.PlayerFirstName + " " + envelope.PlayerLastName)
	return usecase.ExternalManager{
		TeamID:            teamID,
		TeamName:          strings.TrimSpace(envelope.Name),
		ManagerName:       managerName,
		OverallPoints:     envelope.SummaryOverallPoint,
		OverallRank:       envelope.SummaryOverallRank,
		GameweekPoints:    envelope.SummaryEventPoints,
		TeamValueTenths:   envelope.LastDeadlineValue,
		BankTenths:        envelope.LastDeadlineBank,
		TotalTransfers:    envelope.LastDeadlineTotal,
		CurrentGameweekID: envelope.CurrentEvent,
	}
}

func mapPicks(teamID int64, gameweekID int, envelope picksEnvelope) usecase.ExternalPicks {
	picks := make([]roster.Pick, 0, len(envelope.Picks))
	for _, item := range envelope.Picks {
		if item.Element <= 0 {
			continue
		}
		picks = append(picks, roster.Pick{
			PlayerID:      item.Element,
			IsCaptain:     item.IsCaptain,
			IsViceCaptain: item.IsViceCaptain,
			Multiplier:    item.Multiplier,
		})
	}

	return usecase.ExternalPicks{
		TeamID:     teamID,
		GameweekID: gameweekID,
		Picks:      picks,
		ActiveChip: envelope.ActiveChip,
	}
}

func mapClassicLeague(leagueID int64, envelope classicLeagueEnvelope) usecase.ExternalLeague {
	rows := make([]usecase.ExternalLeagueRow, 0, len(envelope.Standings.Results))
	for _, item := range envelope.Standings.Results {
		if item.Entry <= 0 {
			continue
		}
		rows = append(rows, usecase.ExternalLeagueRow{
			TeamID:         item.Entry,
			TeamName:       strings.TrimSpace(item.EntryName),
			ManagerName:    strings.TrimSpace(item.PlayerName),
			Rank:           item.Rank,
			LastRank:       item.LastRank,
			TotalPoints:    item.Total,
			GameweekPoints: item.EventTotal,
		})
	}

	name := strings.TrimSpace(envelope.League.Name)
	if envelope.League.ID > 0 {
		leagueID = envelope.League.ID
	}
	return usecase.ExternalLeague{LeagueID: leagueID, Name: name, Rows: rows}
}
