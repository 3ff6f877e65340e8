package playerrisk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fplmate/fpl-companion/internal/domain/roster"
)

func intPtr(v int) *int { return &v }

func TestAssessStatusFlags(t *testing.T) {
	tests := []struct {
		name   string
		player roster.RosterPlayer
		want   Badge
	}{
		{"suspended status", roster.RosterPlayer{Status: "s"}, BadgeSuspended},
		{"suspended status long", roster.RosterPlayer{Status: "SUS"}, BadgeSuspended},
		{"injured status", roster.RosterPlayer{Status: "i"}, BadgeInjured},
		{"injured status long", roster.RosterPlayer{Status: "inj"}, BadgeInjured},
		{"available status", roster.RosterPlayer{Status: "a"}, BadgeOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assess(tt.player).Badge)
		})
	}
}

func TestAssessDoubtfulChance(t *testing.T) {
	assert.Equal(t, BadgeDoubtful, Assess(roster.RosterPlayer{ChanceOfPlayingNextRound: intPtr(50)}).Badge)
	assert.Equal(t, BadgeDoubtful, Assess(roster.RosterPlayer{ChanceOfPlayingNextRound: intPtr(74)}).Badge)
	assert.Equal(t, BadgeOK, Assess(roster.RosterPlayer{ChanceOfPlayingNextRound: intPtr(75)}).Badge)
	assert.Equal(t, BadgeOK, Assess(roster.RosterPlayer{ChanceOfPlayingNextRound: intPtr(100)}).Badge)
	// Zero chance without a status flag is left to the news/form checks.
	assert.Equal(t, BadgeOK, Assess(roster.RosterPlayer{ChanceOfPlayingNextRound: intPtr(0)}).Badge)
}

func TestAssessNewsKeywords(t *testing.T) {
	assert.Equal(t, BadgeSuspended, Assess(roster.RosterPlayer{News: "Suspended until 20 Sep"}).Badge)
	assert.Equal(t, BadgeSuspended, Assess(roster.RosterPlayer{News: "One-match ban"}).Badge)
	assert.Equal(t, BadgeInjured, Assess(roster.RosterPlayer{News: "Hamstring injury, expected back next month"}).Badge)
	assert.Equal(t, BadgeInjured, Assess(roster.RosterPlayer{News: "Knee problem"}).Badge)
}

func TestAssessStatusBeatsNews(t *testing.T) {
	p := roster.RosterPlayer{Status: "s", News: "Knee injury"}
	assert.Equal(t, BadgeSuspended, Assess(p).Badge)
}

func TestAssessFormDip(t *testing.T) {
	assert.Equal(t, BadgeFormDip, Assess(roster.RosterPlayer{Form: 2.0, PointsPerGame: 4.0}).Badge)
	assert.Equal(t, BadgeOK, Assess(roster.RosterPlayer{Form: 3.0, PointsPerGame: 4.0}).Badge)
	// Exactly at the threshold is not a dip.
	assert.Equal(t, BadgeOK, Assess(roster.RosterPlayer{Form: 2.5, PointsPerGame: 4.0}).Badge)
}

func TestAssessCarriesIdentity(t *testing.T) {
	info := Assess(roster.RosterPlayer{ID: 7, Name: "Son", Team: "TOT", News: "fit"})
	assert.Equal(t, int64(7), info.ID)
	assert.Equal(t, "Son", info.Name)
	assert.Equal(t, "TOT", info.Team)
	assert.Equal(t, "fit", info.News)
}
