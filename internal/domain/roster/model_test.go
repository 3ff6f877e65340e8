package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionFromElementType(t *testing.T) {
	assert.Equal(t, PositionGoalkeeper, PositionFromElementType(1))
	assert.Equal(t, PositionDefender, PositionFromElementType(2))
	assert.Equal(t, PositionMidfielder, PositionFromElementType(3))
	assert.Equal(t, PositionForward, PositionFromElementType(4))
	assert.Equal(t, PositionMidfielder, PositionFromElementType(0))
	assert.Equal(t, PositionMidfielder, PositionFromElementType(99))
}

func TestBuildJoinsPicksAgainstUniverse(t *testing.T) {
	universe := []UniversePlayer{
		{ID: 1, Name: "Raya", Team: "ARS", Position: PositionGoalkeeper, Price: 5.5, Form: 4.0, PointsPerGame: 4.2, ExpectedPoints: 4.5},
		{ID: 2, Name: "Saka", Team: "ARS", Position: PositionMidfielder, Price: 10.0, Form: 7.1, PointsPerGame: 6.0, ExpectedPoints: 6.4},
	}
	picks := []Pick{
		{PlayerID: 2, IsCaptain: true, Multiplier: 2},
		{PlayerID: 1, Multiplier: 1},
	}

	players, err := Build(picks, universe)
	require.NoError(t, err)
	require.Len(t, players, 2)

	assert.Equal(t, "Saka", players[0].Name)
	assert.True(t, players[0].IsCaptain)
	assert.Equal(t, 2, players[0].Multiplier)
	assert.Equal(t, PositionMidfielder, players[0].Position)

	assert.Equal(t, "Raya", players[1].Name)
	assert.False(t, players[1].IsCaptain)
}

func TestBuildUnknownPick(t *testing.T) {
	universe := []UniversePlayer{{ID: 1}}
	_, err := Build([]Pick{{PlayerID: 42}}, universe)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player with id 42 not found")
}

func TestBuildEmptyPicks(t *testing.T) {
	players, err := Build(nil, []UniversePlayer{{ID: 1}})
	require.NoError(t, err)
	assert.Empty(t, players)
}
